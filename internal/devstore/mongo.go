package devstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"avtoelon/internal/domain/chat"
	"avtoelon/internal/domain/listing"
	"avtoelon/internal/domain/user"
)

// MongoStore persists the collections in MongoDB so a dev store survives
// restarts. Listing categories map to one collection each.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore connects and returns a mongo-backed store.
func NewMongoStore(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &MongoStore{db: client.Database(database)}, nil
}

// Ping verifies connectivity.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

type userDocument struct {
	ID       string   `bson:"_id"`
	Phone    string   `bson:"phone_number"`
	Password string   `bson:"password"`
	Balance  int      `bson:"balance"`
	LikedIDs []string `bson:"liked_listing_ids"`
}

func newUserDocument(u user.User) userDocument {
	liked := u.LikedIDs
	if liked == nil {
		liked = []string{}
	}
	return userDocument{
		ID:       string(u.ID),
		Phone:    u.Phone,
		Password: u.Password,
		Balance:  u.Balance,
		LikedIDs: liked,
	}
}

func (d userDocument) toRecord() user.User {
	return user.User{
		ID:       user.ID(d.ID),
		Phone:    d.Phone,
		Password: d.Password,
		Balance:  d.Balance,
		LikedIDs: append([]string{}, d.LikedIDs...),
	}
}

type messageDocument struct {
	Sender    string `bson:"sender"`
	Receiver  string `bson:"receiver"`
	Text      string `bson:"text"`
	Timestamp string `bson:"timestamp"`
}

type listingDocument struct {
	ID          string   `bson:"_id"`
	Brand       string   `bson:"brand"`
	Model       string   `bson:"model,omitempty"`
	Price       string   `bson:"price"`
	LikeCount   int      `bson:"like_count"`
	Year        string   `bson:"year,omitempty"`
	City        string   `bson:"city,omitempty"`
	Fuel        string   `bson:"fuel,omitempty"`
	Description string   `bson:"description,omitempty"`
	Images      []string `bson:"images,omitempty"`
	VIP         bool     `bson:"vip,omitempty"`
}

func newListingDocument(l listing.Listing) listingDocument {
	return listingDocument{
		ID:          l.ID,
		Brand:       l.Brand,
		Model:       l.Model,
		Price:       l.Price,
		LikeCount:   l.LikeCount,
		Year:        l.Year,
		City:        l.City,
		Fuel:        l.Fuel,
		Description: l.Description,
		Images:      l.Images,
		VIP:         l.VIP,
	}
}

func (d listingDocument) toRecord() listing.Listing {
	return listing.Listing{
		ID:          d.ID,
		Brand:       d.Brand,
		Model:       d.Model,
		Price:       d.Price,
		LikeCount:   d.LikeCount,
		Year:        d.Year,
		City:        d.City,
		Fuel:        d.Fuel,
		Description: d.Description,
		Images:      d.Images,
		VIP:         d.VIP,
	}
}

func (s *MongoStore) usersCol() *mongo.Collection { return s.db.Collection("users") }

func (s *MongoStore) messagesCol() *mongo.Collection { return s.db.Collection("messages") }

func (s *MongoStore) listingsCol(cat listing.Category) *mongo.Collection {
	return s.db.Collection(string(cat))
}

func (s *MongoStore) Users(ctx context.Context) ([]user.User, error) {
	cursor, err := s.usersCol().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toRecord())
	}
	return users, nil
}

func (s *MongoStore) UserByID(ctx context.Context, id user.ID) (user.User, error) {
	var doc userDocument
	err := s.usersCol().FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return doc.toRecord(), nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = user.ID(uuid.NewString())
	}
	if u.LikedIDs == nil {
		u.LikedIDs = []string{}
	}
	if _, err := s.usersCol().InsertOne(ctx, newUserDocument(u)); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *MongoStore) ReplaceUser(ctx context.Context, id user.ID, u user.User) (user.User, error) {
	u.ID = id
	res, err := s.usersCol().ReplaceOne(ctx, bson.M{"_id": string(id)}, newUserDocument(u))
	if err != nil {
		return user.User{}, err
	}
	if res.MatchedCount == 0 {
		return user.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MongoStore) Messages(ctx context.Context) ([]chat.Message, error) {
	cursor, err := s.messagesCol().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	messages := make([]chat.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, chat.Message{
			Sender:    doc.Sender,
			Receiver:  doc.Receiver,
			Text:      doc.Text,
			Timestamp: doc.Timestamp,
		})
	}
	return messages, nil
}

func (s *MongoStore) AppendMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	doc := messageDocument{Sender: m.Sender, Receiver: m.Receiver, Text: m.Text, Timestamp: m.Timestamp}
	if _, err := s.messagesCol().InsertOne(ctx, doc); err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (s *MongoStore) Listings(ctx context.Context, cat listing.Category) ([]listing.Listing, error) {
	cursor, err := s.listingsCol(cat).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	listings := make([]listing.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, doc.toRecord())
	}
	return listings, nil
}

func (s *MongoStore) ListingByID(ctx context.Context, cat listing.Category, id string) (listing.Listing, error) {
	var doc listingDocument
	err := s.listingsCol(cat).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return listing.Listing{}, ErrNotFound
	}
	if err != nil {
		return listing.Listing{}, err
	}
	return doc.toRecord(), nil
}

func (s *MongoStore) CreateListing(ctx context.Context, cat listing.Category, l listing.Listing) (listing.Listing, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if _, err := s.listingsCol(cat).InsertOne(ctx, newListingDocument(l)); err != nil {
		return listing.Listing{}, err
	}
	return l, nil
}

func (s *MongoStore) ReplaceListing(ctx context.Context, cat listing.Category, id string, l listing.Listing) (listing.Listing, error) {
	l.ID = id
	res, err := s.listingsCol(cat).ReplaceOne(ctx, bson.M{"_id": id}, newListingDocument(l))
	if err != nil {
		return listing.Listing{}, err
	}
	if res.MatchedCount == 0 {
		return listing.Listing{}, ErrNotFound
	}
	return l, nil
}

var _ Store = (*MongoStore)(nil)
