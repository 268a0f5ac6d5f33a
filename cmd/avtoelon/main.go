package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/docopt/docopt-go"

	authsvc "avtoelon/internal/app/services/auth"
	chatsvc "avtoelon/internal/app/services/chat"
	likesvc "avtoelon/internal/app/services/likes"
	listingsvc "avtoelon/internal/app/services/listings"
	"avtoelon/internal/domain/listing"
	"avtoelon/internal/infra/api"
	"avtoelon/internal/infra/config"
	"avtoelon/internal/infra/obs"
	"avtoelon/internal/infra/session"
)

const version = "0.1.0"

const usage = `Classifieds marketplace client.

Usage:
    avtoelon signup --phone=<phone> --password=<password>
    avtoelon login --phone=<phone> --password=<password>
    avtoelon listings <category> [--brand=<brand>]
    avtoelon avgprice <category> <brand>
    avtoelon saved
    avtoelon chats
    avtoelon history <counterpart>
    avtoelon send <counterpart> <text>...
    avtoelon like <category> <listing-id>

Options:
    -h --help              Show this screen.
    --version              Show version.
    --phone=<phone>        Phone number in +998XXXXXXXXX form.
    --password=<password>  Account password.
    --brand=<brand>        Filter listings by brand.

Categories: vehicles, machinery, parts, services.`

type app struct {
	auth     *authsvc.Service
	chat     *chatsvc.Service
	likes    *likesvc.Service
	listings *listingsvc.Service
	sessions *session.FileStore
}

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration invalid:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.StoreBaseURL,
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
	}, logger)
	if err != nil {
		logger.Error("store client init failed", "error", err)
		os.Exit(1)
	}
	sessions := session.NewFileStore(cfg.SessionFile)

	a := app{
		auth:     &authsvc.Service{Store: client, Sessions: sessions, Logger: logger},
		chat:     &chatsvc.Service{Store: client, Logger: logger},
		likes:    &likesvc.Service{Store: client, Logger: logger},
		listings: &listingsvc.Service{Store: client, Logger: logger},
		sessions: sessions,
	}

	if err := a.run(context.Background(), opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a app) run(ctx context.Context, opts docopt.Opts) error {
	switch {
	case command(opts, "signup"):
		return a.signup(ctx, stringOpt(opts, "--phone"), stringOpt(opts, "--password"))
	case command(opts, "login"):
		return a.login(ctx, stringOpt(opts, "--phone"), stringOpt(opts, "--password"))
	case command(opts, "listings"):
		return a.list(ctx, stringOpt(opts, "<category>"), stringOpt(opts, "--brand"))
	case command(opts, "avgprice"):
		return a.avgPrice(ctx, stringOpt(opts, "<category>"), stringOpt(opts, "<brand>"))
	case command(opts, "saved"):
		return a.saved(ctx)
	case command(opts, "chats"):
		return a.chats(ctx)
	case command(opts, "history"):
		return a.history(ctx, stringOpt(opts, "<counterpart>"))
	case command(opts, "send"):
		return a.send(ctx, stringOpt(opts, "<counterpart>"), textOpt(opts))
	case command(opts, "like"):
		return a.like(ctx, stringOpt(opts, "<category>"), stringOpt(opts, "<listing-id>"))
	}
	return errors.New("unknown command")
}

func (a app) signup(ctx context.Context, phone, password string) error {
	created, err := a.auth.SignUp(ctx, phone, password)
	if err != nil {
		return err
	}
	fmt.Printf("account created for %s, you can log in now\n", created.Phone)
	return nil
}

func (a app) login(ctx context.Context, phone, password string) error {
	u, err := a.auth.Login(ctx, phone, password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (balance %d)\n", u.Phone, u.Balance)
	return nil
}

func (a app) list(ctx context.Context, rawCategory, brand string) error {
	cat, err := listing.ParseCategory(rawCategory)
	if err != nil {
		return err
	}
	var items []listing.Listing
	if brand != "" {
		items, err = a.listings.Store.ListingsByBrand(ctx, cat, brand)
	} else {
		items, err = a.listings.ByCategory(ctx, cat)
	}
	if err != nil {
		return err
	}
	for _, item := range items {
		fmt.Printf("%s  %-16s %-12s likes=%d\n", item.ID, item.Brand, item.Price, item.LikeCount)
	}
	return nil
}

func (a app) avgPrice(ctx context.Context, rawCategory, brand string) error {
	cat, err := listing.ParseCategory(rawCategory)
	if err != nil {
		return err
	}
	avg, err := a.listings.AveragePrice(ctx, cat, brand)
	if err != nil {
		return err
	}
	fmt.Printf("average price for %s: %.2f\n", brand, avg)
	return nil
}

func (a app) saved(ctx context.Context) error {
	current, err := a.sessions.Current()
	if err != nil {
		return err
	}
	items, err := a.listings.Saved(ctx, current)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no saved listings")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%s  %-16s %s\n", item.ID, item.Brand, item.Price)
	}
	return nil
}

func (a app) chats(ctx context.Context) error {
	current, err := a.sessions.Current()
	if err != nil {
		return err
	}
	conversations, err := a.chat.Conversations(ctx, current.Phone)
	if err != nil {
		return err
	}
	if len(conversations) == 0 {
		fmt.Println("no conversations")
		return nil
	}
	for _, conv := range conversations {
		fmt.Printf("%s  %s  %s\n", conv.Counterpart, conv.LastMessageTime, conv.LastMessageText)
	}
	return nil
}

func (a app) history(ctx context.Context, counterpart string) error {
	current, err := a.sessions.Current()
	if err != nil {
		return err
	}
	messages, err := a.chat.History(ctx, current.Phone, counterpart)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		prefix := "<"
		if msg.Sender == current.Phone {
			prefix = ">"
		}
		fmt.Printf("%s %s  %s\n", prefix, msg.Timestamp, msg.Text)
	}
	return nil
}

func (a app) send(ctx context.Context, counterpart, text string) error {
	current, err := a.sessions.Current()
	if err != nil {
		return err
	}
	if _, err := a.chat.Send(ctx, current.Phone, counterpart, text); err != nil {
		return err
	}
	fmt.Println("sent")
	return nil
}

func (a app) like(ctx context.Context, rawCategory, id string) error {
	current, err := a.sessions.Current()
	if err != nil {
		return err
	}
	cat, err := listing.ParseCategory(rawCategory)
	if err != nil {
		return err
	}
	detail, err := a.listings.Detail(ctx, cat, id)
	if err != nil {
		return err
	}
	result, err := a.likes.Toggle(ctx, current, detail.Users, cat, detail.Listing)
	if err != nil {
		return err
	}
	state := "unliked"
	if result.Liked {
		state = "liked"
	}
	fmt.Printf("%s %s, balance now %d, listing likes %d\n",
		state, result.Listing.ID, result.User.Balance, result.Listing.LikeCount)
	return a.sessions.Save(result.User)
}

func command(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

func stringOpt(opts docopt.Opts, name string) string {
	v, _ := opts.String(name)
	return v
}

func textOpt(opts docopt.Opts) string {
	raw, ok := opts["<text>"]
	if !ok {
		return ""
	}
	parts, ok := raw.([]string)
	if !ok {
		return ""
	}
	return strings.Join(parts, " ")
}
