package devstore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"avtoelon/internal/domain/chat"
	"avtoelon/internal/domain/listing"
	"avtoelon/internal/domain/user"
	"avtoelon/internal/infra/obs"
)

// NewRouter wires the flat record-store routes: /users, /messages and one
// collection per listing category. Query parameter brand filters listing
// collections server-side; everything else is returned whole, exactly as
// the hosted store behaves.
func NewRouter(store Store, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	health := obs.HealthHandlers{}
	if pinger, ok := store.(interface {
		Ping(ctx context.Context) error
	}); ok {
		health.Ready = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pinger.Ping(ctx)
		}
	}
	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	h := handlers{store: store, logger: logger}

	router.GET("/users", h.listUsers)
	router.GET("/users/:id", h.getUser)
	router.POST("/users", h.createUser)
	router.PUT("/users/:id", h.replaceUser)

	router.GET("/messages", h.listMessages)
	router.POST("/messages", h.createMessage)

	for _, cat := range listing.Categories() {
		group := router.Group("/" + string(cat))
		group.GET("", h.listListings(cat))
		group.GET("/:id", h.getListing(cat))
		group.POST("", h.createListing(cat))
		group.PUT("/:id", h.replaceListing(cat))
	}
	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}
		logger.Info("http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", id)
	}
}

type handlers struct {
	store  Store
	logger *slog.Logger
}

func (h handlers) listUsers(c *gin.Context) {
	users, err := h.store.Users(c.Request.Context())
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h handlers) getUser(c *gin.Context) {
	u, err := h.store.UserByID(c.Request.Context(), user.ID(c.Param("id")))
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h handlers) createUser(c *gin.Context) {
	var u user.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(u.Phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phoneNumber is required"})
		return
	}
	created, err := h.store.CreateUser(c.Request.Context(), u)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h handlers) replaceUser(c *gin.Context) {
	var u user.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	updated, err := h.store.ReplaceUser(c.Request.Context(), user.ID(c.Param("id")), u)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h handlers) listMessages(c *gin.Context) {
	messages, err := h.store.Messages(c.Request.Context())
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h handlers) createMessage(c *gin.Context) {
	var m chat.Message
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if m.Sender == "" || m.Receiver == "" || strings.TrimSpace(m.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sender, receiver and text are required"})
		return
	}
	created, err := h.store.AppendMessage(c.Request.Context(), m)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h handlers) listListings(cat listing.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.store.Listings(c.Request.Context(), cat)
		if err != nil {
			h.respondStoreError(c, err)
			return
		}
		if brand := c.Query("brand"); brand != "" {
			filtered := make([]listing.Listing, 0, len(items))
			for _, item := range items {
				if item.Brand == brand {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
		c.JSON(http.StatusOK, items)
	}
}

func (h handlers) getListing(cat listing.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := h.store.ListingByID(c.Request.Context(), cat, c.Param("id"))
		if err != nil {
			h.respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (h handlers) createListing(cat listing.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item listing.Listing
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		created, err := h.store.CreateListing(c.Request.Context(), cat, item)
		if err != nil {
			h.respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func (h handlers) replaceListing(cat listing.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item listing.Listing
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		updated, err := h.store.ReplaceListing(c.Request.Context(), cat, c.Param("id"), item)
		if err != nil {
			h.respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func (h handlers) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if h.logger != nil {
		h.logger.Error("store operation failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
