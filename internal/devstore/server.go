package devstore

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewServer wraps the router in an http.Server for the storeserver binary.
func NewServer(addr, env string, store Store, logger *slog.Logger) *http.Server {
	configureGinMode(env)
	return &http.Server{Addr: addr, Handler: NewRouter(store, logger)}
}

func configureGinMode(env string) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test", "testing":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}
