package handler

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"campusmess/internal/apperrors"
	"campusmess/internal/logger"
	"campusmess/internal/metrics"
	"campusmess/internal/microservices/http-api/dto"
	"campusmess/internal/microservices/http-api/middleware"
	"campusmess/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const MsgRouteNotFound = "Route not found"

// Services holds everything the router dispatches to.
type Services struct {
	Auth   service.AuthService
	Users  service.UserService
	Messes service.MessService
	Review service.ReviewService
	Offers service.OfferService
}

// RouterConfig carries the cross-cutting pieces of the router.
type RouterConfig struct {
	Tokens         middleware.TokenVerifier
	AuthLimiter    *middleware.RateLimiter // nil disables rate limiting
	Ping           func(ctx context.Context) error
	Static         fs.FS // application shell, nil disables the fallback
	CORSOrigins    []string
	RequestTimeout time.Duration
	EnableMetrics  bool
}

var registerValidatorsOnce sync.Once

// NewRouter wires handlers, middleware and the fallback route.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := dto.RegisterValidators(v); err != nil {
				logger.Get().Fatal().Err(err).Msg("failed to register validators")
			}
		}
	})

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	if cfg.EnableMetrics {
		r.Use(metrics.Middleware())
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.GET("/healthz", healthHandler(cfg.Ping))
	if cfg.EnableMetrics {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	authMiddleware := middleware.AuthMiddleware(cfg.Tokens)
	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		if cfg.AuthLimiter != nil {
			authGroup.Use(cfg.AuthLimiter.Handler())
		}
		NewAuthHandler(svc.Auth).RegisterRoutes(authGroup)

		users := api.Group("/users", authMiddleware)
		NewUserHandler(svc.Users).RegisterRoutes(users)

		NewMessHandler(svc.Messes).RegisterRoutes(api.Group("/mess"))

		reviews := api.Group("/reviews", authMiddleware)
		NewReviewHandler(svc.Review).RegisterRoutes(reviews)

		NewOfferHandler(svc.Offers).RegisterRoutes(api.Group("/offers"), authMiddleware)
	}

	r.NoRoute(fallbackHandler(cfg.Static))
	return r
}

// GET /healthz
func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				respondError(c, apperrors.NewInternalError("store ping", err))
				return
			}
		}
		c.JSON(http.StatusOK, dto.MessageResponse{Success: true})
	}
}

// fallbackHandler answers unmatched routes: JSON 404 under /api, otherwise
// the embedded file at that path or the shell document.
func fallbackHandler(static fs.FS) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") || static == nil {
			c.JSON(http.StatusNotFound, dto.Fail(MsgRouteNotFound))
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, dto.Fail(MsgRouteNotFound))
			return
		}

		name := strings.TrimPrefix(path, "/")
		if name != "" && name != "index.html" {
			if info, err := fs.Stat(static, name); err == nil && !info.IsDir() {
				c.FileFromFS(name, http.FS(static))
				return
			}
		}

		shell, err := fs.ReadFile(static, "index.html")
		if err != nil {
			respondError(c, apperrors.NewInternalError("read shell", err))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", shell)
	}
}
