package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linkboard/linkboard-api/internal/api/handler"
	"github.com/linkboard/linkboard-api/internal/api/middleware"
	"github.com/linkboard/linkboard-api/internal/core/ports"
	"github.com/linkboard/linkboard-api/internal/core/service"
	mongodb "github.com/linkboard/linkboard-api/internal/infrastructure/db/mongo"
	redisdb "github.com/linkboard/linkboard-api/internal/infrastructure/db/redis"
	"github.com/linkboard/linkboard-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The auth mode in cfg decides which issuer/resolver pair is wired; the rest
// of the graph is identical across deployments.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("linkboard"))

	// --- Identity mechanism (exactly one per deployment) ---
	var issuer ports.IdentityIssuer
	var resolver ports.IdentityResolver
	source := middleware.SourceBearer
	if cfg.AuthMode == config.AuthModeCookie {
		store := redisdb.NewSessionStore(rdb, cfg.SessionTTL)
		issuer, resolver = store, store
		source = middleware.SourceCookie
	} else {
		jwtIssuer := service.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
		issuer, resolver = jwtIssuer, jwtIssuer
	}
	requireAuth := middleware.Auth(source, resolver)

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	articleRepo := mongodb.NewArticleRepository(db)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)

	authService := service.NewAuthService(userRepo, issuer, limiter, service.Policy{
		BcryptCost:      cfg.BcryptCost,
		MinUsernameLen:  cfg.MinUsernameLen,
		MinPasswordLen:  cfg.MinPasswordLen,
		IssueOnRegister: cfg.AuthMode == config.AuthModeCookie,
	}, log)
	articleService := service.NewArticleService(articleRepo, log)

	authHandler := handler.NewAuthHandler(authService, cfg.AuthMode == config.AuthModeCookie, cfg.SessionTTL)
	articleHandler := handler.NewArticleHandler(articleService)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout, requireAuth)
	e.GET("/me", authHandler.Me, requireAuth)

	// --- Article routes (listing is public, mutations are not) ---
	e.GET("/articles", articleHandler.List)
	e.POST("/articles", articleHandler.Create, requireAuth)
	e.DELETE("/articles/:id", articleHandler.Delete, requireAuth)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
