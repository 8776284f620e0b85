package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ngcore/auth-api/docs"
	"github.com/ngcore/auth-api/internal/api/handler"
	"github.com/ngcore/auth-api/internal/api/middleware"
	"github.com/ngcore/auth-api/internal/core/domain"
	"github.com/ngcore/auth-api/internal/core/service"
	"github.com/ngcore/auth-api/internal/core/token"
	"github.com/ngcore/auth-api/internal/infrastructure/config"
	mongodb "github.com/ngcore/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ngcore/auth-api/internal/infrastructure/db/redis"
	"github.com/ngcore/auth-api/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and the
// background audit workers running. rdb may be nil; login throttling is
// disabled in that case.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth_api"))

	// --- Signing configuration (immutable for the process lifetime) ---
	tokenCfg := token.Config{
		Secret:   cfg.Token.Secret,
		Issuer:   cfg.Token.Issuer,
		Audience: cfg.Token.Audience,
		TTL:      time.Duration(cfg.Token.ExpireMinutes) * time.Minute,
	}
	issuer, err := token.NewIssuer(tokenCfg)
	if err != nil {
		return nil, err
	}
	verifier := token.NewVerifier(tokenCfg)

	// --- Dependencies ---
	userStore := mongodb.NewUserStore(db)

	auditRepo := mongodb.NewAuditRepository(db)
	audit := queue.NewAuditDispatcher(0, auditRepo, log)
	audit.Start(ctx)

	var limiter service.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewLoginLimiter(rdb, 0, 0)
	}

	accountService := service.NewAccountService(userStore, issuer, limiter, audit, log)
	accountHandler := handler.NewAccountHandler(accountService)

	productRepo := mongodb.NewProductRepository(db)
	productService := service.NewProductService(productRepo, log)
	productHandler := handler.NewProductHandler(productService)

	authenticated := middleware.Authenticate(verifier)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Account routes ---
	e.POST("/api/account/register", accountHandler.Register)
	e.POST("/api/account/login", accountHandler.Login)

	// --- Protected product catalog ---
	products := e.Group("/api/products", authenticated)
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, adminOnly)
	products.PUT("/:id", productHandler.Update, adminOnly)
	products.DELETE("/:id", productHandler.Delete, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
