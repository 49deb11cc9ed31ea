package router

import (
	"context"
	"time"

	"bistro/internal/config"
	"bistro/internal/handler"
	"bistro/internal/infra"
	"bistro/internal/middleware"
	"bistro/internal/repository"
	"bistro/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps are the process-wide clients the router wires into services.
// Mongo and Redis may be nil in tests; a nil Redis disables the menu cache.
type Deps struct {
	Users    repository.UserRepository
	Menu     repository.MenuRepository
	Reviews  repository.ReviewRepository
	Carts    repository.CartRepository
	Payments repository.PaymentRepository

	Processor infra.PaymentProcessor
	Receipts  service.ReceiptQueue

	Mongo        *mongo.Client
	Redis        *redis.Client
	BreakerState func() string
}

// MongoDeps builds the repository set over one database.
func MongoDeps(db *mongo.Database) Deps {
	return Deps{
		Users:    repository.NewUserRepository(db),
		Menu:     repository.NewMenuRepository(db),
		Reviews:  repository.NewReviewRepository(db),
		Carts:    repository.NewCartRepository(db),
		Payments: repository.NewPaymentRepository(db),
		Mongo:    db.Client(),
	}
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← Mongo/Redis.
// ctx bounds background goroutines such as the rate limiter purge.
func New(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimiter(ctx, cfg.RateLimit, time.Minute))
	}

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	userSvc := service.NewUserService(deps.Users)
	menuSvc := service.NewMenuService(deps.Menu, deps.Redis, cfg.MenuCacheTTL)
	reviewSvc := service.NewReviewService(deps.Reviews)
	cartSvc := service.NewCartService(deps.Carts)
	paymentSvc := service.NewPaymentService(deps.Payments, deps.Carts, deps.Processor, deps.Receipts)
	statsSvc := service.NewStatsService(deps.Users, deps.Menu, deps.Payments)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(userSvc)
	menuH := handler.NewMenuHandler(menuSvc)
	reviewsH := handler.NewReviewsHandler(reviewSvc)
	cartsH := handler.NewCartsHandler(cartSvc)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)
	statsH := handler.NewStatsHandler(statsSvc)

	// ── Guards ───────────────────────────────────────────────────────────────
	verifyToken := middleware.JWTAuth(cfg.AccessTokenSecret)
	verifyAdmin := middleware.RequireAdmin(userSvc)
	admin := []gin.HandlerFunc{verifyToken, verifyAdmin}

	// owned guards routes acting on the caller's own carts and payments.
	// LEGACY_OPEN_ROUTES mounts them open, and ownership checks are skipped.
	owned := []gin.HandlerFunc{verifyToken}
	menuUpdate := admin
	if cfg.LegacyOpenRoutes {
		owned = nil
		menuUpdate = nil
	}

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/", handler.Root)
	r.GET("/health", handler.Health(deps.Mongo, deps.Redis, deps.BreakerState))
	r.POST("/jwt", middleware.TokenRateLimiter(ctx), authH.IssueToken)

	users := r.Group("/users")
	{
		users.GET("/admin/:email", verifyToken, usersH.AdminStatus)
		users.GET("", chain(admin, usersH.List)...)
		users.POST("", usersH.Register)
		users.PATCH("/admin/:id", chain(admin, usersH.Promote)...)
		users.DELETE("/:id", chain(admin, usersH.Delete)...)
	}

	menu := r.Group("/menu")
	{
		menu.GET("", menuH.List)
		menu.GET("/:id", menuH.Get)
		menu.POST("", chain(admin, menuH.Create)...)
		menu.PATCH("/:id", chain(menuUpdate, menuH.Update)...)
		menu.DELETE("/:id", chain(admin, menuH.Delete)...)
	}

	r.GET("/reviews", reviewsH.List)

	carts := r.Group("/carts")
	{
		carts.GET("", chain(owned, cartsH.List)...)
		carts.POST("", chain(owned, cartsH.Add)...)
		carts.DELETE("/:id", chain(owned, cartsH.Remove)...)
	}

	r.GET("/payments/:email", verifyToken, paymentsH.History)
	r.POST("/payments", chain(owned, paymentsH.Record)...)
	r.POST("/create-payment-intent", chain(owned, paymentsH.CreateIntent)...)

	r.GET("/admin-stats", chain(admin, statsH.AdminStats)...)
	r.GET("/order-stats", chain(admin, statsH.OrderStats)...)

	// Swagger UI is only served outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// chain returns guards followed by h in a fresh slice.
func chain(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}
