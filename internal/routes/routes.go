package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/netts-ev/netts-backend/internal/auth"
	"github.com/netts-ev/netts-backend/internal/booking"
	"github.com/netts-ev/netts-backend/internal/config"
	"github.com/netts-ev/netts-backend/internal/dealership"
	"github.com/netts-ev/netts-backend/internal/identity"
	"github.com/netts-ev/netts-backend/internal/middleware"
	"github.com/netts-ev/netts-backend/internal/notification"
	"github.com/netts-ev/netts-backend/internal/oauth"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// The issuer fails closed here when the signing secret is absent,
	// before any route that signs tokens is registered.
	tokens, err := auth.NewIssuer(d.Cfg.JWTSecret)
	if err != nil {
		return err
	}

	var userRepo identity.Repository
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
	}

	var bookingRepo booking.Repository
	if d.DB != nil {
		bookingRepo = booking.NewPostgresRepository(d.DB)
	} else {
		bookingRepo = booking.NewMemoryRepository(userRepo)
	}

	var dealershipRepo dealership.Repository
	if d.DB != nil {
		dealershipRepo = dealership.NewPostgresRepository(d.DB)
	} else {
		dealershipRepo = dealership.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)

	identitySvc := identity.NewService(userRepo, tokens, d.Cfg.PlaceholderEmailDomain)
	identityHandler := identity.NewHandler(identitySvc, notifier)

	bridge := oauth.NewBridge(d.Cfg)
	if !d.Cfg.GoogleConfigured() {
		d.Logger.Warn("google oauth credentials missing, /api/auth/google endpoints will reject requests")
	}
	oauthHandler := oauth.NewHandler(bridge, identitySvc, d.Cfg.FrontendURL, d.Cfg.SessionSecret, d.Logger)

	bookingSvc := booking.NewService(bookingRepo)
	bookingHandler := booking.NewHandler(bookingSvc, notifier)

	dealershipHandler := dealership.NewHandler(dealershipRepo)

	jwtmw := middleware.JWTAuth(tokens, userRepo)

	api := app.Group("/api")
	RegisterAuthRoutes(api, identityHandler, oauthHandler, jwtmw)
	RegisterBookingRoutes(api, bookingHandler, jwtmw)
	RegisterAdminRoutes(app, userRepo, bookingRepo)
	RegisterDealershipRoutes(app, dealershipHandler)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
