package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/config"
	"github.com/upb/secure-access-gateway/handlers"
	"github.com/upb/secure-access-gateway/internal/observability"
	"github.com/upb/secure-access-gateway/middleware"
	"github.com/upb/secure-access-gateway/models"
	"github.com/upb/secure-access-gateway/repositories"
	"github.com/upb/secure-access-gateway/repositories/memory"
	"github.com/upb/secure-access-gateway/repositories/postgres"
	"github.com/upb/secure-access-gateway/services"
	"github.com/upb/secure-access-gateway/tokens"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB // nil with the in-memory store
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Principal store
	Users repositories.UserRepository

	// Tokens
	Keys  tokens.KeyProvider
	Codec *tokens.Codec

	// Services
	Verifier    *services.StoreVerifier
	AuthService *services.AuthService

	// Middleware
	Authenticator *middleware.Authenticator
	AccessControl *middleware.AccessControl

	// Handlers
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	HealthHandler *handlers.HealthHandler
}

// Option customizes dependency construction
type Option func(*Dependencies)

// WithDatabase supplies an already opened database for the postgres store
func WithDatabase(db *postgres.DB) Option {
	return func(d *Dependencies) {
		d.DB = db
	}
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(deps)
	}

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewMetrics()
	}

	if err := deps.initStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize principal store: %w", err)
	}

	if err := deps.initTokens(cfg); err != nil {
		deps.closeDB()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	deps.initAuth(cfg)
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully",
		zap.String("store", cfg.Auth.Store),
		zap.Duration("token_ttl", cfg.Auth.TokenTTL))
	return deps, nil
}

// initStore opens the principal store and seeds the built-in administrator
func (d *Dependencies) initStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.Auth.Store {
	case config.StorePostgres:
		if d.DB == nil {
			db, err := postgres.NewDB(cfg.Database, d.Logger)
			if err != nil {
				return err
			}
			d.DB = db
		}
		if err := d.DB.InitSchema(ctx); err != nil {
			d.closeDB()
			return err
		}
		d.Users = postgres.NewUserRepository(d.DB, d.Logger)
	default:
		d.Users = memory.NewUserRepository()
	}

	if cfg.Auth.SeedAdmin {
		if err := services.EnsureUser(ctx, d.Users, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, models.RoleAdmin); err != nil {
			d.closeDB()
			return err
		}
		d.Logger.Info("administrator account ensured",
			zap.String("username", cfg.Auth.AdminUsername))
	}

	d.Logger.Info("principal store initialized", zap.String("store", cfg.Auth.Store))
	return nil
}

// initTokens loads the signing key and builds the codec
func (d *Dependencies) initTokens(cfg *config.Config) error {
	var (
		keys *tokens.StaticKeyProvider
		err  error
	)
	if cfg.Auth.JWTSecretFile != "" {
		keys, err = tokens.NewFileKeyProvider(cfg.Auth.JWTSecretFile)
	} else {
		keys, err = tokens.NewStaticKeyProvider([]byte(cfg.Auth.JWTSecret))
	}
	if err != nil {
		return err
	}

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret && cfg.Auth.JWTSecretFile == "" {
		d.Logger.Warn("using the built-in development signing secret")
	}

	d.Keys = keys
	d.Codec = tokens.NewCodec(keys, tokens.WithIssuer(cfg.Auth.Issuer))
	return nil
}

// initAuth wires the verifier, the authentication service and the middleware
func (d *Dependencies) initAuth(cfg *config.Config) {
	d.Verifier = services.NewStoreVerifier(d.Users, d.Logger)
	d.AuthService = services.NewAuthService(d.Verifier, d.Codec, d.Logger,
		services.WithTokenTTL(cfg.Auth.TokenTTL),
		services.WithMetrics(d.Metrics),
	)
	d.Authenticator = middleware.NewAuthenticator(d.Codec, d.Verifier, d.Logger, d.Metrics)
	d.AccessControl = middleware.NewAccessControl(d.Logger)
}

func (d *Dependencies) initHandlers() {
	var store repositories.HealthChecker
	if d.DB != nil {
		store = d.DB
	}

	d.AuthHandler = handlers.NewAuthHandler(d.AuthService, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(store, d.Logger)
}

func (d *Dependencies) closeDB() {
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Close database connection
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
