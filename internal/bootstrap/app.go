package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resume-builder/internal/admin"
	"resume-builder/internal/ai"
	"resume-builder/internal/ai/gemini"
	"resume-builder/internal/ai/openai"
	"resume-builder/internal/aiusage"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/export"
	"resume-builder/internal/extract"
	"resume-builder/internal/generate"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/cache"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/ratelimit"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/users"
)

// cacheCooldown is how long the AI cache stays bypassed after a backend error.
const cacheCooldown = 30 * time.Second

// App holds the wired application.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client

	ResumesService *resumes.Service
	UsersService   *users.Service
	UsageService   *aiusage.Service
	Pipeline       *ai.Pipeline
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisClient := buildRedis(cfg)

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  redisClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	return app, nil
}

// Close releases pooled resources.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildRedis(cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func buildAIClient(cfg config.Config) (ai.Client, error) {
	switch cfg.AIProvider {
	case "gemini":
		return gemini.NewClient(context.Background(), os.Getenv("GEMINI_API_KEY"), cfg.AIModel)
	case "openai":
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.AIModel)
	case "", "none":
		log.Printf("bootstrap: AI_PROVIDER unset; generation endpoints will fail over to fallbacks")
		return unconfiguredClient{}, nil
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}
}

func buildServices(app *App) error {
	cfg := app.Config

	var resumesRepo resumes.Repo
	var usersRepo users.Repo
	var usageSvc *aiusage.Service
	if app.DB != nil {
		resumesRepo = &resumes.PGRepo{DB: app.DB}
		usersRepo = &users.PGRepo{DB: app.DB}
		usageSvc = aiusage.NewPostgresService(aiusage.NewPGStore(app.DB))
	} else {
		resumesRepo = resumes.NewMemoryRepo()
		usersRepo = users.NewMemoryRepo()
		usageSvc = aiusage.NewService()
	}

	resumesSvc := resumes.NewService(resumesRepo)
	usersSvc := users.NewService(usersRepo)

	aiClient, err := buildAIClient(cfg)
	if err != nil {
		return err
	}

	var cacheStore cache.Store
	if cfg.CacheEnabled && app.Redis != nil {
		cacheStore = cache.NewCooldownStore(cache.NewRedisStore(app.Redis), cacheCooldown, nil)
	} else if cfg.CacheEnabled {
		cacheStore = cache.NewMemoryStore(nil)
	}

	pipeline := ai.NewPipeline(aiClient, cacheStore, usageSvc)
	pipeline.CacheTTL = cfg.CacheTTL
	pipeline.MaxAttempts = cfg.AIMaxRetries
	pipeline.BaseDelay = cfg.AIRetryBaseWait

	var aiLimiter ratelimit.Limiter
	if app.Redis != nil {
		aiLimiter = ratelimit.NewRedisLimiter(app.Redis, cfg.AIRateLimit, cfg.AIRateWindow)
	} else {
		aiLimiter = ratelimit.NewMemoryLimiter(cfg.AIRateLimit, cfg.AIRateWindow, nil)
	}

	googleAuth := googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		usersSvc,
	)
	webhooks := &googleauth.WebhookHandler{
		SigningSecret: cfg.WebhookSigningSecret,
		Users:         usersSvc,
	}

	app.ResumesService = resumesSvc
	app.UsersService = usersSvc
	app.UsageService = usageSvc
	app.Pipeline = pipeline

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		ResumesHandler:  &resumes.Handler{Service: resumesSvc},
		GenerateHandler: &generate.Handler{Pipeline: pipeline},
		ExportHandler:   &export.Handler{Resumes: resumesSvc},
		ImportHandler:   &extract.Handler{Resumes: resumesSvc},
		UsersHandler:    users.NewHandler(usersSvc),
		AdminHandler:    &admin.Handler{Usage: usageSvc, Users: usersSvc},
		GoogleAuth:      googleAuth,
		Webhooks:        webhooks,
		AILimiter:       aiLimiter,
	})

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// unconfiguredClient makes every request take the provider-failure path so
// fallbacks keep the product usable without credentials.
type unconfiguredClient struct{}

func (unconfiguredClient) Generate(ctx context.Context, prompt string, cfg ai.GenerateConfig) (string, error) {
	return "", &ai.ProviderError{StatusCode: 503, Message: "ai provider not configured"}
}
