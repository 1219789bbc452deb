package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/coderhuBypassion/BriefBank/internal/database"
	"github.com/coderhuBypassion/BriefBank/internal/middleware"
	"github.com/coderhuBypassion/BriefBank/internal/modules/processing/ai"
	pkgcron "github.com/coderhuBypassion/BriefBank/internal/pkg/cron"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/jwt"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/lock"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/logger"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/metrics"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/objectstore"
	pkgredis "github.com/coderhuBypassion/BriefBank/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	devJWTSecret = "briefbank-dev-secret"

	fallbackSummaryTimeout = 2 * time.Minute
	// Lock entries outlive the generation budget by this much.
	lockMargin = time.Minute
)

// App holds all application dependencies.
type App struct {
	cfg       *config.AppConfig
	router    *gin.Engine
	db        *gorm.DB
	rc        *pkgredis.Client
	logger    *zap.Logger
	metrics   *metrics.Metrics
	sched     *pkgcron.Scheduler
	verifier  *jwt.Verifier
	presigner *objectstore.Presigner
	locker    lock.Locker
	ai        ai.Summarizer
	started   time.Time
	cancel    context.CancelFunc
}

// New initializes the application: DB → Redis → collaborators → routes.
// db may be non-nil to reuse an open handle, mainly in tests.
func New(log *zap.Logger, cfg *config.AppConfig, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	log = logger.OrNop(log)
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{cfg: cfg, logger: log, metrics: metrics.New(), started: time.Now(), cancel: cancel}

	if err := a.connect(ctx, db); err != nil {
		cancel()
		return nil, err
	}
	if err := a.buildCollaborators(ctx); err != nil {
		a.Shutdown()
		return nil, err
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(a.metrics.Middleware())
	a.router = router
	a.registerRoutes()

	a.sched = pkgcron.New(log)
	registerJobs(a.sched, cfg, log)
	a.sched.Start(ctx)

	return a, nil
}

func (a *App) connect(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		var err error
		if db, err = database.Connect(a.cfg, true); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	a.db = db

	if a.cfg.Seed {
		if _, err := database.SeedDecks(ctx, db, a.logger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if a.cfg.Redis.Enable {
		rc, err := pkgredis.Connect(ctx, a.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		a.rc = rc
		_, lockTTL := summaryTimings(a.cfg)
		a.locker = lock.NewRedisLocker(rc.Raw(), pkgredis.Key("lock")+":", lockTTL, lockTTL)
	} else {
		a.logger.Warn("redis disabled, summary locks are process local and rate limiting is off")
		a.locker = lock.NewLocalLocker()
	}
	return nil
}

func (a *App) buildCollaborators(ctx context.Context) error {
	secret := a.cfg.Auth.JWTSecret
	if secret == "" && a.cfg.Auth.JWTPublicKeyFile == "" {
		a.logger.Warn("auth.jwt_secret is empty, using built-in development secret")
		secret = devJWTSecret
	}
	verifier, err := jwt.NewVerifier(secret, a.cfg.Auth.JWTPublicKeyFile, a.cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	a.verifier = verifier

	presigner, err := objectstore.NewPresigner(ctx, a.cfg.S3)
	if err != nil {
		return fmt.Errorf("s3: %w", err)
	}
	a.presigner = presigner

	provider, err := ai.NewProvider(a.cfg.AI, a.logger.Named("AI"))
	if err != nil {
		if !a.cfg.IsDev() {
			return fmt.Errorf("ai: %w", err)
		}
		a.logger.Warn("AI provider unavailable, summaries are disabled", zap.Error(err))
		a.ai = ai.Disabled(fmt.Errorf("ai provider not configured: %w", err))
		return nil
	}
	a.ai = provider
	return nil
}

// summaryTimings returns the extraction plus AI budget of one generation and
// a lock ttl that cannot expire before that budget runs out. Waiters get the
// same ttl so they outlast the holder.
func summaryTimings(cfg *config.AppConfig) (pipeline, lockTTL time.Duration) {
	pipeline = cfg.Extraction.Timeout + cfg.AI.Timeout
	if pipeline <= 0 {
		pipeline = fallbackSummaryTimeout
	}
	return pipeline, pipeline + lockMargin
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Idempotence"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		c.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		c.AllowOriginFunc = func(string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and closes connections.
func (a *App) Shutdown() {
	a.cancel()
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
}
