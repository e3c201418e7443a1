package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"newsdesk/internal/config"
	apphttp "newsdesk/internal/http"
	"newsdesk/internal/news"
	"newsdesk/internal/repository"
	"newsdesk/internal/repository/redis"
	"newsdesk/internal/repository/sqlite"
	"newsdesk/internal/service"
	"newsdesk/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Auth.SecretKey == config.DefaultSecretKey {
		logger.Warn("using the default secret key; set NEWSDESK_AUTH_SECRETKEY in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if cfg.Database.Reset {
		logger.Warn("resetting database schema")
		err = sqlite.Reset(ctx, db)
	} else {
		err = sqlite.Migrate(ctx, db)
	}
	if err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	sessionRepo, closeSessions, err := buildSessionStore(ctx, cfg, db, logger)
	if err != nil {
		logger.Fatalf("setup session store: %v", err)
	}
	defer closeSessions()

	userService := service.NewUserService(sqlite.NewUserRepository(db))
	articleService := service.NewArticleService(sqlite.NewArticleRepository(db))
	sessionService, err := service.NewSessionService(sessionRepo, service.SessionConfig{
		Secret:      cfg.Auth.SecretKey,
		TTL:         cfg.Session.TTL,
		RememberTTL: cfg.Session.RememberTTL,
	})
	if err != nil {
		logger.Fatalf("setup sessions: %v", err)
	}
	if n, err := sessionService.PurgeExpired(ctx); err != nil {
		logger.Warnf("purge expired sessions: %v", err)
	} else if n > 0 {
		logger.WithField("count", n).Info("expired sessions removed")
	}

	if cfg.Seed.Enabled {
		created, err := userService.EnsureSeedUser(ctx, cfg.Seed.Username, cfg.Seed.Email, cfg.Seed.Password)
		if err != nil {
			logger.Fatalf("seed user: %v", err)
		}
		if created {
			logger.WithField("username", cfg.Seed.Username).Info("seed user created")
		}
	}

	fetcher := news.NewClient(news.Config{
		BaseURL: cfg.News.BaseURL,
		APIKey:  cfg.News.APIKey,
		Logger:  logger,
	})

	var images apphttp.ImageSaver
	if cfg.Storage.Bucket != "" {
		storageSvc, err := buildStorage(ctx, cfg, logger)
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		images = storage.NewImageStore(storageSvc, cfg.Storage.KeyPrefix, logger)
	} else {
		logger.Info("storage bucket not configured, image uploads disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Config{
		Users:        userService,
		Articles:     articleService,
		Sessions:     sessionService,
		News:         fetcher,
		Images:       images,
		Logger:       logger,
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.SecureCookie,
		RememberTTL:  cfg.Session.RememberTTL,
		Country:      cfg.News.Country,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// buildSessionStore keeps sessions in redis when an address is configured
// and in the application database otherwise.
func buildSessionStore(ctx context.Context, cfg config.Config, db *sql.DB, logger *logrus.Logger) (repository.SessionRepository, func(), error) {
	if cfg.Session.RedisAddr == "" {
		return sqlite.NewSessionRepository(db), func() {}, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Session.RedisAddr,
		Password: cfg.Session.RedisPassword,
		DB:       cfg.Session.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Infof("using redis session store at %s", cfg.Session.RedisAddr)
	return redis.NewSessionRepository(rdb), func() { _ = rdb.Close() }, nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, storage.UploadOptions{
		Bucket:        cfg.Storage.Bucket,
		KeyPrefix:     cfg.Storage.KeyPrefix,
		Region:        cfg.Storage.Region,
		Endpoint:      cfg.Storage.Endpoint,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}), nil
}
