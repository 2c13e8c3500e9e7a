package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/config"
	"github.com/Guyuepp/community-engagement/internal/repository/memory"
	mysqlRepo "github.com/Guyuepp/community-engagement/internal/repository/mysql"
	"github.com/Guyuepp/community-engagement/internal/repository/mysql/model"
	redisRepo "github.com/Guyuepp/community-engagement/internal/repository/redis"
	"github.com/Guyuepp/community-engagement/internal/rest"
	"github.com/Guyuepp/community-engagement/internal/rest/middleware"
	"github.com/Guyuepp/community-engagement/internal/usecase/comment"
	"github.com/Guyuepp/community-engagement/internal/usecase/follow"
	"github.com/Guyuepp/community-engagement/internal/usecase/like"
	"github.com/Guyuepp/community-engagement/internal/usecase/ranking"
)

const (
	dbRetryInterval = 2 * time.Second
	janitorInterval = time.Minute
	shutdownTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// prepare database
	db, err := openDB(cfg.Database)
	if err != nil {
		logrus.Fatalf("could not connect to database after retries: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()

	if err := db.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.Activity{},
		&model.Resource{},
		&model.Comment{},
		&model.Like{},
		&model.Follow{},
	); err != nil {
		logrus.Fatalf("failed to migrate schema: %v", err)
	}

	// prepare cache
	var cache domain.Cache
	if cfg.Cache.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr(),
			Password: cfg.Cache.Pass,
			DB:       cfg.Cache.DB,
		})
		defer func() {
			if err := client.Close(); err != nil {
				logrus.Errorf("got error when closing the cache connection: %v", err)
			}
		}()
		if err := client.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("failed to open connection to cache: %v", err)
		}
		cache = redisRepo.NewCache(client)
	} else {
		logrus.Warn("CACHE_HOST is empty, using the in-memory cache")
		mem := memory.NewCache()
		go mem.RunJanitor(ctx, janitorInterval)
		cache = mem
	}

	// Prepare Repository
	likeRepo := mysqlRepo.NewLikeRepository(db)
	followRepo := mysqlRepo.NewFollowRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)
	topicRepo := mysqlRepo.NewTopicRepository(db)

	// Build service Layer
	handlers := rest.Handlers{
		Like:    rest.NewLikeHandler(like.NewService(likeRepo, cache)),
		Follow:  rest.NewFollowHandler(follow.NewService(followRepo)),
		Comment: rest.NewCommentHandler(comment.NewService(commentRepo, cache)),
		Ranking: rest.NewRankingHandler(ranking.NewService(topicRepo)),
	}

	// prepare gin
	if cfg.LogLevel != "debug" && cfg.LogLevel != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	route := gin.New()
	route.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(),
		middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateBurst),
		middleware.SetRequestContextWithTimeout(cfg.ContextTimeout),
		middleware.Principal(),
	)
	rest.RegisterRoutes(route, handlers)

	// Start Server
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
	logrus.Info("Server exiting")
}

func setupLogger(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// openDB connects and pings, retrying while the database starts up.
func openDB(cfg config.Database) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var err error
	for i := 0; i < cfg.MaxRetry; i++ {
		var db *gorm.DB
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormCfg)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				return nil, dbErr
			}
			if err = sqlDB.Ping(); err == nil {
				return db, nil
			}
			_ = sqlDB.Close()
		}
		logrus.Warnf("failed to connect to database (attempt %d/%d): %v", i+1, cfg.MaxRetry, err)
		time.Sleep(dbRetryInterval)
	}
	return nil, err
}
