// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	auditstore "github.com/dalemusser/safetyapp/internal/app/store/audit"
	notificationstore "github.com/dalemusser/safetyapp/internal/app/store/notifications"
	reviewstore "github.com/dalemusser/safetyapp/internal/app/store/reviews"
	settingsstore "github.com/dalemusser/safetyapp/internal/app/store/settings"
	"github.com/dalemusser/safetyapp/internal/app/system/indexes"
	"github.com/dalemusser/safetyapp/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and, when configured, the Redis
// client. Both are pinged so a bad address fails startup instead of the
// first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetAppName("safetyapp")
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Ping(), logger, "mongo ping")
	err = client.Ping(pingCtx, readpref.Primary())
	cancel()
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Runtime:       &Runtime{},
	}

	if appCfg.RedisAddr == "" {
		logger.Info("redis_addr not set; consent storage stays in memory")
		return deps, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPassword,
		DB:       appCfg.RedisDB,
	})
	pingCtx, cancel = timeouts.WithTimeout(ctx, timeouts.Ping(), logger, "redis ping")
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		_ = rdb.Close()
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
	deps.Redis = rdb
	return deps, nil
}

type indexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureSchema reconciles the seeded collections' indexes and creates the
// indexes each store relies on. Errors are aggregated so every problem
// shows up in one startup log.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "ensure schema")
	defer cancel()

	db := deps.MongoDatabase
	var problems []string

	if err := indexes.EnsureAll(ctx, db, logger); err != nil {
		problems = append(problems, err.Error())
	}

	stores := []struct {
		name string
		s    indexEnsurer
	}{
		{"audit_logs", auditstore.New(db)},
		{"settings", settingsstore.New(db)},
		{"notifications", notificationstore.New(db)},
		{"reviews", reviewstore.New(db)},
	}
	for _, st := range stores {
		if err := st.s.EnsureIndexes(ctx); err != nil {
			logger.Warn("ensure store indexes failed", zap.String("collection", st.name), zap.Error(err))
			problems = append(problems, st.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	logger.Info("schema ensured")
	return nil
}
