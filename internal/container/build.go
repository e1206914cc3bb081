package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-manager/config"
	"github.com/oksasatya/go-ddd-task-manager/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-task-manager/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-ddd-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-task-manager/pkg/helpers"
)

// Build connects the configured store and optional clients. The returned cleanup
// closes everything that was opened; it is safe to call after a partial failure.
// Redis, RabbitMQ and Elasticsearch are optional: a failed connection is logged
// and the feature that needs it is disabled.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, func(), error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		Hasher: helpers.NewBcryptHasher(cfg.BcryptCost),
	}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if err := c.openStore(ctx, &closers); err != nil {
		cleanup()
		return nil, func() {}, err
	}

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unavailable; rate limiting disabled")
			_ = rdb.Close()
		} else {
			c.Redis = rdb
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
		} else {
			c.RabbitPub = pub
			closers = append(closers, pub.Close)
		}
	}

	if cfg.SearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = helpers.PingES(ctx, es)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; task search disabled")
		} else {
			c.ES = es
		}
	}

	return c, cleanup, nil
}

func (c *Container) openStore(ctx context.Context, closers *[]func()) error {
	cfg := c.Config
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		*closers = append(*closers, pool.Close)
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.PGPool = pool
		c.Users = pginfra.NewUserRepository(pool)
		c.Tasks = pginfra.NewTaskRepository(pool)
	case config.StoreMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		*closers = append(*closers, func() { _ = client.Disconnect(context.Background()) })
		db := client.Database(cfg.MongoDatabase)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		c.Mongo = client
		c.Users = mongodb.NewUserRepository(db)
		c.Tasks = mongodb.NewTaskRepository(db)
	case config.StoreMemory:
		c.Logger.Warn("using in-memory store; data is lost on restart")
		c.Users = memory.NewUserRepository()
		c.Tasks = memory.NewTaskRepository()
	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	return nil
}
