// Package container holds the components built once at startup.
// main constructs a Container and hands it to the router; nothing here is global.
package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/oksasatya/go-ddd-task-manager/config"
	"github.com/oksasatya/go-ddd-task-manager/internal/application"
	repo "github.com/oksasatya/go-ddd-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-manager/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-task-manager/pkg/helpers"
)

// Container carries shared infrastructure. Optional clients are nil when not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager
	Hasher *helpers.BcryptHasher

	Users repo.UserRepository
	Tasks repo.TaskRepository

	PGPool    *pgxpool.Pool
	Mongo     *mongo.Client
	Redis     *redis.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher
}

// Publisher returns the welcome-email publisher, or a nil interface when RabbitMQ is absent.
func (c *Container) Publisher() application.EventPublisher {
	if c.RabbitPub == nil {
		return nil
	}
	return c.RabbitPub
}

// Indexer returns the task search index, or nil when search is disabled.
func (c *Container) Indexer() application.TaskIndexer {
	if c.ES == nil || !c.Config.SearchEnabled {
		return nil
	}
	return search.NewTaskIndex(c.ES, c.Config.ESTasksIndex)
}

// Limiter returns the Redis scripter for rate limiting, or nil when Redis is absent.
func (c *Container) Limiter() redis.Scripter {
	if c.Redis == nil {
		return nil
	}
	return c.Redis
}

// AuthService builds the auth service from the container's parts.
func (c *Container) AuthService() *application.AuthService {
	return application.NewAuthService(
		c.Users,
		c.Hasher,
		c.JWT,
		c.Publisher(),
		application.WelcomeMail{Enabled: c.Config.MailSendEnabled, AppName: c.Config.AppName},
		c.Logger,
	)
}

// TaskService builds the task service from the container's parts.
func (c *Container) TaskService() *application.TaskService {
	return application.NewTaskService(c.Tasks, c.Indexer(), c.Logger)
}
