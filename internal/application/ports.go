package application

import (
	"context"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-manager/pkg/helpers"
)

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenIssuer signs bearer tokens and verifies them back into claims.
type TokenIssuer interface {
	Issue(subject, email string) (string, error)
	Verify(token string) (*helpers.Claims, error)
}

// EventPublisher enqueues a JSON message for asynchronous processing.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// TaskIndexer mirrors tasks into a search index scoped by owner.
type TaskIndexer interface {
	Index(ctx context.Context, t entity.Task) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, userID, query string, size int) ([]entity.Task, error)
}

var (
	_ PasswordHasher = (*helpers.BcryptHasher)(nil)
	_ TokenIssuer    = (*helpers.JWTManager)(nil)
	_ EventPublisher = (*helpers.RabbitPublisher)(nil)
)
