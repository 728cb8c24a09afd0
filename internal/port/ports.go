// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/opsuite/bfa-go/internal/domain"
)

// ProfileStore persists the full profile state envelope after every
// mutation and restores it at startup. Implemented by the Badger adapter
// (or any other durable key-value layer). A Load with no stored state
// returns (nil, nil).
type ProfileStore interface {
	Save(ctx context.Context, env *domain.StateEnvelope) error
	Load(ctx context.Context) (*domain.StateEnvelope, error)
	Clear(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
