package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/insightcrew/relata/internal/domain/entities"
)

// PersonRepository is the contact directory the identity resolver matches
// against. The directory is small enough that resolution works over the
// full listing; there is no paging.
type PersonRepository interface {
	Create(ctx context.Context, person *entities.Person) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Person, error)
	FindByName(ctx context.Context, name string) (*entities.Person, error)
	ListAll(ctx context.Context) ([]*entities.Person, error)
	Update(ctx context.Context, person *entities.Person) error
}
