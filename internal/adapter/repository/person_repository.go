package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/insightcrew/relata/internal/domain/entities"
	"github.com/insightcrew/relata/internal/domain/repositories"
)

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *gorm.DB) repositories.PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) Create(ctx context.Context, person *entities.Person) error {
	if err := r.db.WithContext(ctx).Create(person).Error; err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

func (r *personRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Person, error) {
	var person entities.Person
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to find person by id: %w", err)
	}
	return &person, nil
}

func (r *personRepository) FindByName(ctx context.Context, name string) (*entities.Person, error) {
	var person entities.Person
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to find person by name: %w", err)
	}
	return &person, nil
}

func (r *personRepository) ListAll(ctx context.Context) ([]*entities.Person, error) {
	var people []*entities.Person
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&people).Error; err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

func (r *personRepository) Update(ctx context.Context, person *entities.Person) error {
	if err := r.db.WithContext(ctx).Save(person).Error; err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return nil
}
