package entities

import (
	"time"

	"github.com/google/uuid"
)

// Person is an entry in the contact directory. The analytical core only
// reads it for identity resolution; creation happens downstream when a
// detected speaker could not be matched.
type Person struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name            string     `json:"name" gorm:"type:varchar(255);not null;index"`
	Role            string     `json:"role,omitempty" gorm:"type:varchar(255)"`
	Notes           string     `json:"notes,omitempty" gorm:"type:text"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Person
func (Person) TableName() string {
	return "people"
}

// NewPerson creates a new Person entity
func NewPerson(name string) *Person {
	return &Person{
		ID:   uuid.New(),
		Name: name,
	}
}

// Touch records a fresh contact with this person.
func (p *Person) Touch() {
	now := time.Now().UTC()
	p.LastContactedAt = &now
}
