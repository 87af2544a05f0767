package domain

import "time"

// Entity represents a domain entity with identity.
//
// Identifiers are assigned by the persistence store on first save; an
// entity with ID 0 has not been persisted yet.
type Entity interface {
	ID() int64
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Equals(other Entity) bool
}

// BaseEntity provides common entity functionality.
type BaseEntity struct {
	id        int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBaseEntity creates an unsaved entity with current timestamps.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		createdAt: now,
		updatedAt: now,
	}
}

// RehydrateBaseEntity recreates an entity from persisted state.
func RehydrateBaseEntity(id int64, createdAt, updatedAt time.Time) BaseEntity {
	return BaseEntity{
		id:        id,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (e BaseEntity) ID() int64            { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }
func (e BaseEntity) UpdatedAt() time.Time { return e.updatedAt }

// IsPersisted reports whether the store has assigned an identifier.
func (e BaseEntity) IsPersisted() bool { return e.id != 0 }

// AssignID records the store-assigned identifier after the first insert.
func (e *BaseEntity) AssignID(id int64) { e.id = id }

// Touch updates the updatedAt timestamp.
func (e *BaseEntity) Touch() {
	e.updatedAt = time.Now().UTC()
}

// Equals checks if two entities have the same identity.
// Unsaved entities have no identity and never compare equal.
func (e BaseEntity) Equals(other Entity) bool {
	if other == nil || e.id == 0 {
		return false
	}
	return e.id == other.ID()
}
