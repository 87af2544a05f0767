package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.Equal(t, int64(0), e.ID())
	assert.False(t, e.IsPersisted())
	assert.False(t, e.CreatedAt().IsZero())
	assert.Equal(t, e.CreatedAt(), e.UpdatedAt())
}

func TestBaseEntity_AssignID(t *testing.T) {
	e := NewBaseEntity()
	e.AssignID(42)

	assert.Equal(t, int64(42), e.ID())
	assert.True(t, e.IsPersisted())
}

func TestBaseEntity_Touch(t *testing.T) {
	e := RehydrateBaseEntity(1, time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(-time.Hour))
	before := e.UpdatedAt()

	e.Touch()

	assert.True(t, e.UpdatedAt().After(before))
	assert.Equal(t, int64(1), e.ID())
}

func TestBaseEntity_Equals(t *testing.T) {
	a := RehydrateBaseEntity(1, time.Now(), time.Now())
	b := RehydrateBaseEntity(1, time.Now(), time.Now())
	c := RehydrateBaseEntity(2, time.Now(), time.Now())

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))

	// Unsaved entities have no identity.
	u1 := NewBaseEntity()
	u2 := NewBaseEntity()
	assert.False(t, u1.Equals(u2))
}
