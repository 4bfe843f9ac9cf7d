package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dogdomain "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
)

func TestNewOwner(t *testing.T) {
	owner, err := NewOwner(" Ann ", "Lee", 30, "Oslo", " ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", owner.FirstName)
	assert.Equal(t, "ann@example.com", owner.Email)
	assert.True(t, owner.HasEmail("ANN@example.com"))

	_, err = NewOwner("Ann", "Lee", 0, "Oslo", "ann@example.com")
	assert.ErrorIs(t, err, ErrInvalidAge)
	_, err = NewOwner("Ann", "Lee", 30, " ", "ann@example.com")
	assert.ErrorIs(t, err, ErrEmptyCity)
}

func TestOwnerApplyKeepsEmail(t *testing.T) {
	owner, err := NewOwner("Ann", "Lee", 30, "Oslo", "ann@example.com")
	require.NoError(t, err)

	city := "Bergen"
	require.NoError(t, owner.Apply(Patch{City: &city}))
	assert.Equal(t, "Bergen", owner.City)
	assert.Equal(t, "Ann", owner.FirstName)
	assert.Equal(t, "ann@example.com", owner.Email)

	blank := ""
	assert.ErrorIs(t, owner.Apply(Patch{FirstName: &blank}), ErrEmptyFirstName)
}

func TestOwnerCloneCopiesDogs(t *testing.T) {
	owner := &Owner{ID: 1, Dogs: []*dogdomain.Dog{{ID: 2, Name: "Rex"}}}
	clone := owner.Clone()
	clone.Dogs[0].Name = "Max"
	assert.Equal(t, "Rex", owner.Dogs[0].Name)
}
