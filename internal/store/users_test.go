package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguachat/internal/model"
	"linguachat/pkg/errors"
)

func newTestUserStore(t *testing.T) *UserStore {
	t.Helper()
	s, err := NewUserStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestUserStoreCreateAndGet(t *testing.T) {
	s := newTestUserStore(t)

	u := model.NewUser("maria", "maria@example.com", "hash", "Spanish", "English")
	require.NoError(t, s.Create(u))

	got, err := s.Get(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria", got.Username)
	assert.Equal(t, "maria@example.com", got.Email)
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	s := newTestUserStore(t)

	first := model.NewUser("maria", "maria@example.com", "hash", "Spanish", "English")
	require.NoError(t, s.Create(first))

	second := model.NewUser("other", "maria@example.com", "hash", "French", "English")
	err := s.Create(second)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestUserStoreFindByEmail(t *testing.T) {
	s := newTestUserStore(t)

	u := model.NewUser("maria", "maria@example.com", "hash", "Spanish", "English")
	require.NoError(t, s.Create(u))

	got, err := s.FindByEmail("maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.FindByEmail("nobody@example.com")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestUserStoreUpdate(t *testing.T) {
	s := newTestUserStore(t)

	u := model.NewUser("maria", "maria@example.com", "hash", "Spanish", "English")
	require.NoError(t, s.Create(u))

	u.LearningLanguage = "German"
	u.Personalization["currentLocation"] = "Berlin"
	require.NoError(t, s.Update(u))

	got, err := s.Get(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "German", got.LearningLanguage)
	assert.Equal(t, "Berlin", got.Personalization["currentLocation"])
}

func TestUserStoreUpdateMissingUser(t *testing.T) {
	s := newTestUserStore(t)

	u := model.NewUser("ghost", "ghost@example.com", "hash", "Spanish", "English")
	err := s.Update(u)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestUserStoreDelete(t *testing.T) {
	s := newTestUserStore(t)

	u := model.NewUser("maria", "maria@example.com", "hash", "Spanish", "English")
	require.NoError(t, s.Create(u))
	require.NoError(t, s.Delete(u.ID))

	_, err := s.Get(u.ID)
	assert.Error(t, err)
}
