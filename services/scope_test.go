package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative2/guest-feedback-server/models"
)

type fakeMembershipStore struct {
	byUser map[uint][]uint
	err    error
}

func (f *fakeMembershipStore) HotelIDsByUser(userID uint) ([]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

func TestHotelScope_Allows(t *testing.T) {
	s := HotelScope{HotelIDs: []uint{1, 3}}
	assert.True(t, s.Allows(1))
	assert.True(t, s.Allows(3))
	assert.False(t, s.Allows(2))

	assert.True(t, HotelScope{Unrestricted: true}.Allows(999))
}

func TestHotelScope_Empty(t *testing.T) {
	assert.True(t, HotelScope{}.Empty())
	assert.False(t, HotelScope{HotelIDs: []uint{1}}.Empty())
	// super_admin không bao giờ là scope rỗng
	assert.False(t, HotelScope{Unrestricted: true}.Empty())
}

func TestResolveScope_SuperAdmin(t *testing.T) {
	store := &fakeMembershipStore{err: errors.New("không được gọi tới store")}
	r := NewMembershipResolver(store)

	scope, err := r.ResolveScope(models.User{ID: 1, Role: models.RoleSuperAdmin})
	require.NoError(t, err, "super_admin không cần tra user_hotels")
	assert.True(t, scope.Unrestricted)
}

func TestResolveScope_Staff(t *testing.T) {
	store := &fakeMembershipStore{byUser: map[uint][]uint{5: {2, 4}}}
	r := NewMembershipResolver(store)

	scope, err := r.ResolveScope(models.User{ID: 5, Role: models.RoleStaff})
	require.NoError(t, err)
	assert.False(t, scope.Unrestricted)
	assert.Equal(t, []uint{2, 4}, scope.HotelIDs)
}

func TestResolveScope_NoMemberships(t *testing.T) {
	store := &fakeMembershipStore{byUser: map[uint][]uint{}}
	r := NewMembershipResolver(store)

	scope, err := r.ResolveScope(models.User{ID: 5, Role: models.RoleManager})
	require.NoError(t, err)
	assert.True(t, scope.Empty())
	assert.False(t, scope.Allows(1))
}

func TestResolveScope_StoreError(t *testing.T) {
	store := &fakeMembershipStore{err: errors.New("connection refused")}
	r := NewMembershipResolver(store)

	_, err := r.ResolveScope(models.User{ID: 5, Role: models.RoleAdmin})
	assert.Error(t, err)
}
