package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/services"
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

// newTenantRouter dựng router test: middleware giả inject user, rồi
// RequireHotelAccess, rồi handler trả hotel id lấy từ context.
func newTenantRouter(store *fakeMembershipStore, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := services.NewMembershipResolver(store)

	r := gin.New()
	r.GET("/tenants/:hotelId/thing",
		func(c *gin.Context) {
			if user != nil {
				c.Set(CtxUser, *user)
			}
			c.Next()
		},
		RequireHotelAccess(resolver, "hotelId"),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"hotelId": c.MustGet(CtxHotelID).(uint)})
		})
	return r
}

func TestRequireHotelAccess_Member(t *testing.T) {
	store := &fakeMembershipStore{byUser: map[uint][]uint{5: {1}}}
	r := newTenantRouter(store, &models.User{ID: 5, Role: models.RoleStaff})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tenants/1/thing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireHotelAccess_OtherTenant(t *testing.T) {
	store := &fakeMembershipStore{byUser: map[uint][]uint{5: {1}}}
	r := newTenantRouter(store, &models.User{ID: 5, Role: models.RoleStaff})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tenants/2/thing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireHotelAccess_SuperAdmin(t *testing.T) {
	store := &fakeMembershipStore{byUser: map[uint][]uint{}}
	r := newTenantRouter(store, &models.User{ID: 1, Role: models.RoleSuperAdmin})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tenants/42/thing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireHotelAccess_NoUser(t *testing.T) {
	store := &fakeMembershipStore{}
	r := newTenantRouter(store, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tenants/1/thing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireHotelAccess_BadHotelID(t *testing.T) {
	store := &fakeMembershipStore{byUser: map[uint][]uint{5: {1}}}
	r := newTenantRouter(store, &models.User{ID: 5, Role: models.RoleStaff})

	for _, path := range []string{"/tenants/abc/thing", "/tenants/0/thing"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestRequireHotelAccess_StoreErrorDenies(t *testing.T) {
	store := &fakeMembershipStore{err: errors.New("connection refused")}
	r := newTenantRouter(store, &models.User{ID: 5, Role: models.RoleStaff})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tenants/1/thing", nil)
	r.ServeHTTP(w, req)

	// fail-closed: lỗi hạ tầng cũng là Deny, không phải 500
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireHotelAccess_SameResponseForUnknownTenant(t *testing.T) {
	// 403 cho tenant ngoài scope phải giống hệt 403 cho tenant không tồn
	// tại, tránh bị dò danh sách tenant
	store := &fakeMembershipStore{byUser: map[uint][]uint{5: {1}}}
	r := newTenantRouter(store, &models.User{ID: 5, Role: models.RoleStaff})

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/tenants/2/thing", nil))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/tenants/999999/thing", nil))

	assert.Equal(t, w1.Code, w2.Code)
	assert.Equal(t, w1.Body.String(), w2.Body.String())
}

func TestResolveHotelScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &fakeMembershipStore{byUser: map[uint][]uint{5: {1, 3}}}
	resolver := services.NewMembershipResolver(store)

	r := gin.New()
	r.GET("/list",
		func(c *gin.Context) {
			c.Set(CtxUser, models.User{ID: 5, Role: models.RoleStaff})
			c.Next()
		},
		ResolveHotelScope(resolver),
		func(c *gin.Context) {
			scope, ok := ScopeFromContext(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"hotels": scope.HotelIDs})
		})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/list", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hotels":[1,3]}`, w.Body.String())
}

func TestScopeFromContext_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := ScopeFromContext(c)
	assert.False(t, ok)
}
