package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/services"
)

// Guard phân quyền tenant. Nguyên tắc fail-closed: thiếu hotel id, lỗi
// resolve membership, hay scope không chứa hotel đều là Deny — không có
// nhánh nào mặc định Allow. Response 403 giống hệt nhau dù hotel có tồn
// tại hay không, tránh dò tenant.

// RequireHotelAccess đọc hotel id từ path param, đối chiếu scope của user
// và inject hotel id vào context cho controller.
func RequireHotelAccess(resolver *services.MembershipResolver, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		user := v.(models.User)

		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Hotel ID required"})
			return
		}
		hotelID := uint(id)

		scope, err := resolver.ResolveScope(user)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
			return
		}
		if !scope.Allows(hotelID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
			return
		}

		c.Set(CtxHotelID, hotelID)
		c.Next()
	}
}

// ResolveHotelScope dành cho endpoint dạng danh sách: không chặn request,
// chỉ tính scope và đưa vào context. Controller PHẢI dùng scope này để
// filter query — guard không bao giờ trả dữ liệu chưa lọc.
func ResolveHotelScope(resolver *services.MembershipResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		user := v.(models.User)

		scope, err := resolver.ResolveScope(user)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
			return
		}

		c.Set(CtxHotelScope, scope)
		c.Next()
	}
}

// ScopeFromContext lấy scope đã resolve; ok = false nghĩa là middleware
// chưa chạy (lỗi lắp route) — caller phải coi như Deny.
func ScopeFromContext(c *gin.Context) (services.HotelScope, bool) {
	v, ok := c.Get(CtxHotelScope)
	if !ok {
		return services.HotelScope{}, false
	}
	scope, ok := v.(services.HotelScope)
	return scope, ok
}
