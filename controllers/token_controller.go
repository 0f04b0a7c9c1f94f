package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/middleware"
	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/services"
)

type issueReviewTokenReq struct {
	SubjectID *uint `json:"subjectId" binding:"required"`
	TenantID  *uint `json:"tenantId" binding:"required"`
}

// IssueReviewToken phát hành token 7 ngày cho link mời đánh giá.
// Trả về đúng chuỗi token (client cũ parse body là một JSON string).
func IssueReviewToken(c *gin.Context) {
	var req issueReviewTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "subjectId and tenantId are required", "reason": "validation"})
		return
	}

	token, err := tokenService().IssueToken(*req.SubjectID, *req.TenantID, services.LifetimeGuestReview)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found or inactive", "reason": "tenant_not_found"})
			return
		}
		if errors.Is(err, services.ErrTokenConflict) {
			c.JSON(http.StatusConflict, gin.H{"message": "Could not allocate token", "reason": "conflict"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue token"})
		return
	}

	c.JSON(http.StatusOK, token)
}

type issueWidgetTokenReq struct {
	TenantID  *uint `json:"tenantId" binding:"required"`
	SubjectID *uint `json:"subjectId"`
}

// IssueWidgetToken phát hành token 365 ngày để nhúng widget đánh giá.
// Yêu cầu đăng nhập; hotel phải nằm trong scope của user.
func IssueWidgetToken(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.User)

	var req issueWidgetTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "tenantId is required", "reason": "validation"})
		return
	}

	scope, err := membershipResolver().ResolveScope(user)
	if err != nil || !scope.Allows(*req.TenantID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	// subjectId mặc định là chính user đang phát hành
	subjectID := user.ID
	if req.SubjectID != nil {
		subjectID = *req.SubjectID
	}

	var hotel models.Hotel
	if err := config.DB.Where("id = ? AND status = ?", *req.TenantID, models.StatusActive).First(&hotel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found or inactive", "reason": "tenant_not_found"})
		return
	}

	generatedAt := time.Now()
	token, err := tokenService().IssueToken(subjectID, *req.TenantID, services.LifetimeWidgetEmbed)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found or inactive", "reason": "tenant_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"tenantId":    *req.TenantID,
		"tenantName":  hotel.Name,
		"expiresIn":   "365d",
		"expiresAt":   generatedAt.Add(time.Duration(services.LifetimeWidgetEmbed)),
		"generatedAt": generatedAt,
	})
}

// GetTokenClaims: endpoint public cho form đánh giá và widget. Chỉ đọc.
func GetTokenClaims(c *gin.Context) {
	token := c.Param("token")

	guestID, hotelID, err := tokenService().ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"reason": tokenFailureReason(err), "message": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subjectId": guestID, "tenantId": hotelID})
}

// RevokeToken thu hồi token opaque. Chỉ nhân viên có quyền trên hotel của
// token mới thu hồi được. Token đã hết hạn vẫn thu hồi được (idempotent
// về mặt hiệu lực).
func RevokeToken(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.User)
	token := c.Param("token")

	row, err := services.NewGormTokenRepository(config.DB).FindByToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Token not found", "reason": "not_found"})
		return
	}

	scope, err := membershipResolver().ResolveScope(user)
	if err != nil || !scope.Allows(row.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	if _, err := tokenService().RevokeToken(token); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Token not found", "reason": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token revoked"})
}

// tokenFailureReason map lỗi token sang reason code máy đọc được
func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, services.ErrTokenExpired):
		return "expired"
	case errors.Is(err, services.ErrTokenRevoked):
		return "revoked"
	default:
		return "invalid"
	}
}
