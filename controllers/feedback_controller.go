package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/middleware"
	"github.com/creative2/guest-feedback-server/models"
)

type submitFeedbackReq struct {
	Token    string `json:"token" binding:"required"`
	Rating   *int   `json:"rating" binding:"required"`
	Comment  string `json:"comment" binding:"required"`
	Nickname string `json:"nickname"`
}

// SubmitFeedback: endpoint public cho khách gửi đánh giá qua link trong
// mail. Token quyết định guest/hotel, client không tự khai.
func SubmitFeedback(c *gin.Context) {
	var req submitFeedbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token, rating and comment are required", "reason": "validation"})
		return
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be between 1 and 5", "reason": "validation"})
		return
	}

	guestID, _, err := tokenService().ValidateToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"reason": tokenFailureReason(err), "message": "Invalid token"})
		return
	}

	var guest models.Guest
	if err := config.DB.Where("id = ? AND status = ?", guestID, models.StatusActive).First(&guest).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"reason": "invalid", "message": "Invalid token"})
		return
	}

	fb := models.Feedback{
		Rating:   *req.Rating,
		Comment:  req.Comment,
		Nickname: req.Nickname,
		GuestID:  guest.ID,
		Status:   models.StatusActive,
	}
	if err := config.DB.Create(&fb).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted successfully", "id": fb.ID})
}

// ListFeedback: danh sách đánh giá cho staff, lọc theo scope, phân trang.
// GET /api/feedback?page=&limit=&hotelId=&rating=
func ListFeedback(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}
	if scope.Empty() {
		c.JSON(http.StatusOK, gin.H{"data": []any{}, "totalRecords": 0, "totalPages": 0, "currentPage": 1})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	base := config.DB.Table("feedbacks f").
		Joins("JOIN guests g ON g.id = f.guest_id").
		Where("f.status = ?", models.StatusActive)
	if !scope.Unrestricted {
		base = base.Where("g.hotel_id IN ?", scope.HotelIDs)
	}
	if v := c.Query("hotelId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || !scope.Allows(uint(id)) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
			return
		}
		base = base.Where("g.hotel_id = ?", id)
	}
	if v := c.Query("rating"); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			base = base.Where("f.rating = ?", r)
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	type feedbackRow struct {
		models.Feedback
		GuestName string `json:"guest_name"`
		HotelID   uint   `json:"hotel_id"`
		HotelName string `json:"hotel_name"`
	}
	var rows []feedbackRow
	err := base.
		Select("f.*, g.name AS guest_name, g.hotel_id, h.name AS hotel_name").
		Joins("JOIN hotels h ON h.id = g.hotel_id").
		Order("f.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":         rows,
		"totalRecords": total,
		"totalPages":   (total + int64(limit) - 1) / int64(limit),
		"currentPage":  page,
	})
}

// GetGuestFeedback trả các đánh giá của một khách (staff, theo scope)
func GetGuestFeedback(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	guestID, err := strconv.ParseUint(c.Param("guestId"), 10, 64)
	if err != nil || guestID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest ID", "reason": "validation"})
		return
	}

	var guest models.Guest
	if err := config.DB.Where("id = ? AND status = ?", guestID, models.StatusActive).First(&guest).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found", "reason": "not_found"})
		return
	}
	if !scope.Allows(guest.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	var rows []models.Feedback
	if err := config.DB.Where("guest_id = ? AND status = ?", guestID, models.StatusActive).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// WidgetFeedback: endpoint public cho widget nhúng, xác thực bằng widget
// token. Chỉ trả các field hiển thị được, không lộ email khách.
// GET /api/feedback/widget?token=...&limit=10
func WidgetFeedback(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token is required", "reason": "validation"})
		return
	}

	_, hotelID, err := tokenService().ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"reason": tokenFailureReason(err), "message": "Invalid token"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	type widgetRow struct {
		Rating    int     `json:"rating"`
		Comment   string  `json:"comment"`
		Nickname  string  `json:"nickname"`
		Reply     *string `json:"reply"`
		CreatedAt string  `json:"created_at"`
	}
	var rows []widgetRow
	err = config.DB.Table("feedbacks f").
		Select("f.rating, f.comment, f.nickname, f.reply, f.created_at").
		Joins("JOIN guests g ON g.id = f.guest_id").
		Where("g.hotel_id = ? AND f.status = ?", hotelID, models.StatusActive).
		Order("f.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotelId": hotelID, "data": rows})
}

// scopedFeedback load một feedback và kiểm tra quyền qua hotel của guest
func scopedFeedback(c *gin.Context) (*models.Feedback, bool) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return nil, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid feedback ID", "reason": "validation"})
		return nil, false
	}

	var fb models.Feedback
	if err := config.DB.Preload("Guest").
		Where("id = ? AND status = ?", id, models.StatusActive).First(&fb).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Feedback not found", "reason": "not_found"})
		return nil, false
	}
	if fb.Guest == nil || !scope.Allows(fb.Guest.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return nil, false
	}
	return &fb, true
}

type replyReq struct {
	Reply string `json:"reply" binding:"required"`
}

// ReplyFeedback: nhân viên trả lời một đánh giá
func ReplyFeedback(c *gin.Context) {
	fb, ok := scopedFeedback(c)
	if !ok {
		return
	}

	var req replyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Reply is required", "reason": "validation"})
		return
	}

	if err := config.DB.Model(fb).Update("reply", req.Reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply saved"})
}

type stateReq struct {
	State *int `json:"state" binding:"required"`
}

// SetFeedbackState đổi trạng thái xử lý (0 = mới, 1 = đã xem, 2 = đã xử lý)
func SetFeedbackState(c *gin.Context) {
	fb, ok := scopedFeedback(c)
	if !ok {
		return
	}

	var req stateReq
	if err := c.ShouldBindJSON(&req); err != nil || *req.State < 0 || *req.State > 2 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "State must be 0, 1 or 2", "reason": "validation"})
		return
	}

	if err := config.DB.Model(fb).Update("state", *req.State).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "State updated"})
}

// DeleteFeedback: soft delete
func DeleteFeedback(c *gin.Context) {
	fb, ok := scopedFeedback(c)
	if !ok {
		return
	}

	if err := config.DB.Model(fb).Update("status", models.StatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
}
