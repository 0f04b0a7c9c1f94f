package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/middleware"
	"github.com/creative2/guest-feedback-server/models"
)

// ListGuests: danh sách khách lưu trú, lọc theo scope của user, phân trang.
// GET /api/guests?page=1&limit=20&hotelId=&search=
func ListGuests(c *gin.Context) {
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

	base := config.DB.Table("guests g").Where("g.status = ?", models.StatusActive)
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
	if kw := c.Query("search"); kw != "" {
		like := "%" + kw + "%"
		base = base.Where("g.name ILIKE ? OR g.email ILIKE ? OR g.phone ILIKE ?", like, like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	type guestRow struct {
		models.Guest
		HotelName string `json:"hotel_name"`
	}
	var rows []guestRow
	err := base.
		Select("g.*, h.name AS hotel_name").
		Joins("JOIN hotels h ON h.id = g.hotel_id").
		Order("g.created_at DESC").
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

// GetGuest trả một khách nếu thuộc scope của user
func GetGuest(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest ID", "reason": "validation"})
		return
	}

	var guest models.Guest
	if err := config.DB.Where("id = ? AND status = ?", id, models.StatusActive).First(&guest).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found", "reason": "not_found"})
		return
	}
	if !scope.Allows(guest.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, guest)
}

type guestReq struct {
	Name       string    `json:"name" binding:"required"`
	Phone      string    `json:"phone" binding:"required"`
	Email      string    `json:"email" binding:"required,email"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	RoomNumber string    `json:"room_number"`
	HotelID    uint      `json:"hotel_id" binding:"required"`
}

// AddGuest: thêm khách mới vào một hotel trong scope. Email/phone trùng
// trong cùng hotel bị từ chối.
func AddGuest(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	var req guestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest payload", "reason": "validation"})
		return
	}
	if !scope.Allows(req.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	var hotel models.Hotel
	if err := config.DB.Where("id = ? AND status = ?", req.HotelID, models.StatusActive).First(&hotel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found", "reason": "not_found"})
		return
	}

	var dup int64
	config.DB.Model(&models.Guest{}).
		Where("hotel_id = ? AND status = ? AND (email = ? OR phone = ?)",
			req.HotelID, models.StatusActive, req.Email, req.Phone).
		Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Guest with this email or phone already exists", "reason": "conflict"})
		return
	}

	guest := models.Guest{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		RoomNumber: req.RoomNumber,
		HotelID:    req.HotelID,
		Status:     models.StatusActive,
	}
	if err := config.DB.Create(&guest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, guest)
}

// UpdateGuest sửa thông tin khách. Không cho chuyển khách sang hotel ngoài
// scope.
func UpdateGuest(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest ID", "reason": "validation"})
		return
	}

	var guest models.Guest
	if err := config.DB.Where("id = ? AND status = ?", id, models.StatusActive).First(&guest).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found", "reason": "not_found"})
		return
	}
	if !scope.Allows(guest.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	var req guestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest payload", "reason": "validation"})
		return
	}
	if !scope.Allows(req.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	guest.Name = req.Name
	guest.Phone = req.Phone
	guest.Email = req.Email
	guest.StartDate = req.StartDate
	guest.EndDate = req.EndDate
	guest.RoomNumber = req.RoomNumber
	guest.HotelID = req.HotelID
	if err := config.DB.Save(&guest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, guest)
}

// DeleteGuest: soft delete (status = 9)
func DeleteGuest(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest ID", "reason": "validation"})
		return
	}

	var guest models.Guest
	if err := config.DB.Where("id = ? AND status = ?", id, models.StatusActive).First(&guest).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found", "reason": "not_found"})
		return
	}
	if !scope.Allows(guest.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	if err := config.DB.Model(&guest).Update("status", models.StatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Guest deleted"})
}
