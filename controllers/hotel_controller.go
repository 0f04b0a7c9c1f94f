package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/middleware"
	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/utils"
)

// ListHotels trả các khách sạn trong scope của user
func ListHotels(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}
	if scope.Empty() {
		c.JSON(http.StatusOK, []models.Hotel{})
		return
	}

	q := config.DB.Where("status = ?", models.StatusActive)
	if !scope.Unrestricted {
		q = q.Where("id IN ?", scope.HotelIDs)
	}

	var hotels []models.Hotel
	if err := q.Order("name ASC").Find(&hotels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, hotels)
}

// GetHotel trả chi tiết một khách sạn trong scope
func GetHotel(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid hotel ID", "reason": "validation"})
		return
	}
	if !scope.Allows(uint(id)) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	var hotel models.Hotel
	if err := config.DB.Where("id = ? AND status = ?", id, models.StatusActive).First(&hotel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found", "reason": "not_found"})
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// uploadLogo xử lý file logo trong form-data (nếu có), trả URL public
func uploadLogo(c *gin.Context) (*string, error) {
	fh, err := c.FormFile("logo")
	if err != nil {
		return nil, nil // không gửi logo
	}
	url, err := utils.UploadToSupabase(fh, fh.Filename, uuid.NewString(), "hotel_logos", "")
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// CreateHotel: chỉ super_admin. Nhận multipart form để kèm logo.
func CreateHotel(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Hotel name is required", "reason": "validation"})
		return
	}

	logoPath, err := uploadLogo(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload logo"})
		return
	}

	hotel := models.Hotel{
		Name:     name,
		Address:  c.PostForm("address"),
		Phone:    c.PostForm("phone"),
		Email:    c.PostForm("email"),
		LogoPath: logoPath,
		Status:   models.StatusActive,
	}
	if err := config.DB.Create(&hotel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, hotel)
}

// UpdateHotel: chỉ super_admin. Field không gửi thì giữ nguyên.
func UpdateHotel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid hotel ID", "reason": "validation"})
		return
	}

	var hotel models.Hotel
	if err := config.DB.Where("id = ? AND status = ?", id, models.StatusActive).First(&hotel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found", "reason": "not_found"})
		return
	}

	if v := c.PostForm("name"); v != "" {
		hotel.Name = v
	}
	if v := c.PostForm("address"); v != "" {
		hotel.Address = v
	}
	if v := c.PostForm("phone"); v != "" {
		hotel.Phone = v
	}
	if v := c.PostForm("email"); v != "" {
		hotel.Email = v
	}

	logoPath, err := uploadLogo(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload logo"})
		return
	}
	if logoPath != nil {
		hotel.LogoPath = logoPath
	}

	if err := config.DB.Save(&hotel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// DeleteHotel: soft delete, chỉ super_admin
func DeleteHotel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid hotel ID", "reason": "validation"})
		return
	}

	var hotel models.Hotel
	if err := config.DB.Where("id = ? AND status = ?", id, models.StatusActive).First(&hotel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found", "reason": "not_found"})
		return
	}

	if err := config.DB.Model(&hotel).Update("status", models.StatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hotel deleted"})
}
