package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/utils"
)

// Quản lý tài khoản nhân viên. Toàn bộ nhóm route này nằm sau
// RequireSuperAdmin.

// ListUsers trả danh sách user active kèm các hotel được gán
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Preload("Hotels", "status = ?", models.StatusActive).
		Where("status = ?", models.StatusActive).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser trả chi tiết một user
func GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID", "reason": "validation"})
		return
	}

	var user models.User
	if err := config.DB.Preload("Hotels", "status = ?", models.StatusActive).
		Where("id = ? AND status = ?", id, models.StatusActive).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found", "reason": "not_found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type createUserReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Role     string `json:"role" binding:"required"`
	HotelIDs []uint `json:"hotel_ids"`
}

// CreateUser tạo tài khoản mới và gán các hotel cho tài khoản đó
func CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user payload", "reason": "validation"})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role", "reason": "validation"})
		return
	}

	var dup int64
	config.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Username or email already exists", "reason": "conflict"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		FullName: req.FullName,
		Role:     req.Role,
		Status:   models.StatusActive,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		for _, hid := range req.HotelIDs {
			if err := tx.Create(&models.UserHotel{UserID: user.ID, HotelID: hid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type updateUserReq struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	HotelIDs *[]uint `json:"hotel_ids"`
}

// UpdateUser cập nhật thông tin user. hotel_ids (nếu gửi) thay thế toàn bộ
// các gán hotel cũ.
func UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID", "reason": "validation"})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ? AND status = ?", id, models.StatusActive).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found", "reason": "not_found"})
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user payload", "reason": "validation"})
		return
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role", "reason": "validation"})
			return
		}
		user.Role = req.Role
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 8 characters", "reason": "validation"})
			return
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
			return
		}
		user.Password = hash
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if req.HotelIDs != nil {
			// xoá hết rồi gán lại
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserHotel{}).Error; err != nil {
				return err
			}
			for _, hid := range *req.HotelIDs {
				if err := tx.Create(&models.UserHotel{UserID: user.ID, HotelID: hid}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// DeleteUser: soft delete, giữ lịch sử
func DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID", "reason": "validation"})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ? AND status = ?", id, models.StatusActive).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found", "reason": "not_found"})
		return
	}

	if err := config.DB.Model(&user).Update("status", models.StatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
