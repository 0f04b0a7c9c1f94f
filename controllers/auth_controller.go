package controllers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/middleware"
	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/utils"
)

type loginReq struct {
	Username string `json:"username" binding:"required"` // username hoặc email
	Password string `json:"password" binding:"required"`
}

// Login đăng nhập bằng username hoặc email + mật khẩu
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required", "reason": "validation"})
		return
	}

	var user models.User
	err := config.DB.Preload("Hotels", "status = ?", models.StatusActive).
		Where("(username = ? OR email = ?) AND status = ?", req.Username, req.Username, models.StatusActive).
		First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

type googleLoginReq struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLogin: nhân viên đăng nhập bằng Google. Chỉ chấp nhận email đã có
// tài khoản sẵn trong hệ thống, không tự tạo user mới.
func GoogleLogin(c *gin.Context) {
	var req googleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id_token is required", "reason": "validation"})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Google token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Google token"})
		return
	}

	var user models.User
	err = config.DB.Preload("Hotels", "status = ?", models.StatusActive).
		Where("email = ? AND status = ?", email, models.StatusActive).
		First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No account for this Google email"})
		return
	}

	token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me trả thông tin user hiện tại kèm các hotel được gán
func Me(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.User)

	if err := config.DB.Preload("Hotels", "status = ?", models.StatusActive).
		First(&user, user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout: JWT stateless nên server không giữ session; client tự xoá token
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
