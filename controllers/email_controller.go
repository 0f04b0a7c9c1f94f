package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/middleware"
	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/services"
)

// GetSmtpProfile trả profile SMTP của hotel (không có password) hoặc null.
func GetSmtpProfile(c *gin.Context) {
	hotelID := c.MustGet(middleware.CtxHotelID).(uint)

	var p models.SmtpProfile
	if err := config.DB.Where("hotel_id = ?", hotelID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, p)
}

type putSmtpProfileReq struct {
	Host        string `json:"host" binding:"required"`
	Port        *int   `json:"port" binding:"required"`
	UseTLS      bool   `json:"useTls"`
	Username    string `json:"username" binding:"required"`
	Secret      string `json:"secret" binding:"required"`
	FromAddress string `json:"fromAddress" binding:"required"`
	FromName    string `json:"fromName" binding:"required"`
	Enabled     *bool  `json:"enabled"`
}

// PutSmtpProfile tạo hoặc cập nhật profile SMTP cho hotel.
func PutSmtpProfile(c *gin.Context) {
	hotelID := c.MustGet(middleware.CtxHotelID).(uint)

	var req putSmtpProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All SMTP fields are required", "reason": "validation"})
		return
	}

	var hotel models.Hotel
	if err := config.DB.Where("id = ? AND status = ?", hotelID, models.StatusActive).First(&hotel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found", "reason": "not_found"})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	var existing models.SmtpProfile
	err := config.DB.Where("hotel_id = ?", hotelID).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"host": req.Host, "port": *req.Port, "use_tls": req.UseTLS,
			"username": req.Username, "password": req.Secret,
			"from_email": req.FromAddress, "from_name": req.FromName,
			"enabled": enabled,
		}
		if err := config.DB.Model(&existing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "SMTP settings updated successfully"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		p := models.SmtpProfile{
			HotelID: hotelID, Host: req.Host, Port: *req.Port, UseTLS: req.UseTLS,
			Username: req.Username, Password: req.Secret,
			FromEmail: req.FromAddress, FromName: req.FromName, Enabled: enabled,
		}
		if err := config.DB.Create(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "SMTP settings created successfully"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
	}
}

// GetEmailTemplate trả template active mới nhất của hotel hoặc null.
func GetEmailTemplate(c *gin.Context) {
	hotelID := c.MustGet(middleware.CtxHotelID).(uint)

	tpl, err := services.NewGormNotificationRepository(config.DB).LatestTemplate(hotelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

type putTemplateReq struct {
	Subject  string `json:"subject" binding:"required"`
	HTMLBody string `json:"htmlBody" binding:"required"`
	TextBody string `json:"textBody"`
}

// PutEmailTemplate lưu template mới: deactivate các bản cũ rồi insert bản
// mới (bản active mới nhất thắng).
func PutEmailTemplate(c *gin.Context) {
	hotelID := c.MustGet(middleware.CtxHotelID).(uint)

	var req putTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Subject and HTML body are required", "reason": "validation"})
		return
	}

	var hotel models.Hotel
	if err := config.DB.Where("id = ? AND status = ?", hotelID, models.StatusActive).First(&hotel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found", "reason": "not_found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.EmailTemplate{}).
			Where("hotel_id = ?", hotelID).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(&models.EmailTemplate{
			HotelID:  hotelID,
			Subject:  req.Subject,
			BodyHTML: req.HTMLBody,
			BodyText: req.TextBody,
			Active:   true,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email template saved successfully"})
}

// NotifyGuest: phát hành review token cho khách rồi gửi mail mời đánh giá
// qua SMTP của hotel. Gửi đồng bộ; lỗi gửi vẫn trả emailLogId nếu có.
func NotifyGuest(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(models.User)

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

	scope, err := membershipResolver().ResolveScope(user)
	if err != nil || !scope.Allows(guest.HotelID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	var hotel models.Hotel
	if err := config.DB.Where("id = ? AND status = ?", guest.HotelID, models.StatusActive).First(&hotel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found", "reason": "not_found"})
		return
	}

	token, err := tokenService().IssueToken(guest.ID, guest.HotelID, services.LifetimeGuestReview)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Hotel not found or inactive", "reason": "tenant_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue token"})
		return
	}

	baseURL := frontendBaseURL()
	feedbackLink := fmt.Sprintf("%s/review?token=%s", baseURL, token)

	vars := map[string]string{
		"guest_name":     guest.Name,
		"hotel_name":     hotel.Name,
		"feedback_link":  feedbackLink,
		"hotel_address":  hotel.Address,
		"hotel_phone":    hotel.Phone,
		"hotel_email":    hotel.Email,
		"room_number":    guest.RoomNumber,
		"check_in_date":  guest.StartDate.Format("02/01/2006"),
		"check_out_date": guest.EndDate.Format("02/01/2006"),
		"base_url":       baseURL,
	}

	logRow, err := dispatcher().Dispatch(guest.HotelID, guest.ID, guest.Email, vars)
	if err != nil {
		resp := gin.H{"message": "Failed to send email"}
		var de *services.DispatchError
		if errors.As(err, &de) {
			resp["emailLogId"] = de.EmailLogID
			if errors.Is(err, services.ErrSmtpNotConfigured) {
				resp["message"] = "SMTP settings not configured for this hotel"
				resp["reason"] = "smtp_not_configured"
			} else {
				resp["reason"] = "transport_error"
			}
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully", "emailLogId": logRow.ID})
}

// EmailStatus trả trạng thái mail mới nhất theo từng guest, lọc theo scope
// của user. GET /notifications/status?subjectIds=1,2,3
func EmailStatus(c *gin.Context) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	raw := c.Query("subjectIds")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	ids := make([]uint, 0)
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err == nil && v > 0 {
			ids = append(ids, uint(v))
		}
	}
	if len(ids) == 0 || scope.Empty() {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	// dòng log mới nhất của mỗi guest
	latest := config.DB.Model(&models.EmailLog{}).
		Select("MAX(id)").
		Where("guest_id IN ?", ids).
		Group("guest_id")

	q := config.DB.Table("email_logs el").
		Select("el.guest_id, el.status, el.sent_at, el.error_message").
		Where("el.id IN (?)", latest)
	if !scope.Unrestricted {
		q = q.Joins("JOIN guests g ON g.id = el.guest_id").
			Where("g.hotel_id IN ?", scope.HotelIDs)
	}

	var rows []models.EmailLog
	if err := q.Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	out := gin.H{}
	for _, r := range rows {
		out[strconv.FormatUint(uint64(r.GuestID), 10)] = gin.H{
			"status":       r.Status,
			"sentAt":       r.SentAt,
			"errorExcerpt": r.ErrorMessage,
		}
	}
	c.JSON(http.StatusOK, out)
}

// ListEmailLogs: lịch sử gửi mail của một hotel, phân trang, kèm tên khách.
func ListEmailLogs(c *gin.Context) {
	hotelID := c.MustGet(middleware.CtxHotelID).(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	if err := config.DB.Model(&models.EmailLog{}).Where("hotel_id = ?", hotelID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	type logWithGuest struct {
		models.EmailLog
		GuestName  string `json:"guest_name"`
		GuestEmail string `json:"guest_email"`
	}
	var rows []logWithGuest
	err := config.DB.Table("email_logs el").
		Select("el.*, g.name AS guest_name, g.email AS guest_email").
		Joins("JOIN guests g ON g.id = el.guest_id").
		Where("el.hotel_id = ?", hotelID).
		Order("el.created_at DESC").
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
