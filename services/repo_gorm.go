package services

import (
	"time"

	"github.com/creative2/guest-feedback-server/models"
	"gorm.io/gorm"
)

// Bản gorm của các repository. Server thật dùng các struct này với
// config.DB; test dùng fake in-memory thay vào cùng interface.

type GormTokenRepository struct {
	db *gorm.DB
}

func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

func (r *GormTokenRepository) FindByToken(token string) (*models.ReviewToken, error) {
	var t models.ReviewToken
	if err := r.db.Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTokenRepository) Create(t *models.ReviewToken) error {
	return r.db.Create(t).Error
}

func (r *GormTokenRepository) UpdateStatus(token string, status string) error {
	return r.db.Model(&models.ReviewToken{}).
		Where("token = ?", token).
		Update("status", status).Error
}

func (r *GormTokenRepository) HotelActive(hotelID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Hotel{}).
		Where("id = ? AND status = ?", hotelID, models.StatusActive).
		Count(&count).Error
	return count > 0, err
}

type GormMembershipStore struct {
	db *gorm.DB
}

func NewGormMembershipStore(db *gorm.DB) *GormMembershipStore {
	return &GormMembershipStore{db: db}
}

func (s *GormMembershipStore) HotelIDsByUser(userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := s.db.Model(&models.UserHotel{}).
		Where("user_id = ?", userID).
		Pluck("hotel_id", &ids).Error
	return ids, err
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) SmtpProfileByHotel(hotelID uint) (*models.SmtpProfile, error) {
	var p models.SmtpProfile
	if err := r.db.Where("hotel_id = ?", hotelID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormNotificationRepository) LatestTemplate(hotelID uint) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	err := r.db.Where("hotel_id = ? AND active = ?", hotelID, true).
		Order("id DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormNotificationRepository) CreateLog(l *models.EmailLog) error {
	return r.db.Create(l).Error
}

// MarkLogSent / MarkLogFailed có guard status = pending trong WHERE:
// dòng đã terminal không bao giờ bị ghi đè.

func (r *GormNotificationRepository) MarkLogSent(id uint, at time.Time) error {
	return r.db.Model(&models.EmailLog{}).
		Where("id = ? AND status = ?", id, models.EmailPending).
		Updates(map[string]interface{}{"status": models.EmailSent, "sent_at": at}).Error
}

func (r *GormNotificationRepository) MarkLogFailed(id uint, excerpt string) error {
	return r.db.Model(&models.EmailLog{}).
		Where("id = ? AND status = ?", id, models.EmailPending).
		Updates(map[string]interface{}{"status": models.EmailFailed, "error_message": excerpt}).Error
}
