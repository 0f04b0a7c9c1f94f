package models

import "time"

// Trạng thái token opaque.
const (
	TokenActive  = "active"
	TokenRevoked = "revoked"
)

// ReviewToken là bearer token ngắn (15–20 ký tự) cho phép khách đánh giá
// không cần đăng nhập. Token phát hành xong là bất biến, chỉ status được
// phép đổi (revoke). expires_at không bao giờ được gia hạn.
type ReviewToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"size:32;uniqueIndex;not null" json:"token"`
	GuestID   uint      `gorm:"not null;index" json:"guest_id"`
	HotelID   uint      `gorm:"not null;index" json:"hotel_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Status    string    `gorm:"size:20;not null;default:'active'" json:"status"` // active | revoked
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ReviewToken) TableName() string {
	return "review_tokens"
}
