package models

import "time"

// Vai trò nhân viên. super_admin thấy mọi khách sạn, các role còn lại
// bị giới hạn theo bảng user_hotels.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleStaff      = "staff"
)

// Trạng thái chung cho các bảng soft-delete: 1 = active, 9 = deleted.
const (
	StatusActive  = 1
	StatusDeleted = 9
)

func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:100;unique;not null" json:"username"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // ẩn khi trả JSON
	FullName  string    `gorm:"size:100" json:"full_name"`
	Role      string    `gorm:"size:20;not null;default:'staff'" json:"role"`
	Status    int       `gorm:"not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Hotels []Hotel `gorm:"many2many:user_hotels" json:"hotels,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
