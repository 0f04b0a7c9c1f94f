package models

// UserHotel là bảng phân quyền tenant: user chỉ thấy dữ liệu của các
// khách sạn mình được gán. super_admin không cần dòng nào ở đây.
type UserHotel struct {
	UserID  uint `gorm:"primaryKey" json:"user_id"`
	HotelID uint `gorm:"primaryKey" json:"hotel_id"`
}

func (UserHotel) TableName() string {
	return "user_hotels"
}
