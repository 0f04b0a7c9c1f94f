package services

import (
	"errors"
	"fmt"
)

// Lỗi định danh của subsystem token & notification. Tầng HTTP map từng
// loại sang status + reason code cố định.
var (
	ErrTenantNotFound    = errors.New("hotel không tồn tại hoặc đã ngưng hoạt động")
	ErrTokenInvalid      = errors.New("token không hợp lệ")
	ErrTokenExpired      = errors.New("token đã hết hạn")
	ErrTokenRevoked      = errors.New("token đã bị thu hồi")
	ErrTokenConflict     = errors.New("không cấp được token duy nhất")
	ErrSmtpNotConfigured = errors.New("hotel chưa cấu hình SMTP")
)

// DispatchError bọc lỗi gửi mail kèm id của dòng email_logs để caller
// vẫn báo được emailLogId khi gửi thất bại.
type DispatchError struct {
	EmailLogID uint
	Err        error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch (email_log %d): %v", e.EmailLogID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
