package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword băm mật khẩu nhân viên bằng bcrypt.
func HashPassword(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword so khớp mật khẩu với hash. Không có đường tắt nào khác:
// mật khẩu chưa băm trong DB là lỗi dữ liệu, không tự "sửa" khi login.
func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
