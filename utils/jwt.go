package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims là claims phiên đăng nhập của nhân viên.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ReviewClaims là payload của review token dạng ký (định dạng cũ).
// Chỉ còn dùng để verify; code mới không phát hành loại này nữa.
type ReviewClaims struct {
	GuestID uint `json:"user_id"`
	HotelID uint `json:"hotel_id"`
	jwt.RegisteredClaims
}

// jwtSecret đọc JWT_SECRET tại thời điểm gọi. Không có fallback mặc định:
// thiếu secret là lỗi cấu hình, không được âm thầm dùng giá trị cứng.
func jwtSecret() ([]byte, error) {
	key := []byte(os.Getenv("JWT_SECRET"))
	if len(key) == 0 {
		return nil, errors.New("JWT_SECRET chưa được thiết lập")
	}
	return key, nil
}

// GenerateToken tạo JWT phiên 24h cho nhân viên
func GenerateToken(userID string, role string) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}

	claims := JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyToken xác minh và parse JWT phiên nhân viên
func VerifyToken(tokenStr string) (*JWTClaims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("token không hợp lệ")
}

// VerifyReviewClaims xác minh review token dạng ký (HS256, claims
// user_id/hotel_id). Hạn dùng nằm trong chữ ký, không tra DB.
func VerifyReviewClaims(tokenStr string) (*ReviewClaims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &ReviewClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("sai thuật toán ký")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ReviewClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("token không hợp lệ")
}
