package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/utils"
	"gorm.io/gorm"
)

// TokenKind phân loại hai định dạng review token đang lưu hành.
type TokenKind int

const (
	// TokenOpaque: chuỗi ngẫu nhiên 15–20 ký tự, tra trong bảng review_tokens.
	TokenOpaque TokenKind = iota
	// TokenSigned: JWT HS256 định dạng cũ, chỉ còn verify, không phát hành mới.
	TokenSigned
)

// ClassifyToken chọn đường xử lý theo độ dài. Ngưỡng 10–20 kế thừa từ hệ
// thống cũ: một signed token ngắn hơn 21 ký tự sẽ bị phân nhầm sang nhánh
// opaque. Giữ nguyên hành vi; policy tách riêng ở đây để thay được khi cần.
func ClassifyToken(token string) TokenKind {
	if n := len(token); n >= 10 && n <= 20 {
		return TokenOpaque
	}
	return TokenSigned
}

// TokenLifetime là hạn dùng của token. Chỉ có hai preset, không nhận
// duration tùy ý.
type TokenLifetime time.Duration

const (
	// LifetimeGuestReview: link mời đánh giá gửi qua mail, 7 ngày.
	LifetimeGuestReview = TokenLifetime(7 * 24 * time.Hour)
	// LifetimeWidgetEmbed: token nhúng widget lên web khách sạn, 365 ngày.
	LifetimeWidgetEmbed = TokenLifetime(365 * 24 * time.Hour)
)

const (
	tokenAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength     = 15
	maxReadAttempts = 10 // số lần check-then-insert với độ dài chuẩn
	maxAttempts     = 15 // tổng số lần thử trước khi bỏ cuộc
)

// TokenRepository là cổng lưu trữ của TokenService. Bản gorm ở
// repo_gorm.go; test thay bằng fake in-memory.
type TokenRepository interface {
	// FindByToken trả gorm.ErrRecordNotFound nếu token chưa tồn tại.
	FindByToken(token string) (*models.ReviewToken, error)
	// Create trả gorm.ErrDuplicatedKey khi đụng unique index trên token.
	Create(t *models.ReviewToken) error
	UpdateStatus(token string, status string) error
	// HotelActive: hotel tồn tại và status = active.
	HotelActive(hotelID uint) (bool, error)
}

type TokenService struct {
	repo     TokenRepository
	classify func(string) TokenKind
}

func NewTokenService(repo TokenRepository) *TokenService {
	return &TokenService{repo: repo, classify: ClassifyToken}
}

// randomToken sinh chuỗi ngẫu nhiên từ bảng chữ cái alphanumeric.
func randomToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}

// IssueToken phát hành token opaque cho cặp (guest, hotel).
//
// Uniqueness: check-then-insert tối đa 10 lần với độ dài 15, sau đó nới
// lên 20 ký tự. Vòng check không atomic nên unique index của bảng mới là
// trọng tài cuối: lỗi trùng lúc insert chỉ khiến vòng lặp thử candidate
// mới, không nổi lên caller.
func (s *TokenService) IssueToken(guestID, hotelID uint, lifetime TokenLifetime) (string, error) {
	if lifetime != LifetimeGuestReview && lifetime != LifetimeWidgetEmbed {
		return "", fmt.Errorf("lifetime không được hỗ trợ: %v", time.Duration(lifetime))
	}

	active, err := s.repo.HotelActive(hotelID)
	if err != nil {
		return "", fmt.Errorf("kiểm tra hotel: %w", err)
	}
	if !active {
		return "", ErrTenantNotFound
	}

	expiresAt := time.Now().Add(time.Duration(lifetime))

	for attempt := 0; attempt < maxAttempts; attempt++ {
		length := tokenLength
		if attempt >= maxReadAttempts {
			length = tokenLength + 5
		}

		candidate, err := randomToken(length)
		if err != nil {
			return "", err
		}

		if _, err := s.repo.FindByToken(candidate); err == nil {
			continue // đã có, thử lại
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("kiểm tra token: %w", err)
		}

		row := &models.ReviewToken{
			Token:     candidate,
			GuestID:   guestID,
			HotelID:   hotelID,
			ExpiresAt: expiresAt,
			Status:    models.TokenActive,
		}
		if err := s.repo.Create(row); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue // hai request cùng thấy "chưa có"; nhường unique index
			}
			return "", fmt.Errorf("lưu token: %w", err)
		}
		return candidate, nil
	}

	return "", ErrTokenConflict
}

// ValidateToken xác minh token và trả về cặp định danh (guest, hotel).
// Chỉ đọc, không đổi trạng thái token.
func (s *TokenService) ValidateToken(token string) (guestID, hotelID uint, err error) {
	switch s.classify(token) {
	case TokenOpaque:
		row, err := s.repo.FindByToken(token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, 0, ErrTokenInvalid
			}
			return 0, 0, fmt.Errorf("tra token: %w", err)
		}
		if time.Now().After(row.ExpiresAt) {
			return 0, 0, ErrTokenExpired
		}
		if row.Status != models.TokenActive {
			return 0, 0, ErrTokenRevoked
		}
		return row.GuestID, row.HotelID, nil

	default: // TokenSigned
		claims, err := utils.VerifyReviewClaims(token)
		if err != nil {
			return 0, 0, ErrTokenInvalid
		}
		return claims.GuestID, claims.HotelID, nil
	}
}

// RevokeToken thu hồi một token opaque. Token signed không thu hồi được
// (chữ ký tự chứa hạn dùng) nên trả ErrTokenInvalid.
func (s *TokenService) RevokeToken(token string) (*models.ReviewToken, error) {
	if s.classify(token) != TokenOpaque {
		return nil, ErrTokenInvalid
	}
	row, err := s.repo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if err := s.repo.UpdateStatus(token, models.TokenRevoked); err != nil {
		return nil, err
	}
	row.Status = models.TokenRevoked
	return row, nil
}
