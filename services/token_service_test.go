package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/creative2/guest-feedback-server/models"
)

// fakeTokenRepo: bản in-memory của TokenRepository cho test
type fakeTokenRepo struct {
	rows         map[string]*models.ReviewToken
	activeHotels map[uint]bool

	// điều khiển kịch bản va chạm
	forceExists    int   // số lần FindByToken giả vờ "đã tồn tại"
	failCreateDup  int   // số lần Create trả ErrDuplicatedKey
	findErr        error // lỗi hạ tầng khi FindByToken
	createdLengths []int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		rows:         make(map[string]*models.ReviewToken),
		activeHotels: map[uint]bool{1: true},
	}
}

func (f *fakeTokenRepo) FindByToken(token string) (*models.ReviewToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.forceExists > 0 {
		f.forceExists--
		return &models.ReviewToken{Token: token}, nil
	}
	if row, ok := f.rows[token]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokenRepo) Create(t *models.ReviewToken) error {
	if f.failCreateDup > 0 {
		f.failCreateDup--
		return gorm.ErrDuplicatedKey
	}
	if _, ok := f.rows[t.Token]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.createdLengths = append(f.createdLengths, len(t.Token))
	f.rows[t.Token] = t
	return nil
}

func (f *fakeTokenRepo) UpdateStatus(token string, status string) error {
	row, ok := f.rows[token]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Status = status
	return nil
}

func (f *fakeTokenRepo) HotelActive(hotelID uint) (bool, error) {
	return f.activeHotels[hotelID], nil
}

func TestClassifyToken(t *testing.T) {
	assert.Equal(t, TokenSigned, ClassifyToken("abc123def"))          // 9 ký tự
	assert.Equal(t, TokenOpaque, ClassifyToken("abc123def0"))         // 10
	assert.Equal(t, TokenOpaque, ClassifyToken("abcde12345fghij"))    // 15
	assert.Equal(t, TokenOpaque, ClassifyToken("abcde12345fghij6789")) // 19
	assert.Equal(t, TokenOpaque, ClassifyToken("abcde12345fghij67890")) // 20
	assert.Equal(t, TokenSigned, ClassifyToken("abcde12345fghij678901")) // 21
	assert.Equal(t, TokenSigned, ClassifyToken(""))
}

func TestIssueToken_Format(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := NewTokenService(repo)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := svc.IssueToken(7, 1, LifetimeGuestReview)
		require.NoError(t, err)
		assert.Len(t, token, 15)
		for _, ch := range token {
			assert.Contains(t, tokenAlphabet, string(ch))
		}
		assert.False(t, seen[token], "token trùng: %s", token)
		seen[token] = true
	}
}

func TestIssueToken_RecordFields(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := NewTokenService(repo)

	before := time.Now()
	token, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	require.NoError(t, err)

	row := repo.rows[token]
	require.NotNil(t, row)
	assert.Equal(t, uint(7), row.GuestID)
	assert.Equal(t, uint(1), row.HotelID)
	assert.Equal(t, models.TokenActive, row.Status)

	want := before.Add(7 * 24 * time.Hour)
	assert.WithinDuration(t, want, row.ExpiresAt, 5*time.Second)
}

func TestIssueToken_WidgetLifetime(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := NewTokenService(repo)

	before := time.Now()
	token, err := svc.IssueToken(7, 1, LifetimeWidgetEmbed)
	require.NoError(t, err)

	want := before.Add(365 * 24 * time.Hour)
	assert.WithinDuration(t, want, repo.rows[token].ExpiresAt, 5*time.Second)
}

func TestIssueToken_RejectsArbitraryLifetime(t *testing.T) {
	svc := NewTokenService(newFakeTokenRepo())

	_, err := svc.IssueToken(7, 1, TokenLifetime(30*24*time.Hour))
	assert.Error(t, err)
}

func TestIssueToken_InactiveHotel(t *testing.T) {
	repo := newFakeTokenRepo()
	repo.activeHotels = map[uint]bool{}
	svc := NewTokenService(repo)

	_, err := svc.IssueToken(7, 99, LifetimeGuestReview)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestIssueToken_RetriesOnExistingToken(t *testing.T) {
	repo := newFakeTokenRepo()
	repo.forceExists = 3 // 3 lần đầu tra thấy "đã có"
	svc := NewTokenService(repo)

	token, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	require.NoError(t, err)
	assert.Len(t, token, 15)
	assert.Equal(t, 0, repo.forceExists, "phải thử lại đủ số lần")
}

func TestIssueToken_RetriesOnDuplicateInsert(t *testing.T) {
	repo := newFakeTokenRepo()
	repo.failCreateDup = 1 // insert đầu đụng unique index
	svc := NewTokenService(repo)

	token, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	require.NoError(t, err)
	assert.Contains(t, repo.rows, token)
}

func TestIssueToken_FallsBackToLongerToken(t *testing.T) {
	repo := newFakeTokenRepo()
	repo.forceExists = 10 // hết 10 lần check với độ dài 15
	svc := NewTokenService(repo)

	token, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	require.NoError(t, err)
	assert.Len(t, token, 20)
}

func TestIssueToken_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := newFakeTokenRepo()
	repo.forceExists = 1000 // không bao giờ tìm được chỗ trống
	svc := NewTokenService(repo)

	_, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	assert.ErrorIs(t, err, ErrTokenConflict)
}

func TestValidateToken_Opaque(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := NewTokenService(repo)

	token, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	require.NoError(t, err)

	guestID, hotelID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), guestID)
	assert.Equal(t, uint(1), hotelID)
}

func TestValidateToken_Unknown(t *testing.T) {
	svc := NewTokenService(newFakeTokenRepo())

	_, _, err := svc.ValidateToken("khongtontai12345")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateToken_Expired(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := NewTokenService(repo)

	repo.rows["hethanroi1234567"] = &models.ReviewToken{
		Token:     "hethanroi1234567",
		GuestID:   7,
		HotelID:   1,
		ExpiresAt: time.Now().Add(-time.Second),
		Status:    models.TokenActive,
	}

	_, _, err := svc.ValidateToken("hethanroi1234567")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_ExpiredBeatsRevoked(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := NewTokenService(repo)

	// vừa hết hạn vừa bị revoke: báo expired
	repo.rows["cahai12345678901"] = &models.ReviewToken{
		Token:     "cahai12345678901",
		ExpiresAt: time.Now().Add(-time.Minute),
		Status:    models.TokenRevoked,
	}

	_, _, err := svc.ValidateToken("cahai12345678901")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_Revoked(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := NewTokenService(repo)

	token, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	require.NoError(t, err)
	_, err = svc.RevokeToken(token)
	require.NoError(t, err)

	_, _, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestValidateToken_SignedLegacy(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwt.MapClaims{
		"user_id":  float64(42),
		"hotel_id": float64(3),
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.Greater(t, len(signed), 20, "JWT phải rơi vào nhánh signed")

	svc := NewTokenService(newFakeTokenRepo())
	guestID, hotelID, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), guestID)
	assert.Equal(t, uint(3), hotelID)
}

func TestValidateToken_SignedGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewTokenService(newFakeTokenRepo())

	// ngắn hơn 10 ký tự -> nhánh signed -> không parse được
	_, _, err := svc.ValidateToken("ab12")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateToken_SignedExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwt.MapClaims{
		"user_id":  float64(42),
		"hotel_id": float64(3),
		"exp":      time.Now().Add(-time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	svc := NewTokenService(newFakeTokenRepo())
	_, _, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevokeToken(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := NewTokenService(repo)

	token, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	require.NoError(t, err)

	row, err := svc.RevokeToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.TokenRevoked, row.Status)
	assert.Equal(t, models.TokenRevoked, repo.rows[token].Status)
}

func TestRevokeToken_SignedNotSupported(t *testing.T) {
	svc := NewTokenService(newFakeTokenRepo())

	// token ngoài khoảng 10-20 ký tự không nằm trong bảng, không revoke được
	_, err := svc.RevokeToken("day-la-mot-chuoi-rat-dai-hon-20-ky-tu")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevokeToken_Unknown(t *testing.T) {
	svc := NewTokenService(newFakeTokenRepo())

	_, err := svc.RevokeToken("khongtontai12345")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssueToken_InfraErrorSurfaces(t *testing.T) {
	repo := newFakeTokenRepo()
	repo.findErr = errors.New("connection refused")
	svc := NewTokenService(repo)

	_, err := svc.IssueToken(7, 1, LifetimeGuestReview)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenConflict)
}
