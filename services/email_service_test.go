package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/creative2/guest-feedback-server/models"
)

// fakeNotifRepo ghi nhớ log và chuỗi chuyển trạng thái
type fakeNotifRepo struct {
	profile  *models.SmtpProfile
	template *models.EmailTemplate

	logs        []*models.EmailLog
	transitions []string
	markErr     error
}

func (f *fakeNotifRepo) SmtpProfileByHotel(hotelID uint) (*models.SmtpProfile, error) {
	if f.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.profile, nil
}

func (f *fakeNotifRepo) LatestTemplate(hotelID uint) (*models.EmailTemplate, error) {
	if f.template == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.template, nil
}

func (f *fakeNotifRepo) CreateLog(l *models.EmailLog) error {
	l.ID = uint(len(f.logs) + 1)
	f.logs = append(f.logs, l)
	f.transitions = append(f.transitions, "pending")
	return nil
}

func (f *fakeNotifRepo) MarkLogSent(id uint, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.transitions = append(f.transitions, "sent")
	return nil
}

func (f *fakeNotifRepo) MarkLogFailed(id uint, excerpt string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.transitions = append(f.transitions, "failed:"+excerpt)
	return nil
}

// fakeMailer đếm các lần gọi và cho phép ép lỗi từng bước
type fakeMailer struct {
	verifyErr error
	sendErr   error

	verifyCalls int
	sendCalls   int
	lastMail    *OutgoingMail
}

func (m *fakeMailer) Verify(p *models.SmtpProfile) error {
	m.verifyCalls++
	return m.verifyErr
}

func (m *fakeMailer) Send(p *models.SmtpProfile, mail *OutgoingMail) error {
	m.sendCalls++
	m.lastMail = mail
	return m.sendErr
}

func enabledProfile() *models.SmtpProfile {
	return &models.SmtpProfile{
		HotelID:   1,
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer",
		Password:  "secret",
		FromEmail: "noreply@example.com",
		FromName:  "Grand Hotel",
		Enabled:   true,
	}
}

func TestRenderTemplate(t *testing.T) {
	out := RenderTemplate("Hi {{name}}, link: {{link}}", map[string]string{"name": "Ann"})
	assert.Equal(t, "Hi Ann, link: {{link}}", out)
}

func TestRenderTemplate_Whitespace(t *testing.T) {
	out := RenderTemplate("Hi {{ name }} and {{name}}", map[string]string{"name": "Ann"})
	assert.Equal(t, "Hi Ann and Ann", out)
}

func TestRenderTemplate_ValueWithBraces(t *testing.T) {
	// giá trị chứa {{...}} phải được chèn nguyên văn, không render tiếp
	out := RenderTemplate("X: {{a}}", map[string]string{"a": "{{b}}", "b": "nope"})
	assert.Contains(t, out, "{{b}}")
}

func TestDispatch_Success(t *testing.T) {
	repo := &fakeNotifRepo{profile: enabledProfile()}
	mailer := &fakeMailer{}
	d := NewDispatcher(repo, mailer)

	vars := map[string]string{"guest_name": "Ann", "hotel_name": "Grand Hotel", "feedback_link": "http://x/review?token=abc"}
	row, err := d.Dispatch(1, 7, "ann@example.com", vars)
	require.NoError(t, err)

	assert.Equal(t, models.EmailSent, row.Status)
	require.NotNil(t, row.SentAt)
	assert.Equal(t, 1, mailer.verifyCalls)
	assert.Equal(t, 1, mailer.sendCalls)
	assert.Equal(t, []string{"pending", "sent"}, repo.transitions)
}

func TestDispatch_DefaultTemplate(t *testing.T) {
	repo := &fakeNotifRepo{profile: enabledProfile()}
	mailer := &fakeMailer{}
	d := NewDispatcher(repo, mailer)

	vars := map[string]string{
		"guest_name":    "Ann",
		"hotel_name":    "Grand Hotel",
		"feedback_link": "http://x/review?token=abc",
	}
	_, err := d.Dispatch(1, 7, "ann@example.com", vars)
	require.NoError(t, err)

	require.NotNil(t, mailer.lastMail)
	assert.Contains(t, mailer.lastMail.BodyHTML, "Dear Ann")
	assert.Contains(t, mailer.lastMail.BodyHTML, "Grand Hotel")
	assert.Contains(t, mailer.lastMail.BodyHTML, "http://x/review?token=abc")
	assert.NotContains(t, mailer.lastMail.BodyHTML, "{{guest_name}}")
}

func TestDispatch_CustomTemplate(t *testing.T) {
	repo := &fakeNotifRepo{
		profile: enabledProfile(),
		template: &models.EmailTemplate{
			Subject:  "Review for {{hotel_name}}",
			BodyHTML: "<p>Hello {{guest_name}}</p>",
		},
	}
	mailer := &fakeMailer{}
	d := NewDispatcher(repo, mailer)

	row, err := d.Dispatch(1, 7, "ann@example.com",
		map[string]string{"guest_name": "Ann", "hotel_name": "Grand Hotel"})
	require.NoError(t, err)

	assert.Equal(t, "Review for Grand Hotel", row.Subject)
	assert.Equal(t, "<p>Hello Ann</p>", mailer.lastMail.BodyHTML)
	assert.Empty(t, mailer.lastMail.BodyText)
}

func TestDispatch_NoProfile(t *testing.T) {
	repo := &fakeNotifRepo{}
	mailer := &fakeMailer{}
	d := NewDispatcher(repo, mailer)

	row, err := d.Dispatch(1, 7, "ann@example.com", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSmtpNotConfigured)

	// vẫn phải có dòng log để caller trả emailLogId
	require.NotNil(t, row)
	assert.Equal(t, models.EmailFailed, row.Status)

	var de *DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, row.ID, de.EmailLogID)

	assert.Zero(t, mailer.verifyCalls)
	assert.Zero(t, mailer.sendCalls)
}

func TestDispatch_DisabledProfile(t *testing.T) {
	p := enabledProfile()
	p.Enabled = false
	repo := &fakeNotifRepo{profile: p}
	mailer := &fakeMailer{}
	d := NewDispatcher(repo, mailer)

	_, err := d.Dispatch(1, 7, "ann@example.com", nil)
	assert.ErrorIs(t, err, ErrSmtpNotConfigured)
	assert.Zero(t, mailer.sendCalls)
}

func TestDispatch_VerifyFails(t *testing.T) {
	repo := &fakeNotifRepo{profile: enabledProfile()}
	mailer := &fakeMailer{verifyErr: errors.New("dial tcp: connection refused")}
	d := NewDispatcher(repo, mailer)

	row, err := d.Dispatch(1, 7, "ann@example.com", nil)
	require.Error(t, err)

	assert.Equal(t, models.EmailFailed, row.Status)
	assert.Zero(t, mailer.sendCalls, "verify fail thì không được gửi")
	require.Len(t, repo.transitions, 2)
	assert.Equal(t, "pending", repo.transitions[0])
	assert.Contains(t, repo.transitions[1], "failed:dial tcp")
}

func TestDispatch_SendFails(t *testing.T) {
	repo := &fakeNotifRepo{profile: enabledProfile()}
	mailer := &fakeMailer{sendErr: errors.New("550 mailbox unavailable")}
	d := NewDispatcher(repo, mailer)

	row, err := d.Dispatch(1, 7, "ann@example.com", nil)
	require.Error(t, err)

	assert.Equal(t, models.EmailFailed, row.Status)
	require.NotNil(t, row.ErrorMessage)
	assert.Contains(t, *row.ErrorMessage, "550")

	var de *DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, row.ID, de.EmailLogID)
}

func TestDispatch_ErrorExcerptTruncated(t *testing.T) {
	repo := &fakeNotifRepo{profile: enabledProfile()}
	long := strings.Repeat("x", 2000)
	mailer := &fakeMailer{sendErr: errors.New(long)}
	d := NewDispatcher(repo, mailer)

	row, err := d.Dispatch(1, 7, "ann@example.com", nil)
	require.Error(t, err)

	require.NotNil(t, row.ErrorMessage)
	assert.Len(t, *row.ErrorMessage, 500)
}

func TestDispatch_MarkFailedErrorDoesNotMaskCause(t *testing.T) {
	repo := &fakeNotifRepo{profile: enabledProfile(), markErr: errors.New("db down")}
	mailer := &fakeMailer{sendErr: errors.New("550 mailbox unavailable")}
	d := NewDispatcher(repo, mailer)

	_, err := d.Dispatch(1, 7, "ann@example.com", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "550", "lỗi trả về phải là lỗi gửi, không phải lỗi ghi log")
}

func TestDispatchError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &DispatchError{EmailLogID: 9, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
