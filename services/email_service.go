package services

import (
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/creative2/guest-feedback-server/models"
	"gorm.io/gorm"
)

const errorExcerptLimit = 500

// NotificationRepository là cổng lưu trữ của Dispatcher.
type NotificationRepository interface {
	// SmtpProfileByHotel trả gorm.ErrRecordNotFound nếu hotel chưa cấu hình.
	SmtpProfileByHotel(hotelID uint) (*models.SmtpProfile, error)
	// LatestTemplate: bản active mới nhất; gorm.ErrRecordNotFound nếu chưa có.
	LatestTemplate(hotelID uint) (*models.EmailTemplate, error)
	CreateLog(l *models.EmailLog) error
	// MarkLogSent / MarkLogFailed chỉ chuyển dòng đang pending; dòng đã
	// terminal giữ nguyên (status một chiều).
	MarkLogSent(id uint, at time.Time) error
	MarkLogFailed(id uint, excerpt string) error
}

// OutgoingMail là một thư đã render xong, sẵn sàng đưa cho transport.
type OutgoingMail struct {
	FromName  string
	FromEmail string
	To        string
	Subject   string
	BodyHTML  string
	BodyText  string
}

// Mailer tách transport SMTP khỏi dispatcher. Verify tương ứng bước thử
// kết nối trước khi gửi; Send gửi thật. Bản go-mail ở mailer.go.
type Mailer interface {
	Verify(p *models.SmtpProfile) error
	Send(p *models.SmtpProfile, m *OutgoingMail) error
}

// Dispatcher gửi thư mời đánh giá qua SMTP riêng của từng hotel và ghi
// email_logs theo máy trạng thái pending -> sent | failed.
type Dispatcher struct {
	repo   NotificationRepository
	mailer Mailer
}

func NewDispatcher(repo NotificationRepository, mailer Mailer) *Dispatcher {
	return &Dispatcher{repo: repo, mailer: mailer}
}

// RenderTemplate thay mọi {{ key }} (khoảng trắng tùy ý) bằng giá trị
// trong vars. Key không có trong vars giữ nguyên dạng literal — không
// blank, không xoá.
func RenderTemplate(tpl string, vars map[string]string) string {
	out := tpl
	for key, val := range vars {
		re := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(key) + `\s*\}\}`)
		out = re.ReplaceAllLiteralString(out, val)
	}
	return out
}

// DefaultTemplate dùng khi hotel chưa có template riêng.
func DefaultTemplate() *models.EmailTemplate {
	return &models.EmailTemplate{
		Subject: "Thank you for your stay - Please share your feedback",
		BodyHTML: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Dear {{guest_name}},</h2>
  <p>Thank you for staying at <strong>{{hotel_name}}</strong>!</p>
  <p>We hope you enjoyed your stay. Your feedback is very important to us and helps us improve our services.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="{{feedback_link}}" style="background-color: #007bff; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Share Your Feedback</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #007bff;">{{feedback_link}}</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
  <p style="color: #666; font-size: 12px;">
    <strong>{{hotel_name}}</strong><br>
    {{hotel_address}}<br>
    Phone: {{hotel_phone}}<br>
    Email: {{hotel_email}}
  </p>
</div>`,
		BodyText: "Dear {{guest_name}},\n\nThank you for staying at {{hotel_name}}!\n\nWe hope you enjoyed your stay. Your feedback is very important to us.\n\nPlease share your feedback by clicking this link:\n{{feedback_link}}\n\nBest regards,\n{{hotel_name}}",
	}
}

// Dispatch render template của hotel, ghi một dòng email_logs pending rồi
// verify + gửi qua SMTP của hotel. Mỗi lần gọi đúng một dòng log, kết thúc
// ở sent hoặc failed — kể cả khi request của caller đã bị hủy giữa chừng.
//
// Gửi đồng bộ trong request (giữ hành vi cũ): độ trễ SMTP chặn response,
// nhưng mailer có timeout nên xấu nhất là failed, không treo.
func (d *Dispatcher) Dispatch(hotelID, guestID uint, recipient string, vars map[string]string) (*models.EmailLog, error) {
	tpl, err := d.repo.LatestTemplate(hotelID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		tpl = DefaultTemplate()
	}

	subject := RenderTemplate(tpl.Subject, vars)
	bodyHTML := RenderTemplate(tpl.BodyHTML, vars)
	bodyText := ""
	if tpl.BodyText != "" {
		bodyText = RenderTemplate(tpl.BodyText, vars)
	}

	// Ghi pending trước khi đụng tới transport để mọi nhánh lỗi phía sau
	// đều có emailLogId trả cho caller.
	row := &models.EmailLog{
		HotelID:   hotelID,
		GuestID:   guestID,
		Recipient: recipient,
		Subject:   subject,
		Status:    models.EmailPending,
	}
	if err := d.repo.CreateLog(row); err != nil {
		return nil, err
	}

	profile, err := d.repo.SmtpProfileByHotel(hotelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, d.fail(row, ErrSmtpNotConfigured)
		}
		return row, d.fail(row, err)
	}
	if !profile.Enabled {
		return row, d.fail(row, ErrSmtpNotConfigured)
	}

	mail := &OutgoingMail{
		FromName:  profile.FromName,
		FromEmail: profile.FromEmail,
		To:        recipient,
		Subject:   subject,
		BodyHTML:  bodyHTML,
		BodyText:  bodyText,
	}

	if err := d.mailer.Verify(profile); err != nil {
		return row, d.fail(row, err)
	}
	if err := d.mailer.Send(profile, mail); err != nil {
		return row, d.fail(row, err)
	}

	now := time.Now()
	if err := d.repo.MarkLogSent(row.ID, now); err != nil {
		return row, err
	}
	row.Status = models.EmailSent
	row.SentAt = &now
	return row, nil
}

// fail chuyển dòng log sang failed với excerpt đã cắt ngắn và trả
// DispatchError mang id của dòng.
func (d *Dispatcher) fail(row *models.EmailLog, cause error) error {
	excerpt := truncateError(cause.Error())
	if err := d.repo.MarkLogFailed(row.ID, excerpt); err != nil {
		// Không che lỗi gốc; dòng log kẹt pending là vấn đề vận hành cần thấy.
		log.Printf("email_log %d: không ghi được trạng thái failed: %v", row.ID, err)
	}
	row.Status = models.EmailFailed
	row.ErrorMessage = &excerpt
	return &DispatchError{EmailLogID: row.ID, Err: cause}
}

func truncateError(msg string) string {
	if len(msg) > errorExcerptLimit {
		return msg[:errorExcerptLimit]
	}
	return msg
}
