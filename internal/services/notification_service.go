// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fortexuz/fortex-backend/internal/config"
	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

// Notifier tells shop staff about customer activity. Implementations must
// not block on delivery; a returned error only means the event was dropped.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
	ReviewPosted(ctx context.Context, product *models.Product, review *models.Review) error
	BookingCreated(ctx context.Context, booking *models.Booking) error
}

// Photo is an image with an HTML caption, sent after the message text.
type Photo struct {
	URL     string
	Caption string
}

// Message is one staff notification: an HTML text and optional photos.
type Message struct {
	Kind    string
	Subject string
	Text    string
	Photos  []Photo

	// Progress remembers which delivery steps already succeeded so a retry
	// only repeats the failed ones. Nil means every step is attempted.
	Progress *DeliveryProgress
}

// Sender delivers a message to every configured recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher accepts messages for asynchronous delivery.
type Dispatcher interface {
	Dispatch(msg Message) error
}

type NotificationService struct {
	dispatcher Dispatcher
	shop       config.ShopConfig
}

func NewNotificationService(dispatcher Dispatcher, cfg *config.Config) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		shop:       cfg.Shop,
	}
}

func (s *NotificationService) OrderPlaced(ctx context.Context, order *models.Order) error {
	return s.dispatch(FormatOrderMessage(order))
}

func (s *NotificationService) ReviewPosted(ctx context.Context, product *models.Product, review *models.Review) error {
	return s.dispatch(FormatReviewMessage(product, review))
}

func (s *NotificationService) BookingCreated(ctx context.Context, booking *models.Booking) error {
	return s.dispatch(FormatBookingMessage(booking))
}

func (s *NotificationService) dispatch(msg Message) error {
	if s.shop.Name != "" {
		msg.Subject = s.shop.Name + ": " + msg.Subject
	}
	return s.dispatcher.Dispatch(msg)
}

var paymentLabels = map[models.PaymentMethod]string{
	models.PaymentMethodCard: "Karta (Click/Payme)",
	models.PaymentMethodCash: "Naqd pul",
}

var serviceLabels = map[models.ServiceType]string{
	models.ServiceTypeOilChange:     "Moy almashtirish",
	models.ServiceTypeFilterReplace: "Filtr almashtirish",
	models.ServiceTypeDiagnostics:   "Diagnostika",
}

// FormatAmount groups thousands with spaces: 1234567 -> "1 234 567".
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

func FormatOrderMessage(order *models.Order) Message {
	var b strings.Builder
	b.WriteString("🆕 <b>YANGI BUYURTMA</b>\n")
	fmt.Fprintf(&b, "🆔 ID: #%s\n", order.ID)
	fmt.Fprintf(&b, "📅 Sana: %s\n\n", order.Date.Format("02.01.2006 15:04"))

	fmt.Fprintf(&b, "👤 <b>Mijoz:</b> %s\n", html.EscapeString(order.CustomerName))
	fmt.Fprintf(&b, "📞 <b>Tel:</b> %s\n", html.EscapeString(utils.FormatPhone(order.Phone)))
	fmt.Fprintf(&b, "💳 <b>To'lov turi:</b> %s\n\n", paymentLabels[order.PaymentMethod])

	b.WriteString("🛒 <b>Mahsulotlar:</b>\n")
	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s (%s) x %d ta\n", i+1, html.EscapeString(item.Name), html.EscapeString(item.Variant), item.Quantity)
	}
	fmt.Fprintf(&b, "\n💰 <b>JAMI: %s UZS</b>", FormatAmount(order.TotalAmount))

	photos := make([]Photo, 0, len(order.Items))
	for _, item := range order.Items {
		if item.ImageURL == "" {
			continue
		}
		photos = append(photos, Photo{
			URL: item.ImageURL,
			Caption: fmt.Sprintf("<b>%s</b>\nHajm: %s\nSoni: %d ta\nNarx: %s UZS",
				html.EscapeString(item.Name), html.EscapeString(item.Variant), item.Quantity, FormatAmount(item.Subtotal())),
		})
	}

	return Message{
		Kind:    "order",
		Subject: "Yangi buyurtma #" + order.ID,
		Text:    b.String(),
		Photos:  photos,
	}
}

func FormatReviewMessage(product *models.Product, review *models.Review) Message {
	var b strings.Builder
	b.WriteString("⭐ <b>YANGI SHARH</b>\n")
	fmt.Fprintf(&b, "📦 <b>Mahsulot:</b> %s\n", html.EscapeString(product.Name))
	fmt.Fprintf(&b, "👤 <b>Mijoz:</b> %s\n", html.EscapeString(review.UserName))
	fmt.Fprintf(&b, "⭐ <b>Baho:</b> %s\n", strings.Repeat("⭐", review.Rating))
	fmt.Fprintf(&b, "💬 %s", html.EscapeString(review.Comment))

	return Message{
		Kind:    "review",
		Subject: "Yangi sharh: " + product.Name,
		Text:    b.String(),
	}
}

func FormatBookingMessage(booking *models.Booking) Message {
	service, ok := serviceLabels[booking.ServiceType]
	if !ok {
		service = string(booking.ServiceType)
	}

	var b strings.Builder
	b.WriteString("🔧 <b>SERVISGA YOZILISH</b>\n")
	fmt.Fprintf(&b, "👤 <b>Mijoz:</b> %s\n", html.EscapeString(booking.Name))
	fmt.Fprintf(&b, "📞 <b>Tel:</b> %s\n", html.EscapeString(utils.FormatPhone(booking.Phone)))
	fmt.Fprintf(&b, "🚗 <b>Mashina:</b> %s\n", html.EscapeString(booking.CarModel))
	fmt.Fprintf(&b, "🛠 <b>Xizmat:</b> %s\n", service)
	fmt.Fprintf(&b, "📅 <b>Sana:</b> %s", html.EscapeString(booking.PreferredDate))

	return Message{
		Kind:    "booking",
		Subject: "Servisga yozilish: " + booking.Name,
		Text:    b.String(),
	}
}

// LogSender is used when no messaging credentials are configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"kind":    msg.Kind,
		"subject": msg.Subject,
		"photos":  len(msg.Photos),
	}).Info("Notification (messaging disabled)")
	return nil
}

// EmailSender mails a notification to the shop inbox. It is the fallback
// when the messaging API keeps failing.
type EmailSender struct {
	config config.EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	return &EmailSender{config: cfg, send: smtp.SendMail}
}

// Configured reports whether an SMTP relay is set.
func (s *EmailSender) Configured() bool {
	return s.config.SMTPHost != "" && s.config.AdminEmail != ""
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	if !s.Configured() {
		return fmt.Errorf("email fallback not configured")
	}

	body, err := renderTemplate(emailTemplate, map[string]interface{}{
		"Subject": msg.Subject,
		"Lines":   strings.Split(msg.Text, "\n"),
		"Photos":  msg.Photos,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	// Compose message
	raw := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.FromName, s.config.FromEmail, s.config.AdminEmail, msg.Subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	return s.send(addr, auth, s.config.FromEmail, []string{s.config.AdminEmail}, raw)
}

// Message text is already HTML; the template marks each line safe.
const emailTemplate = `<!DOCTYPE html>
<html>
<body>
	<h2>{{.Subject}}</h2>
	{{range .Lines}}<p>{{safe .}}</p>{{end}}
	{{range .Photos}}<p><img src="{{.URL}}" width="240"><br>{{safe .Caption}}</p>{{end}}
</body>
</html>`

func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Funcs(template.FuncMap{
		"safe": func(s string) template.HTML { return template.HTML(s) },
	}).Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) OrderPlaced(context.Context, *models.Order) error                   { return nil }
func (NopNotifier) ReviewPosted(context.Context, *models.Product, *models.Review) error { return nil }
func (NopNotifier) BookingCreated(context.Context, *models.Booking) error              { return nil }

var _ Notifier = (*NotificationService)(nil)
var _ Notifier = NopNotifier{}

