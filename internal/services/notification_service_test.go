package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fortexuz/fortex-backend/internal/config"
	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
)

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		85000:    "85 000",
		1234567:  "1 234 567",
		-320000:  "-320 000",
		10000000: "10 000 000",
	}
	for amount, want := range cases {
		assert.Equal(t, want, FormatAmount(amount), amount)
	}
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            "ORD-1767225600000",
		CustomerName:  "Aziz <VIP>",
		Phone:         "+998901234567",
		PaymentMethod: models.PaymentMethodCard,
		Items: models.LineItems{
			{ProductID: "prod_1", Name: "Fortex Premium 5W-30", Variant: "4L", UnitPrice: 320000, Quantity: 2, ImageURL: "https://cdn.example.com/fortex.webp"},
			{ProductID: "prod_13", Name: "Felix Antifreeze G12 Red", Variant: "1L", UnitPrice: 45000, Quantity: 1},
		},
		TotalAmount: 685000,
		Status:      models.OrderStatusPending,
		Date:        time.Date(2026, 1, 1, 9, 5, 0, 0, time.UTC),
	}
}

func TestFormatOrderMessage(t *testing.T) {
	msg := FormatOrderMessage(sampleOrder())

	assert.Equal(t, "order", msg.Kind)
	assert.Contains(t, msg.Text, "#ORD-1767225600000")
	assert.Contains(t, msg.Text, "01.01.2026 09:05")
	assert.Contains(t, msg.Text, "Aziz &lt;VIP&gt;")
	assert.Contains(t, msg.Text, "+998 90 123 45 67")
	assert.Contains(t, msg.Text, "Karta (Click/Payme)")
	assert.Contains(t, msg.Text, "1. Fortex Premium 5W-30 (4L) x 2 ta")
	assert.Contains(t, msg.Text, "2. Felix Antifreeze G12 Red (1L) x 1 ta")
	assert.Contains(t, msg.Text, "JAMI: 685 000 UZS")

	// Only lines with an image get a photo
	require.Len(t, msg.Photos, 1)
	assert.Equal(t, "https://cdn.example.com/fortex.webp", msg.Photos[0].URL)
	assert.Contains(t, msg.Photos[0].Caption, "Narx: 640 000 UZS")
}

func TestFormatBookingAndReviewMessages(t *testing.T) {
	booking := FormatBookingMessage(&models.Booking{
		Name:          "Dilshod",
		Phone:         "+998 93 000 11 22",
		CarModel:      "Cobalt",
		ServiceType:   models.ServiceTypeOilChange,
		PreferredDate: "2026-02-01",
	})
	assert.Equal(t, "booking", booking.Kind)
	assert.Contains(t, booking.Text, "Moy almashtirish")
	assert.Contains(t, booking.Text, "2026-02-01")

	review := FormatReviewMessage(&models.Product{Name: "ZIC X9 5W-30"}, &models.Review{UserName: "Guest", Rating: 3, Comment: "ok"})
	assert.Equal(t, "review", review.Kind)
	assert.Contains(t, review.Text, "⭐⭐⭐\n")
	assert.Contains(t, review.Subject, "ZIC X9 5W-30")
}

type recordingDispatcher struct {
	messages []Message
	err      error
}

func (d *recordingDispatcher) Dispatch(msg Message) error {
	d.messages = append(d.messages, msg)
	return d.err
}

func TestNotificationServicePrefixesShopName(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc := NewNotificationService(dispatcher, &config.Config{Shop: config.ShopConfig{Name: "Fortex"}})

	require.NoError(t, svc.OrderPlaced(context.Background(), sampleOrder()))
	require.Len(t, dispatcher.messages, 1)
	assert.Equal(t, "Fortex: Yangi buyurtma #ORD-1767225600000", dispatcher.messages[0].Subject)

	dispatcher.err = ErrQueueFull
	assert.ErrorIs(t, svc.BookingCreated(context.Background(), &models.Booking{Name: "A"}), ErrQueueFull)
}

func TestEmailSender(t *testing.T) {
	sender := NewEmailSender(config.EmailConfig{
		SMTPHost:   "smtp.example.com",
		SMTPPort:   "587",
		FromEmail:  "shop@example.com",
		FromName:   "Fortex",
		AdminEmail: "staff@example.com",
	})
	require.True(t, sender.Configured())

	var (
		gotAddr string
		gotTo   []string
		gotBody string
	)
	sender.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		return nil
	}

	msg := FormatOrderMessage(sampleOrder())
	require.NoError(t, sender.Send(context.Background(), msg))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"staff@example.com"}, gotTo)
	assert.Contains(t, gotBody, "Subject: "+msg.Subject)
	assert.Contains(t, gotBody, "<b>YANGI BUYURTMA</b>")
	assert.Contains(t, gotBody, `<img src="https://cdn.example.com/fortex.webp"`)

	assert.Error(t, NewEmailSender(config.EmailConfig{}).Send(context.Background(), msg))
}

func TestTelegramClientSendsToEveryChat(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		mu.Lock()
		calls = append(calls, r.URL.Path+" "+r.PostForm.Get("chat_id"))
		mu.Unlock()

		if r.PostForm.Get("chat_id") == "broken" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
			return
		}
		assert.Equal(t, "HTML", r.PostForm.Get("parse_mode"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewTelegramClient(config.TelegramConfig{
		BotToken:   "123:abc",
		ChatIDs:    []string{"100", "broken", "200"},
		APIBaseURL: server.URL + "/",
	})

	err := client.Send(context.Background(), FormatOrderMessage(sampleOrder()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")

	assert.Equal(t, []string{
		"/bot123:abc/sendMessage 100",
		"/bot123:abc/sendPhoto 100",
		"/bot123:abc/sendMessage broken",
		"/bot123:abc/sendMessage 200",
		"/bot123:abc/sendPhoto 200",
	}, calls)
}

func TestTelegramClientHidesToken(t *testing.T) {
	client := NewTelegramClient(config.TelegramConfig{
		BotToken:       "secret-token",
		ChatIDs:        []string{"1"},
		APIBaseURL:     "http://127.0.0.1:1",
		RequestTimeout: 1,
	})

	err := client.Send(context.Background(), Message{Text: "hi"})
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "secret-token"), err.Error())
}

func TestBookingServiceCreate(t *testing.T) {
	notifier := new(mockNotifier)
	notifier.On("BookingCreated", mock.Anything, mock.AnythingOfType("*models.Booking")).Return(ErrQueueFull)

	svc := NewBookingService(repository.NewMemoryStore(false).Bookings, notifier)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	booking, err := svc.Create(context.Background(), &CreateBookingRequest{
		Name:          " Dilshod ",
		Phone:         "930001122",
		CarModel:      "Cobalt",
		ServiceType:   models.ServiceTypeDiagnostics,
		PreferredDate: "2026-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dilshod", booking.Name)
	assert.Equal(t, "+998 93 000 11 22", booking.Phone)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, booking.ID, listed[0].ID)
	notifier.AssertExpectations(t)
}

func TestFormatOrderMessageEscapesVariant(t *testing.T) {
	order := sampleOrder()
	order.Items[0].Variant = "<4L & more>"

	msg := FormatOrderMessage(order)

	assert.Contains(t, msg.Text, "(&lt;4L &amp; more&gt;)")
	assert.NotContains(t, msg.Text, "<4L")
	require.Len(t, msg.Photos, 1)
	assert.Contains(t, msg.Photos[0].Caption, "Hajm: &lt;4L &amp; more&gt;")
}
