// internal/services/booking_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type BookingService struct {
	bookings repository.BookingRepository
	notifier Notifier
	now      func() time.Time
}

type CreateBookingRequest struct {
	Name          string             `json:"name" validate:"required,min=2,max=100"`
	Phone         string             `json:"phone" validate:"required,uz_phone"`
	CarModel      string             `json:"carModel" validate:"required,max=100"`
	ServiceType   models.ServiceType `json:"serviceType" validate:"required,oneof=oil_change filter_replace diagnostics"`
	PreferredDate string             `json:"date" validate:"required,datetime=2006-01-02"`
}

func NewBookingService(bookings repository.BookingRepository, notifier Notifier) *BookingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &BookingService{
		bookings: bookings,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *BookingService) Create(ctx context.Context, req *CreateBookingRequest) (*models.Booking, error) {
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:            utils.NewID("book"),
		Name:          strings.TrimSpace(req.Name),
		Phone:         utils.FormatPhone(phone),
		CarModel:      strings.TrimSpace(req.CarModel),
		ServiceType:   req.ServiceType,
		PreferredDate: req.PreferredDate,
		CreatedAt:     s.now(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	if err := s.notifier.BookingCreated(ctx, booking); err != nil {
		logrus.WithError(err).WithField("booking_id", booking.ID).Warn("Booking notification not queued")
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
