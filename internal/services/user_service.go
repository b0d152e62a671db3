// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

var ErrCarNotFound = errors.New("car not found")

type UserService struct {
	users  repository.UserRepository
	orders *OrderService
}

type UpdateUserProfileRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Language string `json:"language,omitempty" validate:"omitempty,oneof=uz ru en"`
}

type AddCarRequest struct {
	Brand string `json:"brand" validate:"required,max=64"`
	Model string `json:"model" validate:"required,max=64"`
	Year  int    `json:"year" validate:"required,min=1950,max=2100"`
	VIN   string `json:"vin,omitempty" validate:"omitempty,len=17,alphanum"`
}

func NewUserService(users repository.UserRepository, orders *OrderService) *UserService {
	return &UserService{
		users:  users,
		orders: orders,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateUserProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Update fields
	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Language != "" {
		user.Language = req.Language
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *UserService) AddCar(ctx context.Context, userID string, req *AddCarRequest) (*models.User, *models.Car, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	car := models.Car{
		ID:    utils.NewID("car"),
		Brand: strings.TrimSpace(req.Brand),
		Model: strings.TrimSpace(req.Model),
		Year:  req.Year,
		VIN:   strings.ToUpper(req.VIN),
	}
	user.Garage = append(user.Garage, car)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to save car: %w", err)
	}
	return user, &car, nil
}

func (s *UserService) RemoveCar(ctx context.Context, userID, carID string) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	garage := make(models.Garage, 0, len(user.Garage))
	for _, car := range user.Garage {
		if car.ID != carID {
			garage = append(garage, car)
		}
	}
	if len(garage) == len(user.Garage) {
		return nil, ErrCarNotFound
	}
	user.Garage = garage

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to remove car: %w", err)
	}
	return user, nil
}

// Orders lists the orders placed with the user's phone number, newest
// first, including those placed before signing in.
func (s *UserService) Orders(ctx context.Context, userID string) ([]models.Order, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.orders.List(ctx, repository.OrderFilter{Phone: user.Phone})
}
