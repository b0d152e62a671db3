package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/fortexuz/fortex-backend/internal/config"
	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctx  context.Context
	cfg  *config.Config
	auth *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = &config.Config{
		JWT:   config.JWTConfig{AccessTokenTTL: 1, RefreshTokenTTL: 24, AdminTokenTTL: 1},
		Admin: config.AdminConfig{Passcode: "fortex-admin"},
	}
	utils.SetJWTSecret("test-secret")
	s.auth = NewAuthService(repository.NewMemoryStore(false).Users, BcryptHasher{Cost: bcrypt.MinCost}, s.cfg)
}

func (s *AuthServiceTestSuite) register() *AuthResponse {
	resp, err := s.auth.Register(s.ctx, &RegisterRequest{
		Name:     " Aziz ",
		Phone:    "90 123-45-67",
		Password: "secret1",
	})
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceTestSuite) TestRegister() {
	resp := s.register()

	s.Equal("Aziz", resp.User.Name)
	s.Equal("+998901234567", resp.User.Phone)
	s.NotEqual("secret1", resp.User.PasswordHash)
	s.NotEmpty(resp.RefreshToken)
	s.Equal(3600, resp.ExpiresIn)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, claims.UserID)
	s.Equal(string(models.UserRoleCustomer), claims.Role)
}

func (s *AuthServiceTestSuite) TestRegisterRejectsTakenPhone() {
	s.register()

	_, err := s.auth.Register(s.ctx, &RegisterRequest{Name: "Other", Phone: "+998 90 123 45 67", Password: "secret2"})
	s.ErrorIs(err, ErrPhoneTaken)

	_, err = s.auth.Register(s.ctx, &RegisterRequest{Name: "Other", Phone: "12345", Password: "secret2"})
	s.ErrorIs(err, utils.ErrInvalidPhone)
}

func (s *AuthServiceTestSuite) TestLogin() {
	registered := s.register()

	resp, err := s.auth.Login(s.ctx, &LoginRequest{Phone: "+998901234567", Password: "secret1"})
	s.Require().NoError(err)
	s.Equal(registered.User.ID, resp.User.ID)
	s.NotNil(resp.User.LastLoginAt)

	_, err = s.auth.Login(s.ctx, &LoginRequest{Phone: "+998901234567", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(s.ctx, &LoginRequest{Phone: "+998911111111", Password: "secret1"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestRefreshToken() {
	registered := s.register()

	resp, err := s.auth.RefreshToken(s.ctx, registered.RefreshToken)
	s.Require().NoError(err)
	s.NotEmpty(resp.AccessToken)
	s.Empty(resp.RefreshToken)

	// An access token is not a refresh token
	_, err = s.auth.RefreshToken(s.ctx, registered.AccessToken)
	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestAdminLoginWithPlainPasscode() {
	resp, err := s.auth.AdminLogin(s.ctx, &AdminLoginRequest{Passcode: "fortex-admin"})
	s.Require().NoError(err)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal("admin", claims.UserID)
	s.Equal(string(models.UserRoleAdmin), claims.Role)

	_, err = s.auth.AdminLogin(s.ctx, &AdminLoginRequest{Passcode: "fortex"})
	s.ErrorIs(err, ErrInvalidPasscode)
}

func (s *AuthServiceTestSuite) TestAdminLoginWithHashedPasscode() {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.cfg.Admin.Passcode = string(hash)

	_, err = s.auth.AdminLogin(s.ctx, &AdminLoginRequest{Passcode: "s3cret"})
	s.NoError(err)

	_, err = s.auth.AdminLogin(s.ctx, &AdminLoginRequest{Passcode: string(hash)})
	s.ErrorIs(err, ErrInvalidPasscode)
}

func (s *AuthServiceTestSuite) TestAdminLoginDisabledWithoutPasscode() {
	s.cfg.Admin.Passcode = ""

	_, err := s.auth.AdminLogin(s.ctx, &AdminLoginRequest{Passcode: ""})
	s.ErrorIs(err, ErrAdminLoginDisabled)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
