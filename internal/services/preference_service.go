// internal/services/preference_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/repository"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

type PreferenceService struct {
	prefs       repository.PreferenceRepository
	defaultLang string
}

type SetLanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

func NewPreferenceService(prefs repository.PreferenceRepository, defaultLang string) *PreferenceService {
	if !i18n.IsSupported(defaultLang) {
		defaultLang = i18n.DefaultLanguage
	}
	return &PreferenceService{prefs: prefs, defaultLang: defaultLang}
}

// Language returns the stored choice for the session and whether one was
// stored. Without one it returns the shop default.
func (s *PreferenceService) Language(ctx context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return s.defaultLang, false, nil
	}
	lang, ok, err := s.prefs.GetLanguage(ctx, sessionID)
	if err != nil {
		return "", false, fmt.Errorf("failed to load language: %w", err)
	}
	if !ok || !i18n.IsSupported(lang) {
		return s.defaultLang, false, nil
	}
	return lang, true, nil
}

func (s *PreferenceService) SetLanguage(ctx context.Context, sessionID, lang string) error {
	if !i18n.IsSupported(lang) {
		return ErrUnsupportedLanguage
	}
	if err := s.prefs.SetLanguage(ctx, sessionID, lang); err != nil {
		return fmt.Errorf("failed to save language: %w", err)
	}
	return nil
}
