// internal/handlers/preference.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/services"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type PreferenceHandler struct {
	preferenceService *services.PreferenceService
}

func NewPreferenceHandler(preferenceService *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
	}
}

// GET /preferences/language
func (h *PreferenceHandler) GetLanguage(c *gin.Context) {
	lang, stored, err := h.preferenceService.Language(c.Request.Context(), utils.GetSessionIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"language":  lang,
		"stored":    stored,
		"supported": i18n.SupportedLanguages,
	})
}

// PUT /preferences/language
func (h *PreferenceHandler) SetLanguage(c *gin.Context) {
	var req services.SetLanguageRequest
	if !bindJSON(c, &req) {
		return
	}

	lang := strings.ToLower(strings.TrimSpace(req.Language))
	if err := h.preferenceService.SetLanguage(c.Request.Context(), utils.GetSessionIDFromContext(c), lang); err != nil {
		respondError(c, err)
		return
	}

	// Answer in the newly chosen language
	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyLanguageUpdated),
		"language": lang,
	})
}
