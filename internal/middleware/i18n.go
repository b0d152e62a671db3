// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/services"
)

// I18nMiddleware picks the response language: an explicit ?lang= first, then
// the language stored for the session, then Accept-Language. It runs after
// SessionMiddleware.
func I18nMiddleware(prefs *services.PreferenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := ""

		if q := c.Query("lang"); q != "" && i18n.IsSupported(strings.ToLower(q)) {
			lang = strings.ToLower(q)
		}

		if lang == "" && prefs != nil {
			if sessionID := c.GetString("session_id"); sessionID != "" {
				stored, ok, err := prefs.Language(c.Request.Context(), sessionID)
				if err != nil {
					logrus.WithError(err).Warn("Failed to load language preference")
				} else if ok {
					lang = stored
				}
			}
		}

		if lang == "" {
			lang = fromAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		// Set language in context
		c.Set("lang", lang)
		c.Next()
	}
}

// Handles values like "ru-RU,ru;q=0.9,en;q=0.8" by taking the first
// supported tag.
func fromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		if tag == "" {
			continue
		}
		if lang := i18n.Normalize(tag); strings.HasPrefix(strings.ToLower(tag), lang) {
			return lang
		}
	}
	return i18n.DefaultLanguage
}
