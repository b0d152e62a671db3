// internal/handlers/recommendation.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/services"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type RecommendationHandler struct {
	recommendationService *services.RecommendationService
}

func NewRecommendationHandler(recommendationService *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// GET /recommendations/brands
func (h *RecommendationHandler) GetBrands(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"brands": h.recommendationService.Brands(),
	})
}

// GET /recommendations/brands/:brand/models
func (h *RecommendationHandler) GetModels(c *gin.Context) {
	models := h.recommendationService.Models(c.Param("brand"))
	if models == nil {
		models = []services.VehicleModel{}
	}

	utils.SuccessResponse(c, gin.H{
		"brand":  c.Param("brand"),
		"models": models,
	})
}

// GET /recommendations?brand=&model=
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	brand, model := c.Query("brand"), c.Query("model")
	if brand == "" || model == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "brand/model"), nil)
		return
	}

	rec, err := h.recommendationService.Recommend(c.Request.Context(), brand, model)
	if err != nil {
		respondError(c, err)
		return
	}

	message := i18n.T(lang, i18n.KeyRecommendationNone)
	if len(rec.Products) > 0 {
		message = i18n.T(lang, i18n.KeyRecommendationFound, rec.Viscosity)
	}

	utils.SuccessResponse(c, gin.H{
		"message":        message,
		"recommendation": rec,
	})
}
