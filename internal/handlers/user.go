// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/services"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID := customerID(c)
	if userID == "" {
		utils.ForbiddenResponse(c, "")
		return
	}

	var req services.UpdateUserProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}

// POST /users/garage
func (h *UserHandler) AddCar(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID := customerID(c)
	if userID == "" {
		utils.ForbiddenResponse(c, "")
		return
	}

	var req services.AddCarRequest
	if !bindJSON(c, &req) {
		return
	}

	user, car, err := h.userService.AddCar(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCarAdded),
		"car":     car,
		"garage":  user.Garage,
	})
}

// DELETE /users/garage/:carId
func (h *UserHandler) RemoveCar(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID := customerID(c)
	if userID == "" {
		utils.ForbiddenResponse(c, "")
		return
	}

	user, err := h.userService.RemoveCar(c.Request.Context(), userID, c.Param("carId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCarRemoved),
		"garage":  user.Garage,
	})
}
