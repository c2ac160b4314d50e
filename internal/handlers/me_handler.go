package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/middleware"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe devolve os perfis (cliente/provedor) ligados ao usuário do token.
func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	db := h.db.WithContext(c.Request.Context())

	resp := gin.H{
		"user_id": userID,
		"role":    c.GetString(middleware.ContextUserRole),
	}

	var client models.Client
	switch err := db.Where("user_id = ?", userID).First(&client).Error; {
	case err == nil:
		resp["client"] = gin.H{
			"id":    client.ID,
			"name":  client.Name,
			"email": client.Email,
			"phone": client.Phone,
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		httperr.FromError(c, httperr.Infra(err, "load client profile"))
		return
	}

	var provider models.Provider
	switch err := db.Where("user_id = ?", userID).First(&provider).Error; {
	case err == nil:
		resp["provider"] = gin.H{
			"id":            provider.ID,
			"business_name": provider.BusinessName,
			"phone":         provider.Phone,
			"address":       provider.Address,
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		httperr.FromError(c, httperr.Infra(err, "load provider profile"))
		return
	}

	c.JSON(http.StatusOK, resp)
}
