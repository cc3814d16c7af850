package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/middleware"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID, ok := c.Get(middleware.ContextUserID)
	if !ok {
		httperr.Unauthorized(c, "user_not_in_context", "Sessão inválida.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		First(&user, userID.(uint)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"phone":         user.Phone,
			"role":          user.Role,
			"barbershop_id": user.BarbershopID,
		},
		"barbershop": user.Barbershop,
	})
}

// ListBarbers returns the barbers of the shop, owner first; their ids are
// what availability and booking accept as barber_id.
func (h *MeHandler) ListBarbers(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var barbers []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ?", barbershopID).
		Order("CASE WHEN role = 'owner' THEN 0 ELSE 1 END, id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	c.JSON(http.StatusOK, barbers)
}
