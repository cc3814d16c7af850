package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httpresp"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/middleware"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

type BarbershopHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBarbershopHandler(db *gorm.DB, auditor *audit.Dispatcher) *BarbershopHandler {
	return &BarbershopHandler{db: db, audit: auditor}
}

type UpdateBarbershopConfigRequest struct {
	Name                     *string `json:"name"`
	Phone                    *string `json:"phone"`
	Address                  *string `json:"address"`
	Timezone                 *string `json:"timezone"`
	MinAdvanceMinutes        *int    `json:"min_advance_minutes"`
	SlotIntervalMinutes      *int    `json:"slot_interval_minutes"`
	FailOpenOnUnloadedConfig *bool   `json:"fail_open_on_unloaded_config"`
}

func (h *BarbershopHandler) load(c *gin.Context) (*models.Barbershop, bool) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).First(&shop, barbershopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Erro ao buscar dados da barbearia.")
		return nil, false
	}
	return &shop, true
}

func (h *BarbershopHandler) GetMeBarbershop(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, shop)
}

func (h *BarbershopHandler) UpdateMeBarbershop(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	shop, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateBarbershopConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		shop.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		shop.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.SlotIntervalMinutes != nil {
		if *req.SlotIntervalMinutes < 5 || *req.SlotIntervalMinutes > 240 {
			httperr.BadRequest(c, "invalid_slot_interval", "Intervalo entre horários deve estar entre 5 e 240 minutos.")
			return
		}
		shop.SlotIntervalMinutes = *req.SlotIntervalMinutes
	}
	if req.FailOpenOnUnloadedConfig != nil {
		shop.FailOpenOnUnloadedConfig = *req.FailOpenOnUnloadedConfig
	}

	if err := h.db.WithContext(c.Request.Context()).Save(shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Erro ao salvar as configurações da barbearia.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &userID,
		Action:       audit.ActionBarbershopUpdated,
		Entity:       "barbershop",
		EntityID:     &shop.ID,
		Metadata:     req,
	})

	httpresp.OK(c, shop)
}
