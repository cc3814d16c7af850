package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/infra/repository"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/middleware"
	ucAppointment "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/usecase/appointment"
)

type OpeningHoursHandler struct {
	db    *gorm.DB
	hours *ucAppointment.HoursCache
	audit *audit.Dispatcher
}

func NewOpeningHoursHandler(
	db *gorm.DB,
	hours *ucAppointment.HoursCache,
	auditor *audit.Dispatcher,
) *OpeningHoursHandler {
	return &OpeningHoursHandler{db: db, hours: hours, audit: auditor}
}

// Get returns the weekly map; "configured" is false while no hours were
// ever saved.
func (h *OpeningHoursHandler) Get(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	hours, err := repository.LoadOpeningHours(c.Request.Context(), h.db, barbershopID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_opening_hours", "Erro ao buscar horários.")
		return
	}

	out := domain.OpeningHours{}
	for k, v := range hours {
		if v != nil && v.Open != "" && v.Close != "" {
			out[k] = v
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"configured":    hours.Loaded(),
		"opening_hours": out,
	})
}

// Update replaces the whole week. Body: {"monday": {"open": "09:00",
// "close": "18:00"}, ...}; missing days are closed.
func (h *OpeningHoursHandler) Update(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req domain.OpeningHours
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if req == nil {
		req = domain.OpeningHours{}
	}

	if err := req.Validate(); err != nil {
		httperr.BadRequest(c, "invalid_opening_hours", err.Error())
		return
	}

	if err := repository.ReplaceOpeningHours(c.Request.Context(), h.db, barbershopID, req); err != nil {
		httperr.Internal(c, "failed_to_save_opening_hours", "Erro ao salvar horários.")
		return
	}

	h.hours.Invalidate(c.Request.Context(), barbershopID)

	h.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &userID,
		Action:       audit.ActionOpeningHoursUpdated,
		Entity:       "barbershop",
		EntityID:     &barbershopID,
		Metadata:     req,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
