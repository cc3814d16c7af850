package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httpresp"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/middleware"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
	ucAppointment "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/usecase/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	confirm      *ucAppointment.ConfirmAppointment
	complete     *ucAppointment.CompleteAppointment
	cancel       *ucAppointment.CancelAppointment
	listByDate   *ucAppointment.ListAppointmentsByDate
	listByMonth  *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	complete *ucAppointment.CompleteAppointment,
	cancel *ucAppointment.CancelAppointment,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		availability: availability,
		create:       create,
		confirm:      confirm,
		complete:     complete,
		cancel:       cancel,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	BarberID    uint   `json:"barber_id"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	Notes       string `json:"notes"`
}

// toInput validates the client fields shared by the private and public
// booking endpoints.
func (r CreateAppointmentRequest) toInput(c *gin.Context, barbershopID uint) (ucAppointment.CreateAppointmentInput, bool) {
	phone := validators.NormalizePhone(r.ClientPhone)
	if phone == "" {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return ucAppointment.CreateAppointmentInput{}, false
	}
	if r.ClientEmail != "" && !validators.HasEmailShape(r.ClientEmail) {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return ucAppointment.CreateAppointmentInput{}, false
	}

	return ucAppointment.CreateAppointmentInput{
		BarbershopID: barbershopID,
		BarberID:     r.BarberID,
		ClientName:   r.ClientName,
		ClientPhone:  phone,
		ClientEmail:  r.ClientEmail,
		ServiceID:    r.ServiceID,
		Date:         r.Date,
		Time:         r.Time,
		Notes:        r.Notes,
	}, true
}

// ======================================================
// HELPERS
// ======================================================

// parseAvailabilityQuery reads date, service_id and the optional barber_id.
func parseAvailabilityQuery(c *gin.Context, barbershopID uint) (domain.AvailabilityInput, bool) {
	dateStr := c.Query("date")
	serviceStr := c.Query("service_id")

	if dateStr == "" || serviceStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return domain.AvailabilityInput{}, false
	}

	date, err := timezone.ParseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return domain.AvailabilityInput{}, false
	}

	serviceID, err := strconv.ParseUint(serviceStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return domain.AvailabilityInput{}, false
	}

	var barberID uint64
	if s := c.Query("barber_id"); s != "" {
		barberID, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
			return domain.AvailabilityInput{}, false
		}
	}

	return domain.AvailabilityInput{
		BarbershopID: barbershopID,
		BarberID:     uint(barberID),
		ServiceID:    uint(serviceID),
		Date:         date,
	}, true
}

func appointmentIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	in, ok := parseAvailabilityQuery(c, barbershopID)
	if !ok {
		return
	}
	if in.BarberID == 0 {
		in.BarberID = barberID
	}

	res, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if req.BarberID == 0 {
		req.BarberID = barberID
	}

	in, ok := req.toInput(c, barbershopID)
	if !ok {
		return
	}
	in.ActorID = &barberID

	ap, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := timezone.ParseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	aps, err := h.listByDate.Execute(c.Request.Context(), barberID, barbershopID, date)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	aps, err := h.listByMonth.Execute(c.Request.Context(), barberID, barbershopID, year, month)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), barbershopID, barberID, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), barbershopID, barberID, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), barbershopID, barberID, id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}
