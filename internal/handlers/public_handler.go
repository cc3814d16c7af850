package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	ucAppointment "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
}

func NewPublicHandler(
	db *gorm.DB,
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		create:       create,
	}
}

// shopBySlug writes 404/500 itself and returns false when the caller must
// stop.
func (h *PublicHandler) shopBySlug(c *gin.Context) (*models.Barbershop, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var shop models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Erro ao buscar barbearia.")
		return nil, false
	}
	return &shop, true
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND active = true", shop.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	// barber ids feed the optional barber_id of availability and booking
	var barbers []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Select("id", "name").
		Where("barbershop_id = ?", shop.ID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": gin.H{
			"id":       shop.ID,
			"name":     shop.Name,
			"slug":     shop.Slug,
			"phone":    shop.Phone,
			"address":  shop.Address,
			"timezone": shop.Timezone,
		},
		"services": services,
		"barbers":  barbers,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	in, ok := parseAvailabilityQuery(c, shop.ID)
	if !ok {
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in, ok := req.toInput(c, shop.ID)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}
