package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/middleware"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	// from/to are calendar days of the barbershop, not UTC days
	var shop models.Barbershop
	if err := h.db.WithContext(ctx).Select("id", "timezone").First(&shop, barbershopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}
	loc := timezone.Location(shop.Timezone)

	// --------------------------------------------------
	// Query base (sempre protegido por barbershop)
	// --------------------------------------------------

	q := h.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("barbershop_id = ?", barbershopID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := timezone.ParseDate(fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inicial inválida.")
			return
		}
		q = q.Where("created_at >= ?", timezone.StartOfDay(from, loc))
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := timezone.ParseDate(toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data final inválida.")
			return
		}
		q = q.Where("created_at < ?", timezone.StartOfDay(to.AddDays(1), loc))
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
