package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httpresp"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/middleware"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ======================================================
// LIST CLIENTS (BARBEIRO)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("barbershop_id = ?", barbershopID)

	if query != "" {
		like := "%" + query + "%"
		// phones are stored as digits only
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, query)

		if digits != "" {
			q = q.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?", like, "%"+digits+"%", like)
		} else {
			q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
		}
	}

	var clients []models.Client
	if err := q.Order("created_at DESC").Find(&clients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}
