package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
)

type errorMapping struct {
	status  int
	message string
}

var bookingErrors = map[string]errorMapping{
	domain.CodeClosedDay:           {http.StatusBadRequest, "A barbearia não abre neste dia."},
	domain.CodeUnknownService:      {http.StatusBadRequest, "Serviço não encontrado."},
	domain.CodeSlotUnavailable:     {http.StatusBadRequest, "Horário indisponível."},
	domain.CodeSlotTaken:           {http.StatusConflict, "Este horário acabou de ser reservado. Escolha outro."},
	domain.CodePersistenceError:    {http.StatusInternalServerError, "Erro ao salvar. Tente novamente."},
	domain.CodeInvalidState:        {http.StatusBadRequest, "Ação não permitida para o status atual do agendamento."},
	domain.CodeInvalidDateOrTime:   {http.StatusBadRequest, "Data ou hora inválida."},
	domain.CodeAppointmentNotFound: {http.StatusNotFound, "Agendamento não encontrado."},
	domain.CodeBarberNotFound:      {http.StatusBadRequest, "Barbeiro não encontrado."},
	"barbershop_not_found":         {http.StatusNotFound, "Barbearia não encontrada."},
}

// writeBookingError renders a usecase error; anything without a business
// code is an internal error.
func writeBookingError(c *gin.Context, err error) {
	code := httperr.Code(err)
	if m, ok := bookingErrors[code]; ok {
		httperr.Write(c, m.status, code, m.message)
		return
	}
	httperr.Internal(c, "internal_error", "Erro interno.")
}
