package appointment

import (
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
)

var (
	errBarberNotFound      = httperr.ErrBusiness(domain.CodeBarberNotFound)
	errAppointmentNotFound = httperr.ErrBusiness(domain.CodeAppointmentNotFound)
	errInvalidDateOrTime   = httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
)
