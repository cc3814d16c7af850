package httperr

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBusinessCodes(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("create appointment: %w", Wrap("persistence_error", cause))

	assert.True(t, IsBusiness(err, "persistence_error"))
	assert.False(t, IsBusiness(err, "slot_taken"))
	assert.Equal(t, "persistence_error", Code(err))
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "", Code(cause))
	assert.Equal(t, "slot_taken", ErrBusiness("slot_taken").Error())
}

func TestPgClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		exclusion bool
		unique    bool
	}{
		{"exclusion", &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}, true, false},
		{"active slot index", &pgconn.PgError{Code: "23505", ConstraintName: ActiveSlotIndex}, true, true},
		{"other unique", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, false, true},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"}), true, false},
		{"fk", &pgconn.PgError{Code: "23503"}, false, false},
		{"plain", errors.New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exclusion, IsExclusionConflict(tt.err))
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
		})
	}
}

func TestWriteBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Conflict(c, "slot_taken", "Horário ocupado.")

	assert.Equal(t, 409, w.Code)
	assert.JSONEq(t, `{"error_code":"slot_taken","message":"Horário ocupado."}`, w.Body.String())
}
