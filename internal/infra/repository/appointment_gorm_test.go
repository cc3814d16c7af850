package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gdb, mock
}

var (
	dayStart = time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	dayEnd   = dayStart.Add(24 * time.Hour)
)

func newAppointment() *models.Appointment {
	return &models.Appointment{
		BarbershopID: 1,
		BarberID:     7,
		ClientID:     3,
		ServiceID:    2,
		StartTime:    dayStart.Add(9 * time.Hour),
		EndTime:      dayStart.Add(9*time.Hour + 30*time.Minute),
		TotalPrice:   40,
		Status:       string(domain.StatusScheduled),
	}
}

func expectLockAndRead(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE .*barber_id.* FOR UPDATE`).
		WillReturnRows(rows)
}

func TestInsertIfFree_Inserts(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(gdb)

	expectLockAndRead(mock, sqlmock.NewRows([]string{"id", "barber_id", "start_time", "end_time", "status"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "appointments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	var seen []models.Appointment
	ap := newAppointment()
	err := repo.InsertIfFree(context.Background(), ap, dayStart, dayEnd, func(active []models.Appointment) error {
		seen = active
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), ap.ID)
	assert.Empty(t, seen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIfFree_CheckRejects(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(gdb)

	expectLockAndRead(mock, sqlmock.NewRows([]string{"id", "barber_id", "start_time", "end_time", "status"}).
		AddRow(9, 7, dayStart.Add(9*time.Hour), dayStart.Add(10*time.Hour), "confirmed"))
	mock.ExpectRollback()

	err := repo.InsertIfFree(context.Background(), newAppointment(), dayStart, dayEnd, func(active []models.Appointment) error {
		require.Len(t, active, 1)
		assert.Equal(t, uint(9), active[0].ID)
		return domain.ErrSlotTaken
	})

	assert.True(t, httperr.IsBusiness(err, domain.CodeSlotTaken))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIfFree_ConstraintViolationIsSlotTaken(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"exclusion", &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}},
		{"partial unique", &pgconn.PgError{Code: "23505", ConstraintName: httperr.ActiveSlotIndex}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gdb, mock := newMockDB(t)
			repo := NewAppointmentGormRepository(gdb)

			expectLockAndRead(mock, sqlmock.NewRows([]string{"id"}))
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "appointments"`)).WillReturnError(tc.err)
			mock.ExpectRollback()

			err := repo.InsertIfFree(context.Background(), newAppointment(), dayStart, dayEnd,
				func([]models.Appointment) error { return nil })

			assert.True(t, httperr.IsBusiness(err, domain.CodeSlotTaken), "got %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInsertIfFree_OtherErrorsPassThrough(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(gdb)

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.InsertIfFree(context.Background(), newAppointment(), dayStart, dayEnd,
		func([]models.Appointment) error { return nil })

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointment_ConditionedOnPreviousStatus(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(gdb)

	ap := newAppointment()
	ap.ID = 5
	ap.Status = string(domain.StatusConfirmed)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments" SET .*"status"=.* WHERE id = .* AND status = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateAppointment(context.Background(), ap, string(domain.StatusScheduled)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointment_StatusMovedOn(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(gdb)

	ap := newAppointment()
	ap.ID = 5
	ap.Status = string(domain.StatusConfirmed)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments" SET .* WHERE id = .* AND status = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateAppointment(context.Background(), ap, string(domain.StatusScheduled))
	assert.ErrorIs(t, err, domain.ErrStatusChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOpeningHours_UnconfiguredIsNil(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "opening_hours" WHERE barbershop_id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "barbershop_id", "weekday", "open", "close"}))

	hours, err := repo.GetOpeningHours(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, hours)
	assert.False(t, hours.Loaded())
}

func TestGetOpeningHours_BuildsMap(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "opening_hours" WHERE barbershop_id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "barbershop_id", "weekday", "open", "close"}).
			AddRow(1, 1, "monday", "09:00", "18:00").
			AddRow(2, 1, "sunday", "", ""))

	hours, err := repo.GetOpeningHours(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, hours.Loaded())
	assert.Equal(t, &domain.DayHours{Open: "09:00", Close: "18:00"}, hours["monday"])

	r := domain.NewResolver(domain.DefaultPolicy())
	assert.False(t, r.IsOpenOnDate(hours, mustDate(t, "2026-10-18")), "sunday row with empty hours is closed")
	assert.True(t, r.IsOpenOnDate(hours, mustDate(t, "2026-10-19")))
}

func TestReplaceOpeningHours_WritesEveryWeekday(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "opening_hours" WHERE barbershop_id = $1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "opening_hours"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(1).AddRow(2).AddRow(3).AddRow(4).AddRow(5).AddRow(6).AddRow(7))
	mock.ExpectCommit()

	err := ReplaceOpeningHours(context.Background(), gdb, 1, domain.OpeningHours{
		"monday": {Open: "09:00", Close: "18:00"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetService_FiltersInactive(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "services" WHERE id = $1 AND barbershop_id = $2 AND active = $3`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetService(context.Background(), 1, 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func mustDate(t *testing.T, s string) timezone.Date {
	t.Helper()
	d, err := timezone.ParseDate(s)
	require.NoError(t, err)
	return d
}
