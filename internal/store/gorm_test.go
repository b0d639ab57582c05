package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewGormStore(gdb), mock
}

func TestGormList(t *testing.T) {
	s, mock := newMockStore(t)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE tenant_id = \\?").
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "therapist_id", "start_time", "end_time", "status"}).
			AddRow("a1", "t1", "th1", start, start.Add(45*time.Minute), "scheduled"))

	got, err := s.List(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, models.StatusScheduled, got[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGet_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE tenant_id = \\? AND id = \\?").
		WithArgs("t1", "missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Get(context.Background(), "t1", "missing")

	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "missing", nfe.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `appointments`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, models.StatusScheduled, a.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreate_ValidationSkipsDatabase(t *testing.T) {
	s, mock := newMockStore(t)

	cmd := validCreate()
	cmd.TherapistID = ""
	_, err := s.Create(context.Background(), cmd)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRemove(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `appointments` WHERE tenant_id = \\? AND id = \\?").
		WithArgs("t1", "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Remove(context.Background(), "t1", "a1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRemoveSeries(t *testing.T) {
	s, mock := newMockStore(t)
	from := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `appointments` WHERE tenant_id = \\? AND recurring_id = \\? AND start_time >= \\?").
		WithArgs("t1", "r1", from).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, s.RemoveSeries(context.Background(), "t1", "r1", from))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRemoveSeries_EmptyIDSkipsDatabase(t *testing.T) {
	s, mock := newMockStore(t)

	require.NoError(t, s.RemoveSeries(context.Background(), "t1", "", time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormConflicts(t *testing.T) {
	s, mock := newMockStore(t)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE tenant_id = \\? AND therapist_id = \\? AND id <> \\? AND status IN \\(\\?,\\?,\\?\\) AND start_time < \\? AND end_time > \\?").
		WithArgs("t1", "th1", "a1", "scheduled", "confirmed", "in_progress", end, start).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "therapist_id"}).
			AddRow("a2", "t1", "th1"))

	got, err := s.Conflicts(context.Background(), "t1", "th1", start, end, "a1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a2", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListReminders(t *testing.T) {
	s, mock := newMockStore(t)
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery("SELECT \\* FROM `reminders` WHERE tenant_id = \\? AND date >= \\? AND date < \\?").
		WithArgs("t1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "title"}).
			AddRow("r1", "t1", "Order supplies"))

	got, err := s.ListReminders(context.Background(), "t1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Order supplies", got[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
