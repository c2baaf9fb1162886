package notification

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *Repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return mock, NewRepository(db)
}

func TestRepositoryFanOut_SingleTransaction(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBegin()
	prepare := mock.ExpectPrepare(`INSERT INTO careconnect\.notifications`)
	prepare.ExpectExec().
		WithArgs(sqlmock.AnyArg(), "patient-1", "Anna", "carer-1", "Emergency alert from Anna!", TypeEmergency, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prepare.ExpectExec().
		WithArgs(sqlmock.AnyArg(), "patient-1", "Anna", "carer-2", "Emergency alert from Anna!", TypeEmergency, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	notifications := []Notification{
		{PatientID: "patient-1", PatientName: "Anna", CaregiverID: "carer-1", Message: "Emergency alert from Anna!", Type: TypeEmergency},
		{PatientID: "patient-1", PatientName: "Anna", CaregiverID: "carer-2", Message: "Emergency alert from Anna!", Type: TypeEmergency},
	}

	err := repo.FanOut(notifications)

	require.NoError(t, err)
	assert.NotEmpty(t, notifications[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFanOut_RollsBackOnFailure(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBegin()
	prepare := mock.ExpectPrepare(`INSERT INTO careconnect\.notifications`)
	prepare.ExpectExec().
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.FanOut([]Notification{
		{PatientID: "patient-1", CaregiverID: "carer-1", Message: "msg", Type: TypeMissedTask},
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFanOut_EmptyBatch(t *testing.T) {
	_, repo := setupMockDB(t)

	assert.NoError(t, repo.FanOut(nil))
}

func TestRepositoryListForCarer(t *testing.T) {
	mock, repo := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "patient_id", "patient_name", "caregiver_id", "message", "type", "is_read", "created_at"}).
		AddRow("notif-2", "patient-1", "Anna", "carer-1", "Anna missed Morning Hydration at 09:00", TypeMissedTask, false, time.Now()).
		AddRow("notif-1", "patient-1", "Anna", "carer-1", "Emergency alert from Anna!", TypeEmergency, true, time.Now().Add(-time.Hour))

	mock.ExpectQuery(`SELECT .+ FROM careconnect\.notifications`).
		WithArgs("carer-1").
		WillReturnRows(rows)

	notifications, err := repo.ListForCarer("carer-1")

	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "notif-2", notifications[0].ID)
}

func TestRepositoryMarkRead_WrongRecipient(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`UPDATE careconnect\.notifications SET is_read`).
		WithArgs("notif-1", "not-the-recipient").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead("notif-1", "not-the-recipient")

	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
