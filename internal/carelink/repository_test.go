package carelink

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *Repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return mock, NewRepository(db, nil)
}

func TestRepositoryCreate_CaregiverTable(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO careconnect\.caregiver_patients`).
		WithArgs(sqlmock.AnyArg(), "carer-1", "patient-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	link := &Link{CarerID: "carer-1", PatientID: "patient-1", Relation: RelationCaregiver}

	err := repo.Create(link)

	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_UniqueViolationMapsToAlreadyLinked(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO careconnect\.family_patients`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(&Link{CarerID: "family-1", PatientID: "patient-1", Relation: RelationFamily})

	assert.ErrorIs(t, err, ErrAlreadyLinked)
}

func TestRepositoryPatientIDs(t *testing.T) {
	mock, repo := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"patient_id"}).
		AddRow("patient-1").
		AddRow("patient-2")

	mock.ExpectQuery(`SELECT patient_id FROM careconnect\.caregiver_patients`).
		WithArgs("carer-1").
		WillReturnRows(rows)

	ids, err := repo.PatientIDs("carer-1", RelationCaregiver)

	require.NoError(t, err)
	assert.Equal(t, []string{"patient-1", "patient-2"}, ids)
}

func TestRepositoryCarerIDs_CombinesBothTables(t *testing.T) {
	mock, repo := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"caregiver_id"}).
		AddRow("carer-1").
		AddRow("family-1")

	mock.ExpectQuery(`SELECT caregiver_id FROM careconnect\.caregiver_patients(.+)UNION`).
		WithArgs("patient-1").
		WillReturnRows(rows)

	ids, err := repo.CarerIDs("patient-1")

	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT id, caregiver_id, patient_id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "caregiver_id", "patient_id", "created_at", "relation"}))

	_, err := repo.GetByID("missing")

	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestRepositoryDelete_NotFound(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`DELETE FROM careconnect\.caregiver_patients`).
		WithArgs("link-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(&Link{ID: "link-1", Relation: RelationCaregiver})

	assert.ErrorIs(t, err, ErrLinkNotFound)
}
