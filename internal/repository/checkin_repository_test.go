package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/recovery-api/internal/models"
)

func TestCheckInRepositoryUpsertKeepsExistingID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckInRepository(db)

	created := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (patient_id, recorded_date) DO UPDATE SET")).
		WithArgs(sqlmock.AnyArg(), "patient-1", sqlmock.AnyArg(), 6, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("existing", created))

	checkIn := &models.CheckIn{PatientID: "patient-1", RecordedDate: created.Truncate(24 * time.Hour), PainScore: 6}
	require.NoError(t, repo.Upsert(context.Background(), checkIn))
	assert.Equal(t, "existing", checkIn.ID)
	assert.Equal(t, created, checkIn.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRepositoryListWithRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCheckInRepository(db)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "patient_id", "recorded_date", "pain_score", "mood", "notes", "created_at", "updated_at"}).
		AddRow("c-1", "patient-1", from, 5, 3, nil, from, from)
	mock.ExpectQuery(regexp.QuoteMeta("FROM daily_checkins WHERE patient_id = $1 AND recorded_date >= $2 AND recorded_date <= $3 ORDER BY recorded_date ASC")).
		WithArgs("patient-1", from, to).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), "patient-1", models.CheckInFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Mood)
	assert.Equal(t, 3, *items[0].Mood)
	assert.Nil(t, items[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
