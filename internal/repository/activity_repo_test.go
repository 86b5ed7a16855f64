package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var activityCols = []string{"id", "name", "description", "category", "location", "address", "price", "image_url", "organizer_id", "approved", "created_at"}

func activityRow(id, name string, approved bool) []any {
	return []any{id, name, "desc", "sports", "Helsinki", (*string)(nil), (*float64)(nil), (*string)(nil), "org-1", approved, time.Now()}
}

func TestActivityRepository_List_PendingRequests(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActivityRepository(mock)
	approved := false

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM activities WHERE approved = $1`)).
		WithArgs(approved).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .+ FROM activities WHERE approved = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(approved, 10, 0).
		WillReturnRows(pgxmock.NewRows(activityCols).AddRow(activityRow("a1", "Climbing intro", false)...))

	activities, total, err := repo.List(context.Background(), 1, 10, "", model.ActivityFilters{Approved: &approved})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, activities, 1)
	assert.Equal(t, "Climbing intro", activities[0].Name)
	assert.False(t, activities[0].Approved)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepository_Update_Approve(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActivityRepository(mock)
	approved := true

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE activities SET approved = $1 WHERE id = $2 RETURNING `+activityColumns)).
		WithArgs(approved, "a1").
		WillReturnRows(pgxmock.NewRows(activityCols).AddRow(activityRow("a1", "Climbing intro", true)...))

	activity, err := repo.Update(context.Background(), "a1", model.UpdateActivityRequest{Approved: &approved})
	require.NoError(t, err)
	require.NotNil(t, activity)
	assert.True(t, activity.Approved)
}

func TestActivityRepository_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActivityRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM activities WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.Error(t, repo.Delete(context.Background(), "missing"))
}
