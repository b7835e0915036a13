package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"naybourhood_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func strPtr(v string) *string        { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func leadRow(id uuid.UUID, createdAt time.Time, scored bool) []any {
	row := []any{
		id, []byte(`{"full_name":"Ada Lovelace"}`), "Ada Lovelace", "ada@lovelace.dev", "07911 123456", strPtr("+447911123456"),
		"form", "new", (*uuid.UUID)(nil), createdAt, createdAt,
	}
	if !scored {
		return append(row,
			(*int)(nil), (*int)(nil), (*float64)(nil), (*string)(nil), (*string)(nil), []string{},
			(*string)(nil), (*int)(nil), []byte(nil), (*time.Time)(nil),
		)
	}
	return append(row,
		intPtr(55), intPtr(70), floatPtr(8.5), strPtr("Hot"), strPtr("P1"), []string{"Timeline not specified"},
		strPtr("Hot Lead"), intPtr(1), []byte(`{"classification":"Hot Lead"}`), timePtr(createdAt),
	)
}

func TestRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	buyer := []byte(`{"full_name":"Ada Lovelace"}`)

	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), buyer, "Ada Lovelace", "ada@lovelace.dev", "07911 123456", pgxmock.AnyArg(), "form", "new", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, createdAt))

	repo := New(mock)
	lead, err := repo.Create(context.Background(), CreateLeadParams{
		Buyer:     buyer,
		FullName:  "Ada Lovelace",
		Email:     "ada@lovelace.dev",
		Phone:     "07911 123456",
		PhoneE164: strPtr("+447911123456"),
		Source:    "form",
		Status:    "new",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, lead.ID)
	assert.Equal(t, createdAt, lead.CreatedAt)
	assert.Empty(t, lead.AIRiskFlags)
	assert.Nil(t, lead.ScoredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO leads").WillReturnError(errors.New("connection reset"))

	_, err = New(mock).Create(context.Background(), CreateLeadParams{Buyer: []byte(`{}`)})
	assert.ErrorContains(t, err, "insert lead")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, buyer, (.+) FROM leads WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(leadColumns).AddRow(leadRow(id, createdAt, true)...))

	lead, err := New(mock).GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, lead.ID)
	assert.Equal(t, "Ada Lovelace", lead.FullName)
	require.NotNil(t, lead.PriorityLevel)
	assert.Equal(t, 1, *lead.PriorityLevel)
	require.NotNil(t, lead.AIConfidence)
	assert.Equal(t, 8.5, *lead.AIConfidence)
	assert.Equal(t, []string{"Timeline not specified"}, lead.AIRiskFlags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`FROM leads WHERE id = \$1`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err = New(mock).GetByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_FiltersAndPaging(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads WHERE classification = \$1 AND \(full_name ILIKE \$2 OR email ILIKE \$3 OR phone ILIKE \$4\)`).
		WithArgs("Hot Lead", "%ada%", "%ada%", "%ada%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery(`FROM leads WHERE classification = \$1 AND .+ ORDER BY priority_level ASC NULLS LAST, ai_quality_score DESC NULLS LAST, created_at DESC LIMIT 20 OFFSET 40`).
		WithArgs("Hot Lead", "%ada%", "%ada%", "%ada%").
		WillReturnRows(pgxmock.NewRows(leadColumns).AddRow(leadRow(id, createdAt, true)...))

	leads, total, err := New(mock).List(context.Background(), ListParams{
		Classification: "Hot Lead",
		Search:         "ada",
		Limit:          20,
		Offset:         40,
	})

	require.NoError(t, err)
	assert.Equal(t, 41, total)
	require.Len(t, leads, 1)
	assert.Equal(t, id, leads[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildListConditions_EscapesWildcards(t *testing.T) {
	conditions := buildListConditions(ListParams{Search: `50%_off\`})
	require.Len(t, conditions, 1)

	sql, args, err := conditions[0].ToSql()

	require.NoError(t, err)
	assert.Equal(t, "(full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", sql)
	want := `%50\%\_off\\%`
	assert.Equal(t, []any{want, want, want}, args)
}

func TestRepository_List_UnscoredNewestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leads WHERE priority_level = \$1 AND scored_at IS NULL`).
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM leads WHERE priority_level = \$1 AND scored_at IS NULL ORDER BY created_at DESC`).
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows(leadColumns).
			AddRow(leadRow(first, createdAt, false)...).
			AddRow(leadRow(second, createdAt, false)...))

	leads, total, err := New(mock).List(context.Background(), ListParams{
		PriorityLevel: intPtr(3),
		Unscored:      true,
		Sort:          SortNewest,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, leads, 2)
	assert.Nil(t, leads[0].PriorityLevel)
	assert.Nil(t, leads[1].ScoredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateScore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	scoredAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	update := ScoreUpdate{
		QualityScore:         30,
		IntentScore:          10,
		Confidence:           6.5,
		LegacyClassification: "Cold",
		LegacyPriority:       "P4",
		Classification:       "Low Priority",
		PriorityLevel:        5,
		Result:               []byte(`{}`),
		ScoredAt:             scoredAt,
	}

	mock.ExpectExec("UPDATE leads SET").
		WithArgs(id, 30, 10, 6.5, "Cold", "P4", []string{}, "Low Priority", 5, []byte(`{}`), scoredAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE leads SET").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := New(mock)
	require.NoError(t, repo.UpdateScore(context.Background(), id, update))

	err = repo.UpdateScore(context.Background(), uuid.New(), update)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListIDsScoredBefore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cutoff := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`WHERE scored_at IS NULL OR scored_at < \$1`).
		WithArgs(cutoff, 100).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(a).AddRow(b))

	ids, err := New(mock).ListIDsScoredBefore(context.Background(), cutoff, 100)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
