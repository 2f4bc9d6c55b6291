package reference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/refdash/internal/testutil"
	"github.com/leapstack-labs/refdash/pkg/adapter"
	"github.com/leapstack-labs/refdash/pkg/core"
)

func newMockRepository(t *testing.T, cached []QueryKind) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	exec := &adapter.BaseSQLAdapter{DB: db}
	repo := NewRepository(exec, Config{
		Table:         "refs",
		CacheTTL:      time.Minute,
		CachedQueries: cached,
		Logger:        testutil.NewTestLogger(t),
	})
	return repo, mock
}

func TestRepository_StatusIsCachedByDefault(t *testing.T) {
	repo, mock := newMockRepository(t, nil)
	ctx := context.Background()

	mock.ExpectQuery(repo.Queries().Status()).
		WillReturnRows(sqlmock.NewRows([]string{ColSystem, ColExistsToday}).
			AddRow("A", true).
			AddRow("B", false))

	for i := 0; i < 3; i++ {
		rows, err := repo.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, []core.StatusRow{
			{System: "A", RecordExistsToday: true},
			{System: "B", RecordExistsToday: false},
		}, rows)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SystemsNotCachedByDefault(t *testing.T) {
	repo, mock := newMockRepository(t, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(repo.Queries().Systems()).
			WillReturnRows(sqlmock.NewRows([]string{ColSystem}).AddRow("A").AddRow("B"))
	}

	for i := 0; i < 2; i++ {
		systems, err := repo.Systems(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, systems)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CachedQueriesConfigurable(t *testing.T) {
	repo, mock := newMockRepository(t, []QueryKind{KindSystems})
	ctx := context.Background()

	mock.ExpectQuery(repo.Queries().Systems()).
		WillReturnRows(sqlmock.NewRows([]string{ColSystem}).AddRow("A"))
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(repo.Queries().Status()).
			WillReturnRows(sqlmock.NewRows([]string{ColSystem, ColExistsToday}).AddRow("A", false))
	}

	for i := 0; i < 2; i++ {
		_, err := repo.Systems(ctx)
		require.NoError(t, err)
		_, err = repo.Status(ctx)
		require.NoError(t, err)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Inspect(t *testing.T) {
	repo, mock := newMockRepository(t, nil)
	ctx := context.Background()
	f := core.Filter{System: "Spectrometer_A", Channel: 1, From: day("2024-01-01"), To: day("2024-01-07")}

	sql, _ := repo.Queries().Measurements(f)
	mock.ExpectQuery(sql).
		WithArgs("2024-01-01", "2024-01-07", 1, "Spectrometer_A").
		WillReturnRows(sqlmock.NewRows(MeasurementColumns).
			AddRow("Spectrometer_A", 1, "2024-01-05", "op", 100.0, 5, uuidFor(2),
				`[{"Wavelengths":[400,401,402],"Counts":[1,2,3]}]`).
			AddRow("Spectrometer_A", 1, "2024-01-02", "op", 100.0, 5, uuidFor(1),
				`[{"Wavelengths":[400,401,402],"Counts":[4,5,6]}]`))

	got, err := repo.Inspect(ctx, f)
	require.NoError(t, err)

	assert.Equal(t, f, got.Filter)
	require.Len(t, got.Measurements, 2)
	require.Len(t, got.Samples, 6)
	assert.Equal(t, "2024-01-05 (2)", got.Samples[0].DateMeasurement)
	assert.Equal(t, "2024-01-02 (1)", got.Samples[3].DateMeasurement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InspectShapeError(t *testing.T) {
	repo, mock := newMockRepository(t, nil)
	f := core.Filter{System: "S", Channel: 2, From: day("2024-01-01"), To: day("2024-01-07")}

	sql, _ := repo.Queries().Measurements(f)
	mock.ExpectQuery(sql).
		WillReturnRows(sqlmock.NewRows(MeasurementColumns).
			AddRow("S", 2, "2024-01-05", "op", 1, 1, uuidFor(1), `[]`))

	_, err := repo.Inspect(context.Background(), f)
	assert.ErrorIs(t, err, core.ErrSpectraShape)
}

func TestRepository_InvalidChannel(t *testing.T) {
	repo, _ := newMockRepository(t, nil)
	_, err := repo.Measurements(context.Background(), core.Filter{Channel: 7})
	assert.ErrorIs(t, err, core.ErrInvalidChannel)
}

func TestRepository_QueryErrorPropagates(t *testing.T) {
	repo, mock := newMockRepository(t, nil)
	mock.ExpectQuery(repo.Queries().Systems()).WillReturnError(errors.New("credentials expired"))

	_, err := repo.Systems(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "systems query")
	assert.Contains(t, err.Error(), "credentials expired")
}
