package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlift/blockload/internal/testutil"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "defaults fill host, port and sslmode",
			cfg:  Config{Name: "training"},
			want: "host=localhost port=5432 dbname=training sslmode=disable",
		},
		{
			name: "full config",
			cfg: Config{
				Host: "db.internal", Port: 5433, Name: "training",
				User: "lifter", Password: "secret", SSLMode: "require",
			},
			want: "host=db.internal port=5433 dbname=training sslmode=require user=lifter password=secret",
		},
		{
			name: "password omitted when empty",
			cfg:  Config{Name: "training", User: "lifter"},
			want: "host=localhost port=5432 dbname=training sslmode=disable user=lifter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestBlockExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db, testutil.NewTestLogger(t))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Block 1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Block 2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := s.BlockExists(context.Background(), "Block 1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.BlockExists(context.Background(), "Block 2")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db, testutil.NewTestLogger(t))

	contiguityCols := []string{"id", "count", "min", "max", "distinct"}
	mock.ExpectQuery("FROM exercise_sets").
		WillReturnRows(sqlmock.NewRows(contiguityCols).AddRow(42, 3, 2, 4, 3))
	mock.ExpectQuery("FROM training_days").
		WillReturnRows(sqlmock.NewRows(contiguityCols))
	mock.ExpectQuery("LEFT JOIN exercise_sets").
		WillReturnRows(sqlmock.NewRows([]string{"day_exercise_id"}).AddRow(7))

	violations, err := s.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, violations, 2)
	assert.Equal(t, "set_number contiguity", violations[0].Check)
	assert.Contains(t, violations[0].Detail, "id=42")
	assert.Equal(t, "day_exercise has sets", violations[1].Check)
	assert.Contains(t, violations[1].Detail, "day_exercise_id=7")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateClean(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db, testutil.NewTestLogger(t))

	contiguityCols := []string{"id", "count", "min", "max", "distinct"}
	mock.ExpectQuery("FROM exercise_sets").WillReturnRows(sqlmock.NewRows(contiguityCols))
	mock.ExpectQuery("FROM training_days").WillReturnRows(sqlmock.NewRows(contiguityCols))
	mock.ExpectQuery("LEFT JOIN exercise_sets").WillReturnRows(sqlmock.NewRows([]string{"day_exercise_id"}))

	violations, err := s.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
	require.NoError(t, mock.ExpectationsWereMet())
}
