package calibstore

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertExecutesExpectedQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO calibration_labels").
		WithArgs("r1|r2", 0.91, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := New(db)
	err = s.Upsert(context.Background(), LabeledPair{PairID: "r1|r2", PMatch: 0.91, IsMatch: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAllScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"pair_id", "p_match", "is_match"}).
		AddRow("r1|r2", 0.91, 1).
		AddRow("r3|r4", 0.12, 0)
	mock.ExpectQuery("SELECT pair_id, p_match, is_match FROM calibration_labels").WillReturnRows(rows)

	s := New(db)
	out, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "r1|r2", out[0].PairID)
	assert.True(t, out[0].IsMatch)
	assert.False(t, out[1].IsMatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}
