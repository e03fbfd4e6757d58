package localstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSlot(t *testing.T) (*Slot, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS slots").WillReturnResult(sqlmock.NewResult(0, 0))

	slot, err := NewSlot(context.Background(), db, "local-documents-storage")
	require.NoError(t, err)
	return slot, mock
}

func TestSlot_Read(t *testing.T) {
	t.Run("stored value", func(t *testing.T) {
		slot, mock := newMockSlot(t)
		mock.ExpectQuery("SELECT value FROM slots WHERE name = ?").
			WithArgs("local-documents-storage").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"documents":[]}`)))

		data, err := slot.Read()
		require.NoError(t, err)
		assert.Equal(t, `{"documents":[]}`, string(data))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("never written", func(t *testing.T) {
		slot, mock := newMockSlot(t)
		mock.ExpectQuery("SELECT value FROM slots").WillReturnError(sql.ErrNoRows)

		data, err := slot.Read()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("query error", func(t *testing.T) {
		slot, mock := newMockSlot(t)
		mock.ExpectQuery("SELECT value FROM slots").WillReturnError(errors.New("disk I/O error"))

		_, err := slot.Read()
		assert.ErrorContains(t, err, "failed to read slot local-documents-storage")
	})
}

func TestSlot_Write(t *testing.T) {
	slot, mock := newMockSlot(t)
	mock.ExpectExec("INSERT INTO slots").
		WithArgs("local-documents-storage", []byte("payload")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, slot.Write([]byte("payload")))
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec("INSERT INTO slots").WillReturnError(errors.New("readonly"))
	assert.ErrorContains(t, slot.Write([]byte("x")), "failed to write slot")
}

func TestNewSlot_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("locked"))

	_, err = NewSlot(context.Background(), db, "x")
	assert.ErrorContains(t, err, "failed to create slots table")
}

func TestOpen_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "local.db")

	slot, err := Open(path, "notes")
	require.NoError(t, err)

	data, err := slot.Read()
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, slot.Write([]byte("first")))
	require.NoError(t, slot.Write([]byte("second")))
	require.NoError(t, slot.Close())

	reopened, err := Open(path, "notes")
	require.NoError(t, err)
	defer reopened.Close()

	data, err = reopened.Read()
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	other, err := NewSlot(context.Background(), reopened.db, "other")
	require.NoError(t, err)
	data, err = other.Read()
	require.NoError(t, err)
	assert.Nil(t, data)
}
