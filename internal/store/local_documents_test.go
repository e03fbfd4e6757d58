package store

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/certdash/internal/mocks"
	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/testutil"
)

// memSlot is an in-memory model.LocalSlot.
type memSlot struct {
	data []byte
}

func (s *memSlot) Read() ([]byte, error) { return s.data, nil }

func (s *memSlot) Write(data []byte) error {
	s.data = append([]byte(nil), data...)
	return nil
}

func TestLocalDocuments_AddComputesSize(t *testing.T) {
	l := NewLocalDocuments(&memSlot{}, testutil.MakeNoopLogger())

	doc, err := l.Add("notes.txt", strings.Repeat("x", 2048), "notes")
	require.NoError(t, err)

	assert.Equal(t, "2.0 KB", doc.Size)
	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestLocalDocuments_PersistsAcrossInstances(t *testing.T) {
	slot := &memSlot{}
	l := NewLocalDocuments(slot, testutil.MakeNoopLogger())

	first, err := l.Add("first", "a", "misc")
	require.NoError(t, err)
	second, err := l.Add("second", "bb", "misc")
	require.NoError(t, err)

	var env struct {
		Documents []map[string]any `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(slot.data, &env))
	require.Len(t, env.Documents, 2)
	assert.Equal(t, "second", env.Documents[0]["name"])

	reopened := NewLocalDocuments(slot, testutil.MakeNoopLogger())
	docs := reopened.List()
	require.Len(t, docs, 2)
	assert.Equal(t, second.ID, docs[0].ID)
	assert.Equal(t, first.ID, docs[1].ID)
}

func TestLocalDocuments_CorruptSlotStartsEmpty(t *testing.T) {
	slot := servermocks.NewLocalSlot(t)
	slot.On("Read").Return([]byte("{not json"), nil).Once()

	l := NewLocalDocuments(slot, testutil.MakeNoopLogger())
	assert.Empty(t, l.List())
}

func TestLocalDocuments_ReadErrorStartsEmpty(t *testing.T) {
	slot := servermocks.NewLocalSlot(t)
	slot.On("Read").Return(nil, errors.New("locked")).Once()

	l := NewLocalDocuments(slot, testutil.MakeNoopLogger())
	assert.Empty(t, l.List())
}

func TestLocalDocuments_WriteFailureKeepsState(t *testing.T) {
	slot := servermocks.NewLocalSlot(t)
	slot.On("Read").Return(nil, nil).Once()
	slot.On("Write", mock.Anything).Return(errors.New("disk full")).Once()

	l := NewLocalDocuments(slot, testutil.MakeNoopLogger())
	var published int
	l.Subscribe(func([]model.LocalDocument) { published++ })

	_, err := l.Add("a", "b", "c")
	require.Error(t, err)
	assert.Empty(t, l.List())
	assert.Zero(t, published)
}

func TestLocalDocuments_Update(t *testing.T) {
	l := NewLocalDocuments(&memSlot{}, testutil.MakeNoopLogger())
	doc, err := l.Add("draft", strings.Repeat("x", 1024), "notes")
	require.NoError(t, err)

	require.NoError(t, l.Update(doc.ID, model.LocalDocumentUpdate{Name: ptr("final")}))
	got, ok := l.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, "final", got.Name)
	assert.Equal(t, "1.0 KB", got.Size)

	require.NoError(t, l.Update(doc.ID, model.LocalDocumentUpdate{Content: ptr(strings.Repeat("y", 512))}))
	got, _ = l.Get(doc.ID)
	assert.Equal(t, "0.5 KB", got.Size)
	assert.Equal(t, "notes", got.Category)

	assert.ErrorIs(t, l.Update("missing", model.LocalDocumentUpdate{Name: ptr("x")}), model.ErrNotFound)
}

func TestLocalDocuments_Delete(t *testing.T) {
	l := NewLocalDocuments(&memSlot{}, testutil.MakeNoopLogger())
	doc, err := l.Add("a", "b", "c")
	require.NoError(t, err)

	require.NoError(t, l.Delete(doc.ID))
	assert.Empty(t, l.List())
	_, ok := l.Get(doc.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, l.Delete(doc.ID), model.ErrNotFound)
}
