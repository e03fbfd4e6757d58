package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/certdash/internal/mocks"
	"github.com/dtroode/certdash/internal/model"
)

const publicBase = "https://files.example.com/documents/"

func userPath(name string) string {
	return testUser.ID.String() + "/" + name
}

func storedDocument(fileURL *string) model.Document {
	return model.Document{
		ID:       uuid.New(),
		UserID:   testUser.ID,
		Title:    "Transcript",
		Category: "education",
		Status:   model.DocumentDraft,
		FileURL:  fileURL,
	}
}

func TestDocuments_Add_WithFile(t *testing.T) {
	repo := servermocks.NewDocumentStore(t)
	blobs := servermocks.NewBlobStorage(t)

	var uploaded string
	blobs.On("Upload", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, testUser.ID.String()+"/") && strings.HasSuffix(p, ".pdf")
	}), mock.Anything, int64(2048), "application/pdf").
		Run(func(args mock.Arguments) { uploaded = args.String(1) }).
		Return(nil).Once()
	blobs.On("PublicURL", mock.Anything).Return(publicBase + "stub").Once()

	var created model.Document
	repo.On("Create", mock.Anything, mock.MatchedBy(func(d model.Document) bool {
		return d.UserID == testUser.ID && d.Title == "Transcript" && d.Status == model.DocumentDraft &&
			d.FileURL != nil && d.FileSize != nil && *d.FileSize == 2048 &&
			d.FileType != nil && *d.FileType == "application/pdf"
	})).Return(func(_ context.Context, d model.Document) model.Document {
		d.CreatedAt = time.Now()
		created = d
		return d
	}, nil).Once()
	repo.On("ListByUser", mock.Anything, testUser.ID).Return([]model.Document{storedDocument(ptr(publicBase + "stub"))}, nil).Once()

	d := NewDocuments(newEnv(t), repo, blobs)
	err := d.Add(t.Context(), model.NewDocument{Title: "Transcript", Category: "education"}, &model.Upload{
		Name:        "transcript.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		Reader:      strings.NewReader(strings.Repeat("x", 2048)),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, uploaded)
	assert.Equal(t, publicBase+"stub", *created.FileURL)

	st := d.State()
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
	assert.Len(t, st.Documents, 1)
}

func TestDocuments_Add_UploadFailureCreatesNoRow(t *testing.T) {
	repo := servermocks.NewDocumentStore(t)
	blobs := servermocks.NewBlobStorage(t)
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("bucket full")).Once()

	d := NewDocuments(newEnv(t), repo, blobs)
	err := d.Add(t.Context(), model.NewDocument{Title: "Transcript"}, &model.Upload{
		Name:   "a.png",
		Size:   1,
		Reader: strings.NewReader("x"),
	})

	var serr *model.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "upload document file: bucket full", d.State().Error)
}

func TestDocuments_Add_CreateFailureRemovesFile(t *testing.T) {
	repo := servermocks.NewDocumentStore(t)
	blobs := servermocks.NewBlobStorage(t)

	var uploaded string
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploaded = args.String(1) }).
		Return(nil).Once()
	blobs.On("PublicURL", mock.Anything).Return(publicBase + "x.png").Once()
	blobs.On("Remove", mock.Anything, mock.MatchedBy(func(p string) bool { return p == uploaded })).
		Return(nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(model.Document{}, errors.New("constraint")).Once()

	d := NewDocuments(newEnv(t), repo, blobs)
	err := d.Add(t.Context(), model.NewDocument{Title: "Transcript"}, &model.Upload{
		Name:   "x.png",
		Size:   1,
		Reader: strings.NewReader("x"),
	})

	var rerr *model.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Empty(t, d.State().Documents)
}

func TestDocuments_Add_Validation(t *testing.T) {
	d := NewDocuments(newEnv(t), servermocks.NewDocumentStore(t), servermocks.NewBlobStorage(t))

	var verr *model.ValidationError
	assert.ErrorAs(t, d.Add(t.Context(), model.NewDocument{Title: ""}, nil), &verr)
	assert.ErrorAs(t, d.Add(t.Context(), model.NewDocument{Title: "T", Status: "lost"}, nil), &verr)
}

func TestDocuments_Add_WithoutFile_ReloadFailureIsRecorded(t *testing.T) {
	repo := servermocks.NewDocumentStore(t)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(d model.Document) bool {
		return d.FileURL == nil && d.FileSize == nil && d.Status == model.DocumentSubmitted
	})).Return(func(_ context.Context, d model.Document) model.Document { return d }, nil).Once()
	repo.On("ListByUser", mock.Anything, testUser.ID).Return(nil, errors.New("offline")).Once()

	d := NewDocuments(newEnv(t), repo, servermocks.NewBlobStorage(t))
	err := d.Add(t.Context(), model.NewDocument{Title: "Letter", Status: model.DocumentSubmitted}, nil)

	require.NoError(t, err)
	st := d.State()
	require.Len(t, st.Documents, 1)
	assert.Equal(t, "Letter", st.Documents[0].Title)
	assert.Equal(t, "list documents: offline", st.Error)
}

func TestDocuments_Delete(t *testing.T) {
	tests := []struct {
		name    string
		fileURL *string
		removed string
	}{
		{name: "with file", fileURL: ptr(publicBase + userPath("abc.pdf")), removed: userPath("abc.pdf")},
		{name: "without file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := storedDocument(tt.fileURL)
			repo := servermocks.NewDocumentStore(t)
			blobs := servermocks.NewBlobStorage(t)
			repo.On("ListByUser", mock.Anything, testUser.ID).Return([]model.Document{doc}, nil).Once()
			repo.On("Delete", mock.Anything, testUser.ID, doc.ID).Return(nil).Once()
			if tt.removed != "" {
				blobs.On("Remove", mock.Anything, tt.removed).Return(errors.New("already gone")).Once()
			}

			d := NewDocuments(newEnv(t), repo, blobs)
			d.Load(t.Context())
			d.Delete(t.Context(), doc.ID)

			st := d.State()
			assert.Empty(t, st.Error)
			assert.Empty(t, st.Documents)
		})
	}
}

func TestDocuments_Update(t *testing.T) {
	doc := storedDocument(nil)
	saved := doc
	saved.Status = model.DocumentApproved
	update := model.DocumentUpdate{Status: ptr(model.DocumentApproved)}

	repo := servermocks.NewDocumentStore(t)
	repo.On("ListByUser", mock.Anything, testUser.ID).Return([]model.Document{doc}, nil).Once()
	repo.On("Update", mock.Anything, testUser.ID, doc.ID, update).Return(saved, nil).Once()

	d := NewDocuments(newEnv(t), repo, servermocks.NewBlobStorage(t))
	d.Load(t.Context())
	d.Update(t.Context(), doc.ID, model.DocumentUpdate{})
	d.Update(t.Context(), doc.ID, update)

	st := d.State()
	assert.Empty(t, st.Error)
	assert.Equal(t, model.DocumentApproved, st.Documents[0].Status)
}

func TestDocuments_SignedURL(t *testing.T) {
	withFile := storedDocument(ptr(publicBase + userPath("abc.pdf")))
	withoutFile := storedDocument(nil)

	repo := servermocks.NewDocumentStore(t)
	blobs := servermocks.NewBlobStorage(t)
	repo.On("ListByUser", mock.Anything, testUser.ID).Return([]model.Document{withFile, withoutFile}, nil).Once()
	blobs.On("SignedURL", mock.Anything, userPath("abc.pdf"), time.Minute).Return("https://signed", nil).Once()

	d := NewDocuments(newEnv(t), repo, blobs)
	d.Load(t.Context())

	url, err := d.SignedURL(t.Context(), withFile.ID, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)

	_, err = d.SignedURL(t.Context(), withoutFile.ID, time.Minute)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = d.SignedURL(t.Context(), uuid.New(), time.Minute)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDocuments_ResetDuringLoadDropsResponse(t *testing.T) {
	g := newGate()
	repo := servermocks.NewDocumentStore(t)
	repo.On("ListByUser", mock.Anything, testUser.ID).Run(g.hold).
		Return([]model.Document{storedDocument(nil)}, nil).Once()

	d := NewDocuments(newEnv(t), repo, servermocks.NewBlobStorage(t))
	resetMidCall(t, g, func() { d.Load(t.Context()) }, d.Reset)

	st := d.State()
	assert.Empty(t, st.Documents)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
}
