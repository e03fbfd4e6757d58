package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

type DocumentsState struct {
	Documents []model.Document
	Loading   bool
	Error     string
}

// Documents holds the user's supporting documents. Files live in blob
// storage under "<user id>/<random name><ext>"; rows reference their public URL.
type Documents struct {
	env   Env
	repo  model.DocumentStore
	blobs model.BlobStorage

	mu      sync.Mutex
	gen     uint64
	state   DocumentsState
	changes observe.Notifier[DocumentsState]
}

func NewDocuments(env Env, repo model.DocumentStore, blobs model.BlobStorage) *Documents {
	return &Documents{env: env, repo: repo, blobs: blobs}
}

func (d *Documents) State() DocumentsState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Documents) Subscribe(fn func(DocumentsState)) func() {
	return d.changes.Subscribe(fn)
}

// Reset clears the store. Operations still in flight no longer touch it.
func (d *Documents) Reset() {
	d.mu.Lock()
	d.gen++
	d.state = DocumentsState{}
	d.mu.Unlock()

	d.changes.Publish(DocumentsState{})
}

func (d *Documents) Load(ctx context.Context) {
	_ = d.run(ctx, "load documents", func(ctx context.Context, user model.User, gen uint64) error {
		return d.reload(ctx, user, gen)
	})
}

// Add uploads file, when given, then inserts the document row. Unlike the
// other operations the error is returned as well as recorded. No row is
// created when the upload fails. Once the row exists Add succeeds; a failed
// reload afterwards is only recorded in the state.
func (d *Documents) Add(ctx context.Context, doc model.NewDocument, file *model.Upload) error {
	return d.run(ctx, "add document", func(ctx context.Context, user model.User, gen uint64) error {
		if strings.TrimSpace(doc.Title) == "" {
			return model.NewValidationError("title", "required")
		}
		if doc.Status == "" {
			doc.Status = model.DocumentDraft
		}
		if !doc.Status.Valid() {
			return model.NewValidationError("status", fmt.Sprintf("unknown status %q", doc.Status))
		}

		row := model.Document{
			ID:                  uuid.New(),
			UserID:              user.ID,
			Title:               doc.Title,
			Description:         doc.Description,
			Category:            doc.Category,
			Status:              doc.Status,
			RelatedSkillID:      doc.RelatedSkillID,
			RelatedExperienceID: doc.RelatedExperienceID,
		}

		var blobPath string
		if file != nil {
			blobPath = user.ID.String() + "/" + uuid.NewString() + filepath.Ext(file.Name)
			if err := d.blobs.Upload(ctx, blobPath, file.Reader, file.Size, file.ContentType); err != nil {
				return &model.StorageError{Op: "upload document file", Err: err}
			}

			url := d.blobs.PublicURL(blobPath)
			row.FileURL = &url
			if file.ContentType != "" {
				ct := file.ContentType
				row.FileType = &ct
			}
			size := file.Size
			row.FileSize = &size
		}

		saved, err := d.repo.Create(ctx, row)
		if err != nil {
			if blobPath != "" {
				if rmErr := d.blobs.Remove(ctx, blobPath); rmErr != nil {
					d.env.Logger.Error("Documents store: failed to remove orphaned file",
						"path", blobPath,
						"error", rmErr.Error())
				}
			}
			return &model.RemoteError{Op: "create document", Err: err}
		}

		d.set(gen, func(st *DocumentsState) {
			st.Documents = append([]model.Document{saved}, st.Documents...)
		})

		if err := d.reload(ctx, user, gen); err != nil {
			return &refreshError{err: err}
		}
		return nil
	})
}

// Update patches document metadata and replaces the local row with the stored one.
func (d *Documents) Update(ctx context.Context, id uuid.UUID, update model.DocumentUpdate) {
	_ = d.run(ctx, "update document", func(ctx context.Context, user model.User, gen uint64) error {
		if update.Empty() {
			return nil
		}
		if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
			return model.NewValidationError("title", "required")
		}
		if update.Status != nil && !update.Status.Valid() {
			return model.NewValidationError("status", fmt.Sprintf("unknown status %q", *update.Status))
		}

		saved, err := d.repo.Update(ctx, user.ID, id, update)
		if err != nil {
			return &model.RemoteError{Op: "update document", Err: err}
		}

		d.set(gen, func(st *DocumentsState) {
			for i := range st.Documents {
				if st.Documents[i].ID == id {
					st.Documents[i] = saved
				}
			}
		})
		return nil
	})
}

// Delete removes the document's file, if any, and its row. A file that
// cannot be removed does not block the row deletion.
func (d *Documents) Delete(ctx context.Context, id uuid.UUID) {
	_ = d.run(ctx, "delete document", func(ctx context.Context, user model.User, gen uint64) error {
		if doc, ok := d.find(id); ok && doc.FileURL != nil {
			blobPath := user.ID.String() + "/" + path.Base(*doc.FileURL)
			if err := d.blobs.Remove(ctx, blobPath); err != nil {
				d.env.Logger.Error("Documents store: failed to remove file",
					"path", blobPath,
					"error", err.Error())
			}
		}

		if err := d.repo.Delete(ctx, user.ID, id); err != nil {
			return &model.RemoteError{Op: "delete document", Err: err}
		}

		d.set(gen, func(st *DocumentsState) {
			kept := st.Documents[:0:0]
			for _, doc := range st.Documents {
				if doc.ID != id {
					kept = append(kept, doc)
				}
			}
			st.Documents = kept
		})
		return nil
	})
}

// SignedURL returns a time-limited download link for the document's file.
func (d *Documents) SignedURL(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, error) {
	user, err := d.env.user(ctx)
	if err != nil {
		return "", err
	}

	doc, ok := d.find(id)
	if !ok {
		return "", model.ErrNotFound
	}
	if doc.FileURL == nil {
		return "", model.NewValidationError("document", "has no file")
	}

	cctx, cancel := d.env.call(ctx)
	defer cancel()

	url, err := d.blobs.SignedURL(cctx, user.ID.String()+"/"+path.Base(*doc.FileURL), ttl)
	if err != nil {
		return "", &model.StorageError{Op: "sign document url", Err: err}
	}
	return url, nil
}

func (d *Documents) reload(ctx context.Context, user model.User, gen uint64) error {
	docs, err := d.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return &model.RemoteError{Op: "list documents", Err: err}
	}
	if docs == nil {
		docs = []model.Document{}
	}

	d.set(gen, func(st *DocumentsState) { st.Documents = docs })
	return nil
}

func (d *Documents) find(id uuid.UUID) (model.Document, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range d.state.Documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return model.Document{}, false
}

// refreshError marks a mutation that was stored but whose follow-up reload failed.
type refreshError struct {
	err error
}

func (e *refreshError) Error() string { return e.err.Error() }

func (e *refreshError) Unwrap() error { return e.err }

func (d *Documents) run(ctx context.Context, op string, fn func(context.Context, model.User, uint64) error) error {
	d.mu.Lock()
	d.state.Loading = true
	d.state.Error = ""
	gen := d.gen
	st := d.snapshot()
	d.mu.Unlock()
	d.changes.Publish(st)

	err := func() error {
		user, err := d.env.user(ctx)
		if err != nil {
			return err
		}
		cctx, cancel := d.env.call(ctx)
		defer cancel()
		return fn(cctx, user, gen)
	}()
	if err != nil {
		d.env.Logger.Error("Documents store: operation failed", "op", op, "error", err.Error())
	}

	d.set(gen, func(st *DocumentsState) {
		st.Loading = false
		st.Error = errorText(err)
	})

	var rerr *refreshError
	if errors.As(err, &rerr) {
		return nil
	}
	return err
}

// set applies fn only while no Reset happened since gen.
func (d *Documents) set(gen uint64, fn func(*DocumentsState)) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	fn(&d.state)
	st := d.snapshot()
	d.mu.Unlock()

	d.changes.Publish(st)
}

func (d *Documents) snapshot() DocumentsState {
	st := d.state
	if d.state.Documents != nil {
		st.Documents = append(make([]model.Document, 0, len(d.state.Documents)), d.state.Documents...)
	}
	return st
}
