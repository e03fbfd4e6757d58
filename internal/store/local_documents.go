package store

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/certdash/internal/logger"
	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

// localEnvelope is the serialized form kept in the slot.
type localEnvelope struct {
	Documents []model.LocalDocument `json:"documents"`
}

// LocalDocuments is the on-device document collection, most recent first.
// It never talks to the remote store and is not cleared on sign-out. Every
// mutation is written to the slot before it becomes visible.
type LocalDocuments struct {
	slot   model.LocalSlot
	logger *logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	docs    []model.LocalDocument
	changes observe.Notifier[[]model.LocalDocument]
}

// NewLocalDocuments loads the collection from slot. Unreadable or corrupt
// data starts an empty collection.
func NewLocalDocuments(slot model.LocalSlot, logger *logger.Logger) *LocalDocuments {
	l := &LocalDocuments{slot: slot, logger: logger, now: time.Now, docs: []model.LocalDocument{}}

	data, err := slot.Read()
	if err != nil {
		logger.Warn("Local documents: failed to read slot", "error", err.Error())
		return l
	}
	if len(data) == 0 {
		return l
	}

	var env localEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Warn("Local documents: ignoring corrupt slot", "error", err.Error())
		return l
	}
	if env.Documents != nil {
		l.docs = env.Documents
	}
	return l
}

// List returns a copy of the collection.
func (l *LocalDocuments) List() []model.LocalDocument {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.docs)
}

func (l *LocalDocuments) Get(id string) (model.LocalDocument, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return model.LocalDocument{}, false
	}
	return l.docs[i], true
}

func (l *LocalDocuments) Subscribe(fn func([]model.LocalDocument)) func() {
	return l.changes.Subscribe(fn)
}

// Add prepends a new document and returns it.
func (l *LocalDocuments) Add(name, content, category string) (model.LocalDocument, error) {
	doc := model.LocalDocument{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		Category:  category,
		Size:      model.FormatSize(len(content)),
		CreatedAt: l.now(),
	}

	err := l.commit(func(docs []model.LocalDocument) ([]model.LocalDocument, error) {
		return append([]model.LocalDocument{doc}, docs...), nil
	})
	if err != nil {
		return model.LocalDocument{}, err
	}
	return doc, nil
}

// Update applies the set fields of update. Size is recomputed only when content changes.
func (l *LocalDocuments) Update(id string, update model.LocalDocumentUpdate) error {
	return l.commit(func(docs []model.LocalDocument) ([]model.LocalDocument, error) {
		i := slices.IndexFunc(docs, func(d model.LocalDocument) bool { return d.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("local document %s: %w", id, model.ErrNotFound)
		}

		next := slices.Clone(docs)
		doc := &next[i]
		if update.Name != nil {
			doc.Name = *update.Name
		}
		if update.Category != nil {
			doc.Category = *update.Category
		}
		if update.Content != nil {
			doc.Content = *update.Content
			doc.Size = model.FormatSize(len(*update.Content))
		}
		return next, nil
	})
}

func (l *LocalDocuments) Delete(id string) error {
	return l.commit(func(docs []model.LocalDocument) ([]model.LocalDocument, error) {
		i := slices.IndexFunc(docs, func(d model.LocalDocument) bool { return d.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("local document %s: %w", id, model.ErrNotFound)
		}
		return slices.Delete(slices.Clone(docs), i, i+1), nil
	})
}

// commit computes the next collection, writes it through and only then swaps it in.
func (l *LocalDocuments) commit(fn func([]model.LocalDocument) ([]model.LocalDocument, error)) error {
	l.mu.Lock()
	next, err := fn(l.docs)
	if err != nil {
		l.mu.Unlock()
		return err
	}

	data, err := json.Marshal(localEnvelope{Documents: next})
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to encode local documents: %w", err)
	}
	if err := l.slot.Write(data); err != nil {
		l.mu.Unlock()
		l.logger.Error("Local documents: failed to persist", "error", err.Error())
		return fmt.Errorf("failed to persist local documents: %w", err)
	}

	l.docs = next
	published := slices.Clone(next)
	l.mu.Unlock()

	l.changes.Publish(published)
	return nil
}

func (l *LocalDocuments) index(id string) int {
	return slices.IndexFunc(l.docs, func(d model.LocalDocument) bool { return d.ID == id })
}
