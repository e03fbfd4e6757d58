package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

type DeadlinesState struct {
	Deadlines []model.Deadline
	Loading   bool
	Error     string
}

// Deadlines holds the user's deadlines, soonest first. Every mutation is
// followed by a full reload.
type Deadlines struct {
	env  Env
	repo model.DeadlineStore

	mu      sync.Mutex
	gen     uint64
	state   DeadlinesState
	changes observe.Notifier[DeadlinesState]
}

func NewDeadlines(env Env, repo model.DeadlineStore) *Deadlines {
	return &Deadlines{env: env, repo: repo}
}

func (d *Deadlines) State() DeadlinesState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Deadlines) Subscribe(fn func(DeadlinesState)) func() {
	return d.changes.Subscribe(fn)
}

// Reset clears the store. Operations still in flight no longer touch it.
func (d *Deadlines) Reset() {
	d.mu.Lock()
	d.gen++
	d.state = DeadlinesState{}
	d.mu.Unlock()

	d.changes.Publish(DeadlinesState{})
}

func (d *Deadlines) Load(ctx context.Context) {
	d.run(ctx, "load deadlines", d.reload)
}

func (d *Deadlines) Add(ctx context.Context, nd model.NewDeadline) {
	d.run(ctx, "add deadline", func(ctx context.Context, user model.User, gen uint64) error {
		if err := validateDeadline(&nd.Title, &nd.Priority, &nd.Type); err != nil {
			return err
		}

		if err := d.repo.Create(ctx, model.Deadline{
			ID:        uuid.New(),
			UserID:    user.ID,
			Title:     nd.Title,
			Date:      nd.Date,
			Priority:  nd.Priority,
			Type:      nd.Type,
			RelatedID: nd.RelatedID,
		}); err != nil {
			return &model.RemoteError{Op: "create deadline", Err: err}
		}

		return d.reload(ctx, user, gen)
	})
}

func (d *Deadlines) Update(ctx context.Context, id uuid.UUID, update model.DeadlineUpdate) {
	d.run(ctx, "update deadline", func(ctx context.Context, user model.User, gen uint64) error {
		if err := validateDeadline(update.Title, update.Priority, update.Type); err != nil {
			return err
		}

		if err := d.repo.Update(ctx, user.ID, id, update); err != nil {
			return &model.RemoteError{Op: "update deadline", Err: err}
		}

		return d.reload(ctx, user, gen)
	})
}

func (d *Deadlines) Delete(ctx context.Context, id uuid.UUID) {
	d.run(ctx, "delete deadline", func(ctx context.Context, user model.User, gen uint64) error {
		if err := d.repo.Delete(ctx, user.ID, id); err != nil {
			return &model.RemoteError{Op: "delete deadline", Err: err}
		}

		return d.reload(ctx, user, gen)
	})
}

func (d *Deadlines) reload(ctx context.Context, user model.User, gen uint64) error {
	deadlines, err := d.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return &model.RemoteError{Op: "list deadlines", Err: err}
	}
	if deadlines == nil {
		deadlines = []model.Deadline{}
	}

	d.set(gen, func(st *DeadlinesState) { st.Deadlines = deadlines })
	return nil
}

// validateDeadline checks the fields that are set.
func validateDeadline(title *string, priority *model.DeadlinePriority, typ *model.DeadlineType) error {
	if title != nil && strings.TrimSpace(*title) == "" {
		return model.NewValidationError("title", "required")
	}
	if priority != nil && !priority.Valid() {
		return model.NewValidationError("priority", fmt.Sprintf("unknown priority %q", *priority))
	}
	if typ != nil && !typ.Valid() {
		return model.NewValidationError("type", fmt.Sprintf("unknown type %q", *typ))
	}
	return nil
}

func (d *Deadlines) run(ctx context.Context, op string, fn func(context.Context, model.User, uint64) error) {
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
		d.env.Logger.Error("Deadlines store: operation failed", "op", op, "error", err.Error())
	}

	d.set(gen, func(st *DeadlinesState) {
		st.Loading = false
		st.Error = errorText(err)
	})
}

// set applies fn only while no Reset happened since gen.
func (d *Deadlines) set(gen uint64, fn func(*DeadlinesState)) {
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

func (d *Deadlines) snapshot() DeadlinesState {
	st := d.state
	if d.state.Deadlines != nil {
		st.Deadlines = append(make([]model.Deadline, 0, len(d.state.Deadlines)), d.state.Deadlines...)
	}
	return st
}
