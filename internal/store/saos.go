package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

type SAOsState struct {
	SAOs    []model.SAO
	Loading bool
	Error   string
}

// SAOs holds the user's SAO write-ups with their linked skills.
type SAOs struct {
	env  Env
	repo model.SAOStore

	mu      sync.Mutex
	// gen is bumped by Reset; writes from operations started before are dropped.
	gen     uint64
	state   SAOsState
	changes observe.Notifier[SAOsState]
}

func NewSAOs(env Env, repo model.SAOStore) *SAOs {
	return &SAOs{env: env, repo: repo}
}

func (s *SAOs) State() SAOsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *SAOs) Subscribe(fn func(SAOsState)) func() {
	return s.changes.Subscribe(fn)
}

func (s *SAOs) Reset() {
	s.mu.Lock()
	s.gen++
	s.state = SAOsState{}
	st := s.snapshot()
	s.mu.Unlock()

	s.changes.Publish(st)
}

// Load fetches the user's SAOs, newest first.
func (s *SAOs) Load(ctx context.Context) {
	s.run(ctx, "load saos", func(ctx context.Context, user model.User, gen uint64) error {
		return s.reload(ctx, user, gen)
	})
}

// Create stores a new SAO linked to skills.
func (s *SAOs) Create(ctx context.Context, title, content string, skills []model.Skill) {
	s.run(ctx, "create sao", func(ctx context.Context, user model.User, gen uint64) error {
		if strings.TrimSpace(title) == "" {
			return model.NewValidationError("title", "required")
		}

		id := uuid.New()
		if _, err := s.repo.Create(ctx, model.SAORow{
			ID:      id,
			UserID:  user.ID,
			Title:   title,
			Content: content,
			Links:   model.LinksFor(id, skills),
		}); err != nil {
			return &model.RemoteError{Op: "create sao", Err: err}
		}

		return s.reload(ctx, user, gen)
	})
}

// Update rewrites the SAO and replaces its whole skill set.
func (s *SAOs) Update(ctx context.Context, id uuid.UUID, title, content string, skills []model.Skill) {
	s.run(ctx, "update sao", func(ctx context.Context, user model.User, gen uint64) error {
		if strings.TrimSpace(title) == "" {
			return model.NewValidationError("title", "required")
		}

		if err := s.repo.Update(ctx, model.SAORow{
			ID:      id,
			UserID:  user.ID,
			Title:   title,
			Content: content,
			Links:   model.LinksFor(id, skills),
		}); err != nil {
			return &model.RemoteError{Op: "update sao", Err: err}
		}

		return s.reload(ctx, user, gen)
	})
}

// Delete removes the SAO and drops it from local state.
func (s *SAOs) Delete(ctx context.Context, id uuid.UUID) {
	s.run(ctx, "delete sao", func(ctx context.Context, user model.User, gen uint64) error {
		if err := s.repo.Delete(ctx, user.ID, id); err != nil {
			return &model.RemoteError{Op: "delete sao", Err: err}
		}

		s.set(gen, func(st *SAOsState) {
			kept := st.SAOs[:0:0]
			for _, sao := range st.SAOs {
				if sao.ID != id {
					kept = append(kept, sao)
				}
			}
			st.SAOs = kept
		})
		return nil
	})
}

func (s *SAOs) reload(ctx context.Context, user model.User, gen uint64) error {
	rows, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return &model.RemoteError{Op: "list saos", Err: err}
	}

	saos, err := reconstructSAOs(rows)
	if err != nil {
		return &model.RemoteError{Op: "decode saos", Err: err}
	}

	s.set(gen, func(st *SAOsState) { st.SAOs = saos })
	return nil
}

// reconstructSAOs converts join rows into view models, newest first.
func reconstructSAOs(rows []model.SAORow) ([]model.SAO, error) {
	saos := make([]model.SAO, 0, len(rows))
	for _, row := range rows {
		sao, err := row.ToSAO()
		if err != nil {
			return nil, err
		}
		saos = append(saos, sao)
	}

	sort.SliceStable(saos, func(i, j int) bool {
		return saos[i].CreatedAt.After(saos[j].CreatedAt)
	})
	return saos, nil
}

// run wraps one store operation: loading is set for its duration and its
// error, if any, is recorded instead of returned.
func (s *SAOs) run(ctx context.Context, op string, fn func(context.Context, model.User, uint64) error) {
	gen := s.begin()

	err := s.do(ctx, gen, fn)
	if err != nil {
		s.env.Logger.Error("SAOs store: operation failed", "op", op, "error", err.Error())
	}

	s.set(gen, func(st *SAOsState) {
		st.Loading = false
		st.Error = errorText(err)
	})
}

func (s *SAOs) do(ctx context.Context, gen uint64, fn func(context.Context, model.User, uint64) error) error {
	user, err := s.env.user(ctx)
	if err != nil {
		return err
	}

	cctx, cancel := s.env.call(ctx)
	defer cancel()

	return fn(cctx, user, gen)
}

// begin marks the store loading and returns the generation the operation runs in.
func (s *SAOs) begin() uint64 {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	gen := s.gen
	st := s.snapshot()
	s.mu.Unlock()

	s.changes.Publish(st)
	return gen
}

// set applies fn unless the store was reset after generation gen started.
func (s *SAOs) set(gen uint64, fn func(*SAOsState)) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	fn(&s.state)
	st := s.snapshot()
	s.mu.Unlock()

	s.changes.Publish(st)
}

func (s *SAOs) snapshot() SAOsState {
	st := s.state
	if s.state.SAOs != nil {
		st.SAOs = make([]model.SAO, len(s.state.SAOs))
		for i, sao := range s.state.SAOs {
			sao.Skills = append([]model.Skill(nil), sao.Skills...)
			st.SAOs[i] = sao
		}
	}
	return st
}
