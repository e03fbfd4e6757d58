package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

type ProgressState struct {
	model.ProgressSnapshot
	Loading bool
}

// Progress derives the overall completion metric from the skills store and
// the two experience counts. A snapshot is published whole or not at all;
// failures are logged and keep the previous snapshot.
type Progress struct {
	env         Env
	skills      *Skills
	experiences model.ExperienceCounter
	now         func() time.Time

	mu      sync.Mutex
	gen     uint64
	state   ProgressState
	changes observe.Notifier[ProgressState]
}

func NewProgress(env Env, skills *Skills, experiences model.ExperienceCounter) *Progress {
	return &Progress{env: env, skills: skills, experiences: experiences, now: time.Now}
}

func (p *Progress) Snapshot() ProgressState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Progress) Subscribe(fn func(ProgressState)) func() {
	return p.changes.Subscribe(fn)
}

// Reset clears every count back to nil. A snapshot still being computed is dropped.
func (p *Progress) Reset() {
	p.mu.Lock()
	p.gen++
	p.state = ProgressState{}
	p.mu.Unlock()

	p.changes.Publish(ProgressState{})
}

// UpdateProgress reloads skills, fetches both experience counts and publishes
// a fresh snapshot.
func (p *Progress) UpdateProgress(ctx context.Context) {
	p.mu.Lock()
	p.state.Loading = true
	gen := p.gen
	st := p.state
	p.mu.Unlock()
	p.changes.Publish(st)

	snapshot, err := p.compute(ctx)
	if err != nil {
		p.env.Logger.Error("Progress store: failed to update progress", "error", err.Error())
		p.set(gen, func(st *ProgressState) { st.Loading = false })
		return
	}

	p.set(gen, func(st *ProgressState) {
		st.ProgressSnapshot = snapshot
		st.Loading = false
	})
}

func (p *Progress) compute(ctx context.Context) (model.ProgressSnapshot, error) {
	if err := p.skills.refresh(ctx); err != nil {
		return model.ProgressSnapshot{}, err
	}
	completed := p.skills.CompletedCount()

	user, err := p.env.user(ctx)
	if err != nil {
		return model.ProgressSnapshot{}, err
	}

	cctx, cancel := p.env.call(ctx)
	defer cancel()

	var documented, approved int
	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error {
		n, err := p.experiences.CountDocumented(gctx, user.ID)
		if err != nil {
			return &model.RemoteError{Op: "count documented experiences", Err: err}
		}
		documented = n
		return nil
	})
	g.Go(func() error {
		n, err := p.experiences.CountApproved(gctx, user.ID)
		if err != nil {
			return &model.RemoteError{Op: "count approved experiences", Err: err}
		}
		approved = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.ProgressSnapshot{}, err
	}

	overall := model.OverallProgress(completed, documented, approved)
	return model.ProgressSnapshot{
		OverallProgress:       &overall,
		CompletedSkills:       &completed,
		DocumentedExperiences: &documented,
		SupervisorApprovals:   &approved,
		LastUpdated:           p.now(),
	}, nil
}

func (p *Progress) set(gen uint64, fn func(*ProgressState)) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	fn(&p.state)
	st := p.state
	p.mu.Unlock()

	p.changes.Publish(st)
}
