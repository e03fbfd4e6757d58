package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtroode/certdash/internal/catalog"
	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

// SkillsState is the published state of the skills store.
type SkillsState struct {
	Categories []model.Category
	Loading    bool
	Error      string
}

// pendingRank is an optimistic rank not yet confirmed by the remote store.
type pendingRank struct {
	seq  uint64
	rank *int
}

// Skills mirrors the user's skill ranks over the static catalog.
//
// A rank edit moves the skill from committed to pending and applies the new
// value locally at once. Writes of the same skill are serialized; an edit
// superseded by a newer one is either skipped before its write or has its
// outcome discarded after it. A failed write drops the pending value and
// reloads from the remote store, falling back to the last committed rank
// when the reload fails too.
type Skills struct {
	env  Env
	repo model.UserSkillStore

	mu        sync.Mutex
	gen       uint64
	state     SkillsState
	seq       uint64
	pending   map[int]pendingRank
	committed map[int]*int
	writeMu   map[int]*sync.Mutex

	writes  sync.WaitGroup
	changes observe.Notifier[SkillsState]
}

func NewSkills(env Env, repo model.UserSkillStore) *Skills {
	return &Skills{
		env:       env,
		repo:      repo,
		state:     SkillsState{Categories: catalog.Categories()},
		pending:   make(map[int]pendingRank),
		committed: make(map[int]*int),
		writeMu:   make(map[int]*sync.Mutex),
	}
}

// State returns a deep copy of the current state.
func (s *Skills) State() SkillsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn for every state transition.
func (s *Skills) Subscribe(fn func(SkillsState)) func() {
	return s.changes.Subscribe(fn)
}

// CompletedCount returns the number of skills with a rank.
func (s *Skills) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.state.Categories {
		for _, sk := range c.Skills {
			if sk.Rank != nil {
				n++
			}
		}
	}
	return n
}

// Reset clears the store to its empty baseline. In-flight loads and writes
// finish but their outcome is discarded.
func (s *Skills) Reset() {
	s.mu.Lock()
	s.gen++
	s.state = SkillsState{}
	s.pending = make(map[int]pendingRank)
	s.committed = make(map[int]*int)
	st := s.snapshot()
	s.mu.Unlock()

	s.changes.Publish(st)
}

// Wait blocks until every rank write started so far has resolved.
func (s *Skills) Wait() {
	s.writes.Wait()
}

// LoadUserSkills fetches the user's records, initializing them on first use,
// and merges them onto the catalog. Failures are recorded in the state.
func (s *Skills) LoadUserSkills(ctx context.Context) {
	_ = s.refresh(ctx)
}

func (s *Skills) refresh(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	gen := s.gen
	st := s.snapshot()
	s.mu.Unlock()
	s.changes.Publish(st)

	records, err := s.fetch(ctx)
	if err != nil {
		s.env.Logger.Error("Skills store: failed to load skills", "error", err.Error())
		s.update(gen, func(st *SkillsState) {
			st.Loading = false
			st.Error = fmt.Sprintf("Failed to load skills: %v", err)
		})
		return err
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil
	}
	categories := catalog.Categories()
	s.committed = make(map[int]*int)
	for _, rec := range records {
		if applyRecord(categories, rec) {
			s.committed[rec.SkillID] = normalizeRank(rec.Rank)
		}
	}
	for skillID, p := range s.pending {
		setRank(categories, skillID, p.rank)
	}
	s.state.Categories = categories
	s.state.Loading = false
	st = s.snapshot()
	s.mu.Unlock()

	s.changes.Publish(st)
	return nil
}

func (s *Skills) fetch(ctx context.Context) ([]model.UserSkillRecord, error) {
	user, err := s.env.user(ctx)
	if err != nil {
		return nil, err
	}

	cctx, cancel := s.env.call(ctx)
	defer cancel()

	records, err := s.repo.ListByUser(cctx, user.ID)
	if err != nil {
		return nil, &model.RemoteError{Op: "list user skills", Err: err}
	}
	if len(records) > 0 {
		return records, nil
	}

	s.env.Logger.Info("Skills store: initializing skills for new user", "user_id", user.ID)

	if err := s.repo.InsertMany(cctx, catalog.InitialRecords(user.ID)); err != nil {
		return nil, &model.RemoteError{Op: "initialize user skills", Err: err}
	}

	records, err = s.repo.ListByUser(cctx, user.ID)
	if err != nil {
		return nil, &model.RemoteError{Op: "list user skills", Err: err}
	}
	return records, nil
}

// UpdateSkillRank applies rank to the skill locally and writes it in the
// background. A zero rank clears it. The returned channel yields the write
// outcome once the skill leaves the pending state; superseded edits yield nil.
func (s *Skills) UpdateSkillRank(ctx context.Context, categoryIndex, skillID, rank int) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	if categoryIndex < 0 || categoryIndex >= len(s.state.Categories) {
		s.mu.Unlock()
		done <- model.NewValidationError("category", fmt.Sprintf("index %d out of range", categoryIndex))
		close(done)
		return done
	}
	category := s.state.Categories[categoryIndex]
	pos := -1
	for i, sk := range category.Skills {
		if sk.ID == skillID {
			pos = i
			break
		}
	}
	if pos < 0 {
		s.mu.Unlock()
		done <- model.NewValidationError("skill", fmt.Sprintf("skill %d not found in %q", skillID, category.Name))
		close(done)
		return done
	}

	value := model.RankValue(rank)
	skill := &s.state.Categories[categoryIndex].Skills[pos]
	skill.Rank = value
	skill.Status = model.StatusForRank(value)

	s.seq++
	seq := s.seq
	s.pending[skillID] = pendingRank{seq: seq, rank: value}

	record := model.UserSkillRecord{
		SkillID:      skillID,
		CategoryName: category.Name,
		SkillName:    skill.Name,
		Rank:         value,
		Status:       model.StatusForRank(value),
	}
	st := s.snapshot()
	s.mu.Unlock()

	s.changes.Publish(st)

	s.writes.Add(1)
	go s.writeRank(context.WithoutCancel(ctx), seq, record, done)

	return done
}

func (s *Skills) writeRank(ctx context.Context, seq uint64, record model.UserSkillRecord, done chan<- error) {
	defer s.writes.Done()
	defer close(done)

	lock := s.keyLock(record.SkillID)
	lock.Lock()
	defer lock.Unlock()

	if !s.isPending(record.SkillID, seq) {
		done <- nil
		return
	}

	err := s.upsert(ctx, record)

	s.mu.Lock()
	if !s.isPendingLocked(record.SkillID, seq) {
		s.mu.Unlock()
		done <- nil
		return
	}
	delete(s.pending, record.SkillID)
	if err == nil {
		s.committed[record.SkillID] = record.Rank
	}
	gen := s.gen
	s.mu.Unlock()

	if err == nil {
		done <- nil
		return
	}

	s.env.Logger.Error("Skills store: failed to update skill rank",
		"skill_id", record.SkillID,
		"error", err.Error())

	if reloadErr := s.refresh(ctx); reloadErr != nil {
		s.revert(gen, record.SkillID)
	}
	s.update(gen, func(st *SkillsState) {
		st.Error = fmt.Sprintf("Failed to update skill rank: %v", err)
	})

	done <- err
}

func (s *Skills) upsert(ctx context.Context, record model.UserSkillRecord) error {
	user, err := s.env.user(ctx)
	if err != nil {
		return err
	}
	record.UserID = user.ID

	cctx, cancel := s.env.call(ctx)
	defer cancel()

	if err := s.repo.Upsert(cctx, record); err != nil {
		return &model.RemoteError{Op: "upsert user skill", Err: err}
	}
	return nil
}

// revert puts the last committed rank back on a skill that is no longer pending.
func (s *Skills) revert(gen uint64, skillID int) {
	s.mu.Lock()
	if _, ok := s.pending[skillID]; ok || gen != s.gen {
		s.mu.Unlock()
		return
	}
	setRank(s.state.Categories, skillID, s.committed[skillID])
	st := s.snapshot()
	s.mu.Unlock()

	s.changes.Publish(st)
}

func (s *Skills) keyLock(skillID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.writeMu[skillID]
	if !ok {
		m = &sync.Mutex{}
		s.writeMu[skillID] = m
	}
	return m
}

func (s *Skills) isPending(skillID int, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPendingLocked(skillID, seq)
}

func (s *Skills) isPendingLocked(skillID int, seq uint64) bool {
	p, ok := s.pending[skillID]
	return ok && p.seq == seq
}

// update applies fn unless the store was reset after generation gen.
func (s *Skills) update(gen uint64, fn func(*SkillsState)) {
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

// snapshot deep-copies the state. Callers hold s.mu.
func (s *Skills) snapshot() SkillsState {
	st := s.state
	st.Categories = cloneCategories(s.state.Categories)
	return st
}

func cloneCategories(categories []model.Category) []model.Category {
	if categories == nil {
		return nil
	}
	out := make([]model.Category, len(categories))
	for i, c := range categories {
		out[i] = model.Category{Name: c.Name, Skills: make([]model.Skill, len(c.Skills))}
		for j, sk := range c.Skills {
			if sk.Rank != nil {
				r := *sk.Rank
				sk.Rank = &r
			}
			out[i].Skills[j] = sk
		}
	}
	return out
}

// applyRecord merges a remote record onto the catalog skill with the same
// (skill id, category name). Names stay the catalog's; status follows rank.
// Records matching no catalog skill are ignored.
func applyRecord(categories []model.Category, rec model.UserSkillRecord) bool {
	for i := range categories {
		if categories[i].Name != rec.CategoryName {
			continue
		}
		for j := range categories[i].Skills {
			sk := &categories[i].Skills[j]
			if sk.ID == rec.SkillID {
				sk.Rank = normalizeRank(rec.Rank)
				sk.Status = model.StatusForRank(sk.Rank)
				return true
			}
		}
	}
	return false
}

func setRank(categories []model.Category, skillID int, rank *int) {
	for i := range categories {
		for j := range categories[i].Skills {
			sk := &categories[i].Skills[j]
			if sk.ID == skillID {
				sk.Rank = rank
				sk.Status = model.StatusForRank(rank)
			}
		}
	}
}

func normalizeRank(rank *int) *int {
	if rank == nil || *rank == 0 {
		return nil
	}
	r := *rank
	return &r
}
