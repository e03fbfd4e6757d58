package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

const saoExcerptLength = 100

type SearchState struct {
	Query   string
	Results []model.SearchResult
	Loading bool
	Error   string
}

// Search runs one query against skill records and SAOs in parallel and
// merges the hits, skills first. Only the latest search publishes results.
type Search struct {
	env    Env
	skills model.UserSkillStore
	saos   model.SAOStore

	mu      sync.Mutex
	seq     uint64
	state   SearchState
	changes observe.Notifier[SearchState]
}

func NewSearch(env Env, skills model.UserSkillStore, saos model.SAOStore) *Search {
	return &Search{env: env, skills: skills, saos: saos}
}

func (s *Search) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Results = append([]model.SearchResult(nil), s.state.Results...)
	return st
}

func (s *Search) Subscribe(fn func(SearchState)) func() {
	return s.changes.Subscribe(fn)
}

func (s *Search) Reset() {
	s.mu.Lock()
	s.seq++
	s.state = SearchState{}
	st := s.state
	s.mu.Unlock()

	s.changes.Publish(st)
}

// Search replaces the results with the hits for query. A blank query clears
// the results without any remote call. A failure in either source fails the
// whole search.
func (s *Search) Search(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if query == "" {
		s.state = SearchState{Results: []model.SearchResult{}}
	} else {
		s.state.Query = query
		s.state.Loading = true
		s.state.Error = ""
	}
	st := s.state
	s.mu.Unlock()

	s.changes.Publish(st)
	if query == "" {
		return
	}

	results, err := s.fetch(ctx, query)
	if err != nil {
		s.env.Logger.Error("Search store: search failed", "query", query, "error", err.Error())
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.state.Loading = false
	s.state.Error = errorText(err)
	s.state.Results = results
	if err != nil {
		s.state.Results = []model.SearchResult{}
	}
	st = s.state
	s.mu.Unlock()

	s.changes.Publish(st)
}

func (s *Search) fetch(ctx context.Context, query string) ([]model.SearchResult, error) {
	user, err := s.env.user(ctx)
	if err != nil {
		return nil, err
	}

	cctx, cancel := s.env.call(ctx)
	defer cancel()

	var (
		skillRecords []model.UserSkillRecord
		saoRows      []model.SAORow
	)
	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error {
		records, err := s.skills.SearchByName(gctx, user.ID, query)
		if err != nil {
			return &model.RemoteError{Op: "search skills", Err: err}
		}
		skillRecords = records
		return nil
	})
	g.Go(func() error {
		rows, err := s.saos.Search(gctx, user.ID, query)
		if err != nil {
			return &model.RemoteError{Op: "search saos", Err: err}
		}
		saoRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	saos, err := reconstructSAOs(saoRows)
	if err != nil {
		return nil, &model.RemoteError{Op: "decode saos", Err: err}
	}

	results := make([]model.SearchResult, 0, len(skillRecords)+len(saos))
	for _, rec := range skillRecords {
		results = append(results, skillResult(rec))
	}
	for _, sao := range saos {
		results = append(results, saoResult(sao))
	}
	return results, nil
}

func skillResult(rec model.UserSkillRecord) model.SearchResult {
	rank := normalizeRank(rec.Rank)
	description := "Category: " + rec.CategoryName
	if rank != nil {
		description += " | Rank: " + strconv.Itoa(*rank)
	}

	skill := model.Skill{
		ID:           rec.SkillID,
		Name:         rec.SkillName,
		Status:       model.StatusForRank(rank),
		Rank:         rank,
		CategoryName: rec.CategoryName,
	}

	return model.SearchResult{
		ID:          strconv.Itoa(rec.SkillID),
		Type:        model.SearchResultSkill,
		Title:       rec.SkillName,
		Description: description,
		Link:        fmt.Sprintf("/skills#skill-%d", rec.SkillID),
		Skill:       &skill,
	}
}

func saoResult(sao model.SAO) model.SearchResult {
	return model.SearchResult{
		ID:          sao.ID.String(),
		Type:        model.SearchResultSAO,
		Title:       sao.Title,
		Description: excerpt(sao.Content, saoExcerptLength),
		Link:        "/saos",
		SAO:         &sao,
	}
}

// excerpt returns the first n characters of s followed by "...".
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
