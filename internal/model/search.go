package model

// SearchResultType tags the entity kind of a search hit.
type SearchResultType string

const (
	SearchResultSkill SearchResultType = "skill"
	SearchResultSAO   SearchResultType = "sao"
)

// SearchResult is one hit of a dashboard search. Exactly one of Skill and SAO
// is set, matching Type, so the hit can be opened for editing without a refetch.
type SearchResult struct {
	ID          string
	Type        SearchResultType
	Title       string
	Description string
	Link        string
	Skill       *Skill
	SAO         *SAO
}
