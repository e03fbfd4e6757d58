package postgres

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching query as a literal substring.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// updateBuilder collects "column = $n" assignments for partial updates.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build renders the UPDATE statement filtered by id and user_id and returns its arguments.
func (b *updateBuilder) build(table string, id, userID any, returning string) (string, []any) {
	args := append([]any{}, b.args...)
	args = append(args, id, userID)
	query := fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d AND user_id = $%d",
		table, strings.Join(b.sets, ", "), len(args)-1, len(args))
	if returning != "" {
		query += " RETURNING " + returning
	}
	return query, args
}
