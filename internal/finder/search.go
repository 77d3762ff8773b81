package finder

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FuzzySearch matches rows where any of fields contains query, ignoring case.
// LIKE wildcards in the query are escaped so they match literally. Diacritics
// are not folded.
func FuzzySearch(query string, fields ...string) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		trimmed := strings.TrimSpace(query)
		if trimmed == "" || len(fields) == 0 {
			return db
		}

		pattern := "%" + likeEscaper.Replace(trimmed) + "%"
		clauses := make([]string, len(fields))
		args := make([]interface{}, len(fields))
		for i, field := range fields {
			clauses[i] = fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, field)
			args[i] = pattern
		}

		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
