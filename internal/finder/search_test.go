package finder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuzzySearchIgnoresCase(t *testing.T) {
	db := setupTestDB(t)
	seedCourses(t, db, 1, "Linear Algebra", "Biology", "ALGEBRAIC Topology")

	require.Equal(t, []string{"ALGEBRAIC Topology", "Linear Algebra"}, courseTitles(t, db, FuzzySearch("algebra", "courses.title")))
	require.Equal(t, []string{"Biology"}, courseTitles(t, db, FuzzySearch("  OLOG  ", "courses.title")))
}

func TestFuzzySearchEscapesWildcards(t *testing.T) {
	db := setupTestDB(t)
	seedCourses(t, db, 1, "100% effort", "1000 effort", "a_b", "axb", `back\slash`)

	require.Equal(t, []string{"100% effort"}, courseTitles(t, db, FuzzySearch("100%", "courses.title")))
	require.Equal(t, []string{"a_b"}, courseTitles(t, db, FuzzySearch("a_b", "courses.title")))
	require.Equal(t, []string{`back\slash`}, courseTitles(t, db, FuzzySearch(`k\s`, "courses.title")))
	require.Empty(t, courseTitles(t, db, FuzzySearch("%%", "courses.title", "courses.title")))
}

func TestFuzzySearchMatchesAnyField(t *testing.T) {
	db := setupTestDB(t)
	group := uint(7)
	require.NoError(t, db.Exec(
		"INSERT INTO students (user_id, full_name, email, president, group_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP), (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
		1, "Ada Lovelace", "ada@example.com", false, group,
		2, "Grace Hopper", "navy@example.com", false, group,
	).Error)

	var names []string
	err := FuzzySearch("NAVY", "students.full_name", "students.email")(db.Table("students")).Pluck("full_name", &names).Error
	require.NoError(t, err)
	require.Equal(t, []string{"Grace Hopper"}, names)
}
