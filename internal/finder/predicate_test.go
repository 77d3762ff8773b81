package finder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

func TestBlankValuesLeaveCollectionUnchanged(t *testing.T) {
	db := setupTestDB(t)
	seedCourses(t, db, 1, "Algebra", "Biology", "Chemistry")

	all := courseTitles(t, db)
	require.Len(t, all, 3)

	var nilTime *time.Time
	blanks := []Predicate{
		Equals("courses.title", ""),
		Equals("courses.title", "   "),
		Equals("courses.group_id", nil),
		Equals("courses.group_id", nilTime),
		In[string]("courses.title", nil),
		CaseInsensitiveEquals("courses.title", " "),
		CaseInsensitiveIn("courses.title", nil),
		RangeAfterOrEqual("courses.created_at", time.Time{}),
		RangeBefore("courses.created_at", time.Time{}),
		FuzzySearch("  ", "courses.title"),
	}
	for _, p := range blanks {
		require.Equal(t, all, courseTitles(t, db, p))
	}
	require.Equal(t, all, courseTitles(t, db, Chain(blanks...)))
}

func TestEqualsAndIn(t *testing.T) {
	db := setupTestDB(t)
	seedCourses(t, db, 1, "Algebra", "Biology")
	seedCourses(t, db, 2, "Chemistry")

	require.Equal(t, []string{"Chemistry"}, courseTitles(t, db, Equals("courses.group_id", uint(2))))
	require.Equal(t, []string{"Algebra", "Chemistry"}, courseTitles(t, db, In("courses.title", []string{"Algebra", "Chemistry"})))
	require.Empty(t, courseTitles(t, db, In("courses.title", []string{})))
	require.Empty(t, courseTitles(t, db, None()))
}

func TestCaseInsensitivePredicates(t *testing.T) {
	db := setupTestDB(t)
	seedCourses(t, db, 1, "Algebra", "BIOLOGY", "chemistry")

	require.Equal(t, []string{"BIOLOGY"}, courseTitles(t, db, CaseInsensitiveEquals("courses.title", "biology")))
	require.Equal(t, []string{"Algebra", "chemistry"}, courseTitles(t, db, CaseInsensitiveIn("courses.title", []string{"ALGEBRA", "Chemistry"})))
	require.Empty(t, courseTitles(t, db, CaseInsensitiveIn("courses.title", []string{})))
	require.Empty(t, courseTitles(t, db, CaseInsensitiveEquals("courses.title", "physics")))
}

func TestRangePredicates(t *testing.T) {
	db := setupTestDB(t)
	courses := seedCourses(t, db, 1, "Old", "Middle", "New")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, course := range courses {
		require.NoError(t, db.Model(&models.Course{}).Where("id = ?", course.ID).
			UpdateColumn("created_at", base.AddDate(0, 0, i)).Error)
	}

	require.Equal(t, []string{"Middle", "New"}, courseTitles(t, db, RangeAfterOrEqual("courses.created_at", base.AddDate(0, 0, 1))))
	require.Equal(t, []string{"Old"}, courseTitles(t, db, RangeBefore("courses.created_at", base.AddDate(0, 0, 1))))
	require.Equal(t, []string{"Middle"}, courseTitles(t, db,
		RangeAfterOrEqual("courses.created_at", base.AddDate(0, 0, 1)),
		RangeBefore("courses.created_at", base.AddDate(0, 0, 2)),
	))
}

func TestIsNull(t *testing.T) {
	db := setupTestDB(t)

	banned := time.Now().UTC()
	require.NoError(t, db.Create(&models.User{Username: "alice", Email: "alice@example.com", EncryptedPassword: "x"}).Error)
	require.NoError(t, db.Create(&models.User{Username: "bob", Email: "bob@example.com", EncryptedPassword: "x", BannedAt: &banned}).Error)

	var active, blocked []string
	require.NoError(t, IsNull("users.banned_at", false)(db.Model(&models.User{})).Pluck("username", &active).Error)
	require.NoError(t, IsNull("users.banned_at", true)(db.Model(&models.User{})).Pluck("username", &blocked).Error)
	require.Equal(t, []string{"alice"}, active)
	require.Equal(t, []string{"bob"}, blocked)
}
