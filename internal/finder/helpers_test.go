package finder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/database"
	"github.com/noah-isme/elplano-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedCourses(t *testing.T, db *gorm.DB, groupID uint, titles ...string) []models.Course {
	t.Helper()

	courses := make([]models.Course, 0, len(titles))
	for _, title := range titles {
		course := models.Course{GroupID: groupID, Title: title, Active: true}
		require.NoError(t, db.Create(&course).Error)
		courses = append(courses, course)
	}
	return courses
}

func courseTitles(t *testing.T, db *gorm.DB, predicates ...Predicate) []string {
	t.Helper()

	var titles []string
	err := Chain(predicates...)(db.Model(&models.Course{})).Order("title").Pluck("title", &titles).Error
	require.NoError(t, err)
	return titles
}

func uintPtr(v uint) *uint {
	return &v
}
