package finder

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

func createEvent(t *testing.T, db *gorm.DB, creator uint, title, eventableType string, eventableID uint) models.Event {
	t.Helper()

	event := models.Event{
		CreatorID:     creator,
		Title:         title,
		StartAt:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Timezone:      models.DefaultTimezone,
		EventableType: eventableType,
		EventableID:   eventableID,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func createTask(t *testing.T, db *gorm.DB, author, eventID uint, title string, expiredAt *time.Time) models.Task {
	t.Helper()

	task := models.Task{AuthorID: author, EventID: eventID, Title: title, ExpiredAt: expiredAt}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func titlesOf[T any](items []T, title func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, title(item))
	}
	return out
}

func eventTitle(e models.Event) string   { return e.Title }
func taskTitle(e models.Task) string     { return e.Title }
func courseTitle(c models.Course) string { return c.Title }

func TestExecuteValidatesBeforeQuerying(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventsFinder(scope.NewResolver(db), Options{})
	member := scope.Actor{UserID: 1, StudentID: 1}

	cases := []FilterSet{
		{"type": "bogus"},
		{"type": []string{"group"}},
		{"course_id": "abc"},
		{"course_id": "0"},
		{"sort": map[string]interface{}{"field": "title", "direction": "sideways"}},
		{"page": map[string]interface{}{"size": "ten"}},
	}
	for _, set := range cases {
		_, err := events.Execute(context.Background(), member, set)
		require.Error(t, err, "%v", set)
		require.True(t, apperror.IsValidation(err), "%v", set)
	}

	_, err := events.Execute(context.Background(), scope.Anonymous(), FilterSet{"type": "bogus"})
	require.True(t, apperror.IsValidation(err))
}

func TestExecuteBlankFiltersAreIgnored(t *testing.T) {
	db := setupTestDB(t)
	group := uint(3)
	seedCourses(t, db, group, "Algebra", "Biology")
	courses := NewCoursesFinder(scope.NewResolver(db), Options{})
	president := scope.Actor{UserID: 1, StudentID: 1, GroupID: &group, President: true}

	plain, err := courses.Execute(context.Background(), president, FilterSet{})
	require.NoError(t, err)

	blank, err := courses.Execute(context.Background(), president, FilterSet{"title": "  ", "active": "", "search": nil, "unknown": "x"})
	require.NoError(t, err)
	require.Equal(t, plain.Page.TotalItems, blank.Page.TotalItems)
	require.Equal(t, titlesOf(plain.Items, courseTitle), titlesOf(blank.Items, courseTitle))
}

func TestExecutePagination(t *testing.T) {
	db := setupTestDB(t)
	group := uint(1)
	titles := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		titles = append(titles, fmt.Sprintf("Course %02d", i))
	}
	seedCourses(t, db, group, titles...)

	courses := NewCoursesFinder(scope.NewResolver(db), Options{})
	actor := scope.Actor{UserID: 1, StudentID: 1, GroupID: &group}

	first, err := courses.Execute(context.Background(), actor, FilterSet{"sort": "title"})
	require.NoError(t, err)
	require.Len(t, first.Items, DefaultPageSize)
	require.Equal(t, PageInfo{Page: 1, PageSize: 15, Offset: 0, TotalItems: 20, TotalPages: 2, HasMore: true}, first.Page)
	require.Equal(t, "Course 00", first.Items[0].Title)

	second, err := courses.Execute(context.Background(), actor, FilterSet{"sort": "title", "page": map[string]string{"number": "2"}})
	require.NoError(t, err)
	require.Len(t, second.Items, 5)
	require.False(t, second.Page.HasMore)
	require.Equal(t, "Course 15", second.Items[0].Title)

	clamped, err := courses.Execute(context.Background(), actor, FilterSet{"page": map[string]interface{}{"size": float64(1000)}})
	require.NoError(t, err)
	require.Equal(t, MaxPageSize, clamped.Page.PageSize)
	require.Len(t, clamped.Items, 20)

	offset, err := courses.Execute(context.Background(), actor, FilterSet{"sort": "-title", "page": map[string]interface{}{"size": 5, "offset": 18}})
	require.NoError(t, err)
	require.Equal(t, []string{"Course 01", "Course 00"}, titlesOf(offset.Items, courseTitle))
	require.Equal(t, 4, offset.Page.Page)
}

func TestExecuteRejectsOverflowingPages(t *testing.T) {
	db := setupTestDB(t)
	group := uint(1)
	seedCourses(t, db, group, "Algebra")
	courses := NewCoursesFinder(scope.NewResolver(db), Options{})
	actor := scope.Actor{UserID: 1, StudentID: 1, GroupID: &group}

	for _, page := range []map[string]interface{}{
		{"number": strconv.Itoa(math.MaxInt)},
		{"number": math.MaxInt/DefaultPageSize + 1},
		{"size": 100, "number": strconv.Itoa(math.MaxInt / 50)},
		{"offset": strconv.Itoa(math.MaxInt)},
		{"number": float64(1e300)},
	} {
		_, err := courses.Execute(context.Background(), actor, FilterSet{"page": page})
		require.True(t, apperror.IsValidation(err), "%v", page)
	}

	far, err := courses.Execute(context.Background(), actor, FilterSet{"page": map[string]interface{}{"number": 1000000}})
	require.NoError(t, err)
	require.Empty(t, far.Items)
	require.Equal(t, 999999*DefaultPageSize, far.Page.Offset)
	require.False(t, far.Page.HasMore)
}

func TestExecuteIsDeterministicOnTies(t *testing.T) {
	db := setupTestDB(t)
	group := uint(1)
	seedCourses(t, db, group, "A", "B", "C", "D")
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Course{}).Where("1 = 1").UpdateColumn("created_at", stamp).Error)

	courses := NewCoursesFinder(scope.NewResolver(db), Options{})
	actor := scope.Actor{UserID: 1, StudentID: 1, GroupID: &group}

	first, err := courses.Execute(context.Background(), actor, FilterSet{})
	require.NoError(t, err)
	second, err := courses.Execute(context.Background(), actor, FilterSet{})
	require.NoError(t, err)

	require.Equal(t, []string{"D", "C", "B", "A"}, titlesOf(first.Items, courseTitle))
	require.Equal(t, titlesOf(first.Items, courseTitle), titlesOf(second.Items, courseTitle))

	ascending, err := courses.Execute(context.Background(), actor, FilterSet{"sort": map[string]interface{}{"field": "created_at", "direction": "asc"}})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C", "D"}, titlesOf(ascending.Items, courseTitle))

	unknown, err := courses.Execute(context.Background(), actor, FilterSet{"sort": "group_id"})
	require.NoError(t, err)
	require.Equal(t, titlesOf(first.Items, courseTitle), titlesOf(unknown.Items, courseTitle))
}

func TestEventsWithoutGroupReturnPersonalEventsOnly(t *testing.T) {
	db := setupTestDB(t)
	group := uint(9)

	createEvent(t, db, 1, "Dentist", models.EventableStudent, 1)
	createEvent(t, db, 2, "Group meetup", models.EventableGroup, group)
	createEvent(t, db, 2, "Someone else's", models.EventableStudent, 2)

	events := NewEventsFinder(scope.NewResolver(db), Options{})

	loner := scope.Actor{UserID: 1, StudentID: 1}
	result, err := events.Execute(context.Background(), loner, FilterSet{"sort": "title"})
	require.NoError(t, err)
	require.Equal(t, []string{"Dentist"}, titlesOf(result.Items, eventTitle))

	member := scope.Actor{UserID: 1, StudentID: 1, GroupID: &group}
	result, err = events.Execute(context.Background(), member, FilterSet{"sort": "title"})
	require.NoError(t, err)
	require.Equal(t, []string{"Dentist", "Group meetup"}, titlesOf(result.Items, eventTitle))

	result, err = events.Execute(context.Background(), member, FilterSet{"type": "group"})
	require.NoError(t, err)
	require.Equal(t, []string{"Group meetup"}, titlesOf(result.Items, eventTitle))

	result, err = events.Execute(context.Background(), member, FilterSet{"scope": "authored"})
	require.NoError(t, err)
	require.Equal(t, []string{"Dentist"}, titlesOf(result.Items, eventTitle))

	anonymous, err := events.Execute(context.Background(), scope.Anonymous(), FilterSet{})
	require.NoError(t, err)
	require.Empty(t, anonymous.Items)
	require.Zero(t, anonymous.Page.TotalItems)
}

func TestFiltersCannotWidenScope(t *testing.T) {
	db := setupTestDB(t)
	mine, other := uint(1), uint(2)
	course := seedCourses(t, db, other, "Foreign")[0]

	foreign := createEvent(t, db, 5, "Foreign lecture", models.EventableGroup, other)
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", foreign.ID).UpdateColumn("course_id", course.ID).Error)

	resolver := scope.NewResolver(db)
	actor := scope.Actor{UserID: 1, StudentID: 1, GroupID: &mine}

	events, err := NewEventsFinder(resolver, Options{}).Execute(context.Background(), actor, FilterSet{"course_id": course.ID, "type": "group"})
	require.NoError(t, err)
	require.Empty(t, events.Items)

	_, err = NewEventsFinder(resolver, Options{}).Find(context.Background(), actor, foreign.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = NewCoursesFinder(resolver, Options{}).Find(context.Background(), actor, course.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGroupResourcesWithoutGroupAreEmpty(t *testing.T) {
	db := setupTestDB(t)
	group := uint(4)
	seedCourses(t, db, group, "Algebra")
	require.NoError(t, db.Create(&models.Student{UserID: 2, FullName: "Classmate", GroupID: &group}).Error)

	resolver := scope.NewResolver(db)
	loner := scope.Actor{UserID: 1, StudentID: 1}

	courses, err := NewCoursesFinder(resolver, Options{}).Execute(context.Background(), loner, FilterSet{})
	require.NoError(t, err)
	require.Empty(t, courses.Items)

	students, err := NewStudentsFinder(resolver, Options{}).Execute(context.Background(), loner, FilterSet{})
	require.NoError(t, err)
	require.Empty(t, students.Items)

	member := scope.Actor{UserID: 1, StudentID: 1, GroupID: &group}
	students, err = NewStudentsFinder(resolver, Options{}).Execute(context.Background(), member, FilterSet{"search": "class"})
	require.NoError(t, err)
	require.Len(t, students.Items, 1)
}

func TestTasksAccomplishedSelectsAppointedView(t *testing.T) {
	db := setupTestDB(t)
	student := uint(1)
	event := createEvent(t, db, 2, "Lecture", models.EventableStudent, 2)

	done := createTask(t, db, 2, event.ID, "Done", nil)
	pending := createTask(t, db, 2, event.ID, "Pending", nil)
	createTask(t, db, 3, event.ID, "Unrelated", nil)
	createTask(t, db, student, event.ID, "Mine", nil)

	require.NoError(t, db.Create(&models.Assignment{StudentID: student, TaskID: done.ID, Accomplished: true}).Error)
	require.NoError(t, db.Create(&models.Assignment{StudentID: student, TaskID: pending.ID}).Error)

	tasks := NewTasksFinder(scope.NewResolver(db), Options{})
	group := uint(7)
	actors := map[string]scope.Actor{
		"member":    {UserID: 1, StudentID: student},
		"president": {UserID: 1, StudentID: student, GroupID: &group, President: true},
	}
	for name, actor := range actors {
		t.Run(name, func(t *testing.T) {
			result, err := tasks.Execute(context.Background(), actor, FilterSet{"sort": "title"})
			require.NoError(t, err)
			require.Equal(t, []string{"Mine"}, titlesOf(result.Items, taskTitle))

			result, err = tasks.Execute(context.Background(), actor, FilterSet{"sort": "title", "accomplished": "true"})
			require.NoError(t, err)
			require.Equal(t, []string{"Done"}, titlesOf(result.Items, taskTitle))

			result, err = tasks.Execute(context.Background(), actor, FilterSet{"sort": "title", "appointed": true})
			require.NoError(t, err)
			require.Equal(t, []string{"Done", "Pending"}, titlesOf(result.Items, taskTitle))

			result, err = tasks.Execute(context.Background(), actor, FilterSet{"sort": "title", "appointed": "true", "accomplished": "false"})
			require.NoError(t, err)
			require.Equal(t, []string{"Pending"}, titlesOf(result.Items, taskTitle))

			result, err = tasks.Execute(context.Background(), actor, FilterSet{"sort": "title", "appointed": "false", "accomplished": "true"})
			require.NoError(t, err)
			require.Equal(t, []string{"Mine"}, titlesOf(result.Items, taskTitle))
		})
	}
}

func TestFindReturnsEveryListedRecord(t *testing.T) {
	db := setupTestDB(t)
	group := uint(2)
	student := scope.Actor{UserID: 1, StudentID: 1, GroupID: &group}
	resolver := scope.NewResolver(db)
	ctx := context.Background()

	lecture := createEvent(t, db, 2, "Lecture", models.EventableGroup, group)
	forFriend := createEvent(t, db, student.StudentID, "Birthday", models.EventableStudent, 3)
	hidden := createEvent(t, db, 3, "Private", models.EventableStudent, 3)

	assigned := createTask(t, db, 2, lecture.ID, "Assigned", nil)
	authored := createTask(t, db, student.StudentID, lecture.ID, "Authored", nil)
	foreign := createTask(t, db, 2, lecture.ID, "Foreign", nil)
	require.NoError(t, db.Create(&models.Assignment{StudentID: student.StudentID, TaskID: assigned.ID}).Error)

	tasks := NewTasksFinder(resolver, Options{})
	appointed, err := tasks.Execute(ctx, student, FilterSet{"appointed": true})
	require.NoError(t, err)
	for _, task := range appointed.Items {
		found, err := tasks.Find(ctx, student, task.ID)
		require.NoError(t, err)
		require.Equal(t, task.Title, found.Title)
	}

	found, err := tasks.Find(ctx, student, authored.ID)
	require.NoError(t, err)
	require.Equal(t, "Authored", found.Title)
	_, err = tasks.Find(ctx, student, foreign.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	events := NewEventsFinder(resolver, Options{})
	for _, id := range []uint{lecture.ID, forFriend.ID} {
		_, err := events.Find(ctx, student, id)
		require.NoError(t, err)
	}
	_, err = events.Find(ctx, student, hidden.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearchesIgnoreCase(t *testing.T) {
	db := setupTestDB(t)
	group := uint(6)
	for _, s := range []models.Student{
		{UserID: 1, FullName: "Zoe Quinn", Email: "zoe@example.com", GroupID: &group},
		{UserID: 2, FullName: "Adam Brooks", Email: "adam@example.com", GroupID: &group},
	} {
		require.NoError(t, db.Create(&s).Error)
	}
	for _, name := range []string{"Zoe", "adam", "Root"} {
		require.NoError(t, db.Create(&models.User{Username: name, Email: strings.ToLower(name) + "@example.com", EncryptedPassword: "x", Admin: name == "Root"}).Error)
	}

	resolver := scope.NewResolver(db)
	ctx := context.Background()
	member := scope.Actor{UserID: 1, StudentID: 1, GroupID: &group}
	admin := scope.Actor{UserID: 3, Admin: true}
	fullName := func(s models.Student) string { return s.FullName }
	username := func(u models.User) string { return u.Username }

	students := NewStudentsFinder(resolver, Options{})
	exact, err := students.Execute(ctx, member, FilterSet{"search": "Zoe"})
	require.NoError(t, err)
	upper, err := students.Execute(ctx, member, FilterSet{"search": "ZOE"})
	require.NoError(t, err)
	require.Equal(t, []string{"Zoe Quinn"}, titlesOf(exact.Items, fullName))
	require.Equal(t, titlesOf(exact.Items, fullName), titlesOf(upper.Items, fullName))

	users := NewUsersFinder(resolver, Options{})
	for _, pair := range [][2]FilterSet{
		{{"search": "adam", "sort": "username"}, {"search": "ADAM", "sort": "username"}},
		{{"username": []string{"Zoe", "adam"}, "sort": "username"}, {"username": []string{"ZOE", "ADAM"}, "sort": "username"}},
	} {
		exact, err := users.Execute(ctx, admin, pair[0])
		require.NoError(t, err)
		upper, err := users.Execute(ctx, admin, pair[1])
		require.NoError(t, err)
		require.NotEmpty(t, exact.Items)
		require.Equal(t, titlesOf(exact.Items, username), titlesOf(upper.Items, username))
	}
}

func TestTasksExpiration(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC).Add(d)
		return &ts
	}

	event := createEvent(t, db, 1, "Lecture", models.EventableStudent, 1)
	createTask(t, db, 1, event.ID, "Yesterday", at(-2*time.Hour))
	createTask(t, db, 1, event.ID, "Today", at(20*time.Hour))
	createTask(t, db, 1, event.ID, "Tomorrow", at(30*time.Hour))
	createTask(t, db, 1, event.ID, "Next week", at(7*24*time.Hour))
	createTask(t, db, 1, event.ID, "Whenever", nil)

	tasks := NewTasksFinder(scope.NewResolver(db), Options{Now: func() time.Time { return now }})
	actor := scope.Actor{UserID: 1, StudentID: 1}

	expect := map[string][]string{
		ExpirationToday:     {"Today"},
		ExpirationTomorrow:  {"Tomorrow"},
		ExpirationUpcoming:  {"Next week", "Tomorrow"},
		ExpirationOutOfDate: {"Yesterday"},
	}
	for name, titles := range expect {
		result, err := tasks.Execute(context.Background(), actor, FilterSet{"expiration": name, "sort": "title"})
		require.NoError(t, err)
		require.Equal(t, titles, titlesOf(result.Items, taskTitle), name)
	}

	_, err := tasks.Execute(context.Background(), actor, FilterSet{"expiration": "someday"})
	require.True(t, apperror.IsValidation(err))
}

func TestUsersFinderIsAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	banned := time.Now().UTC()
	require.NoError(t, db.Create(&models.User{Username: "Alice", Email: "alice@example.com", EncryptedPassword: "x"}).Error)
	require.NoError(t, db.Create(&models.User{Username: "bob", Email: "bob@example.com", EncryptedPassword: "x", BannedAt: &banned}).Error)
	require.NoError(t, db.Create(&models.User{Username: "root", Email: "root@example.com", EncryptedPassword: "x", Admin: true}).Error)

	users := NewUsersFinder(scope.NewResolver(db), Options{})
	username := func(u models.User) string { return u.Username }

	result, err := users.Execute(context.Background(), scope.Actor{UserID: 1, StudentID: 1}, FilterSet{})
	require.NoError(t, err)
	require.Empty(t, result.Items)

	admin := scope.Actor{UserID: 3, Admin: true}
	result, err = users.Execute(context.Background(), admin, FilterSet{"status": "banned"})
	require.NoError(t, err)
	require.Equal(t, []string{"bob"}, titlesOf(result.Items, username))

	result, err = users.Execute(context.Background(), admin, FilterSet{"username": []interface{}{"ALICE", "Root"}, "sort": "username"})
	require.NoError(t, err)
	require.Equal(t, []string{"Alice", "root"}, titlesOf(result.Items, username))

	result, err = users.Execute(context.Background(), admin, FilterSet{"username": []string{}})
	require.NoError(t, err)
	require.Empty(t, result.Items)

	result, err = users.Execute(context.Background(), admin, FilterSet{"username": []string{" ", ""}})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	_, err = users.Execute(context.Background(), admin, FilterSet{"username": "alice"})
	require.True(t, apperror.IsValidation(err))
}

func TestAbuseReportsViews(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.AbuseReport{ReporterID: 1, UserID: 2, Message: "spam"}).Error)
	require.NoError(t, db.Create(&models.AbuseReport{ReporterID: 3, UserID: 1, Message: "rude"}).Error)

	reports := NewAbuseReportsFinder(scope.NewResolver(db), Options{})
	actor := scope.Actor{UserID: 1}
	message := func(r models.AbuseReport) string { return r.Message }

	filed, err := reports.Execute(context.Background(), actor, FilterSet{})
	require.NoError(t, err)
	require.Equal(t, []string{"spam"}, titlesOf(filed.Items, message))

	against, err := reports.Execute(context.Background(), actor, FilterSet{"view": "targeting"})
	require.NoError(t, err)
	require.Equal(t, []string{"rude"}, titlesOf(against.Items, message))

	all, err := NewAdminAbuseReportsFinder(scope.NewResolver(db), Options{}).Execute(context.Background(), scope.Actor{UserID: 9, Admin: true}, FilterSet{"search": "RUD"})
	require.NoError(t, err)
	require.Equal(t, []string{"rude"}, titlesOf(all.Items, message))
}

func TestActivityEventsAreAuthorScoped(t *testing.T) {
	db := setupTestDB(t)
	for _, name := range []string{"first", "second"} {
		require.NoError(t, db.Create(&models.User{Username: name, Email: name + "@example.com", EncryptedPassword: "x"}).Error)
	}
	require.NoError(t, db.Create(&models.ActivityEvent{AuthorID: 1, TargetType: models.TargetCourse, TargetID: 1, Action: models.ActivityCreated}).Error)
	require.NoError(t, db.Create(&models.ActivityEvent{AuthorID: 1, TargetType: models.TargetCourse, TargetID: 1, Action: models.ActivityUpdated}).Error)
	require.NoError(t, db.Create(&models.ActivityEvent{AuthorID: 2, TargetType: models.TargetGroup, TargetID: 1, Action: models.ActivityCreated}).Error)

	activity := NewActivityEventsFinder(scope.NewResolver(db), Options{})
	actor := scope.Actor{UserID: 1}

	result, err := activity.Execute(context.Background(), actor, FilterSet{})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	result, err = activity.Execute(context.Background(), actor, FilterSet{"action": []string{"created"}})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, models.ActivityCreated, result.Items[0].Action)

	_, err = activity.Execute(context.Background(), actor, FilterSet{"action": []string{"archived"}})
	require.True(t, apperror.IsValidation(err))

	audit, err := NewAuditEventsFinder(scope.NewResolver(db), Options{}).Execute(context.Background(), actor, FilterSet{"created_after": "2000-01-01"})
	require.NoError(t, err)
	require.Empty(t, audit.Items)
}
