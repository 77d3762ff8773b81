package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/database"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/finder"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/notify"
	"github.com/noah-isme/elplano-go-api/internal/repository"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

type testEnv struct {
	db       *gorm.DB
	resolver *scope.Resolver
	opts     finder.Options
	recorder *eventlog.Recorder
	logger   zerolog.Logger
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return testEnv{
		db:       db,
		resolver: scope.NewResolver(db),
		opts:     finder.Options{Validator: NewValidator()},
		recorder: eventlog.NewRecorder(),
		logger:   zerolog.Nop(),
	}
}

// createUser registers a user, optionally with a student profile, and
// returns the loaded actor.
func (e testEnv) createUser(t *testing.T, username string, student *models.Student) scope.Actor {
	t.Helper()

	user := models.User{Username: username, Email: username + "@example.com", EncryptedPassword: "x"}
	require.NoError(t, repository.NewUserRepository(e.db).Create(context.Background(), &user, student))
	return e.actor(t, user.ID)
}

func (e testEnv) actor(t *testing.T, userID uint) scope.Actor {
	t.Helper()

	actor, err := repository.NewActorRepository(e.db).Load(context.Background(), userID)
	require.NoError(t, err)
	return actor
}

// president creates a user presiding over a fresh group.
func (e testEnv) president(t *testing.T, username string) scope.Actor {
	t.Helper()

	actor := e.createUser(t, username, &models.Student{FullName: username})
	groups := NewGroupService(e.db, repository.NewGroupRepository(e.db), repository.NewStudentRepository(e.db), e.recorder, NewValidator(), e.logger)
	_, err := groups.Create(context.Background(), actor, dto.GroupCreateRequest{Number: username})
	require.NoError(t, err)
	return e.actor(t, actor.UserID)
}

func (e testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var total int64
	stmt := e.db.Model(model)
	if query != "" {
		stmt = stmt.Where(query, args...)
	}
	require.NoError(t, stmt.Count(&total).Error)
	return total
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, notification notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification)
}

func (r *recordingNotifier) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}
