package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/repository"
)

func newGroupService(env testEnv) GroupService {
	return NewGroupService(env.db, repository.NewGroupRepository(env.db), repository.NewStudentRepository(env.db), env.recorder, NewValidator(), env.logger)
}

func TestGroupServiceCreateMakesPresident(t *testing.T) {
	env := newTestEnv(t)
	svc := newGroupService(env)
	ctx := context.Background()
	actor := env.createUser(t, "alice", &models.Student{FullName: "Alice"})

	group, err := svc.Create(ctx, actor, dto.GroupCreateRequest{Number: " 4B ", Title: "<b>Fourth</b>"})
	require.NoError(t, err)
	require.Equal(t, "4B", group.Number)
	require.Equal(t, "Fourth", group.Title)

	reloaded := env.actor(t, actor.UserID)
	require.True(t, reloaded.GroupOwner())
	require.Equal(t, group.ID, reloaded.Group())

	require.EqualValues(t, 1, env.count(t, &models.ActivityEvent{}, "author_id = ? AND target_type = ? AND action = ?", actor.UserID, models.TargetGroup, models.ActivityCreated))

	_, err = svc.Create(ctx, reloaded, dto.GroupCreateRequest{Number: "5"})
	require.True(t, apperror.IsAuthorization(err))
}

func TestGroupServiceRequiresStudent(t *testing.T) {
	env := newTestEnv(t)
	actor := env.createUser(t, "nobody", nil)

	_, err := newGroupService(env).Create(context.Background(), actor, dto.GroupCreateRequest{Number: "1"})
	require.True(t, apperror.IsAuthorization(err))
	require.Zero(t, env.count(t, &models.ActivityEvent{}, ""))
}

func TestGroupServiceRollsBackWhenEventLogFails(t *testing.T) {
	env := newTestEnv(t)
	actor := env.createUser(t, "bob", &models.Student{FullName: "Bob"})
	require.NoError(t, env.db.Migrator().DropTable(&models.ActivityEvent{}))

	_, err := newGroupService(env).Create(context.Background(), actor, dto.GroupCreateRequest{Number: "7"})
	require.Error(t, err)
	var txErr *apperror.TransactionError
	require.ErrorAs(t, err, &txErr)

	require.Zero(t, env.count(t, &models.Group{}, ""))
	require.False(t, env.actor(t, actor.UserID).HasGroup())
}

func TestGroupServiceUpdate(t *testing.T) {
	env := newTestEnv(t)
	svc := newGroupService(env)
	president := env.president(t, "carol")
	member := env.createUser(t, "dave", &models.Student{FullName: "Dave", GroupID: president.GroupID})

	title := "Renamed"
	updated, err := svc.Update(context.Background(), president, dto.GroupUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.EqualValues(t, 1, env.count(t, &models.ActivityEvent{}, "action = ?", models.ActivityUpdated))

	_, err = svc.Update(context.Background(), member, dto.GroupUpdateRequest{Title: &title})
	require.True(t, apperror.IsAuthorization(err))
}
