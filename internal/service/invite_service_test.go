package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/notify"
	"github.com/noah-isme/elplano-go-api/internal/repository"
)

func TestInviteServiceDuplicateRecordsNothing(t *testing.T) {
	env := newTestEnv(t)
	notifier := &recordingNotifier{}
	svc := NewInviteService(env.db, repository.NewGroupRepository(env.db), env.recorder, notifier, NewValidator(), env.logger)
	ctx := context.Background()
	president := env.president(t, "erin")
	invitee := env.createUser(t, "frank", nil)
	baseline := env.count(t, &models.ActivityEvent{}, "")

	invite, err := svc.Create(ctx, president, dto.InviteCreateRequest{Email: "frank@example.com"})
	require.NoError(t, err)
	require.Equal(t, president.Group(), invite.GroupID)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, notify.TypeInvitation, sent[0].Type)
	require.Equal(t, "frank@example.com", sent[0].RecipientEmail)
	require.NotNil(t, sent[0].RecipientID)
	require.Equal(t, invitee.UserID, *sent[0].RecipientID)
	require.Equal(t, baseline+1, env.count(t, &models.ActivityEvent{}, ""))

	_, err = svc.Create(ctx, president, dto.InviteCreateRequest{Email: "Frank@Example.com"})
	require.Error(t, err)
	require.True(t, apperror.IsValidation(err))

	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "email", validation.Field)

	require.Len(t, notifier.Sent(), 1)
	require.Equal(t, baseline+1, env.count(t, &models.ActivityEvent{}, ""))
	require.EqualValues(t, 1, env.count(t, &models.Invite{}, ""))
}

func TestInviteServiceRequiresPresident(t *testing.T) {
	env := newTestEnv(t)
	notifier := &recordingNotifier{}
	svc := NewInviteService(env.db, repository.NewGroupRepository(env.db), env.recorder, notifier, NewValidator(), env.logger)
	president := env.president(t, "gina")
	member := env.createUser(t, "hank", &models.Student{FullName: "Hank", GroupID: president.GroupID})

	_, err := svc.Create(context.Background(), member, dto.InviteCreateRequest{Email: "someone@example.com"})
	require.True(t, apperror.IsAuthorization(err))

	_, err = svc.Create(context.Background(), president, dto.InviteCreateRequest{Email: "not-an-email"})
	require.True(t, apperror.IsValidation(err))
	require.Empty(t, notifier.Sent())
}
