package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/repository"
)

func TestRegistrationRecordsAuditEvent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRegistrationService(env.db, repository.NewUserRepository(env.db), env.recorder, NewValidator(), env.logger)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegistrationRequest{
		Username: "quinn",
		Email:    " Quinn@Example.com ",
		Password: "correct horse",
		FullName: "Quinn <i>Q</i>",
	})
	require.NoError(t, err)
	require.Equal(t, "quinn@example.com", user.Email)
	require.Equal(t, models.DefaultTimezone, user.Timezone)

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.EncryptedPassword), []byte("correct horse")))

	var student models.Student
	require.NoError(t, env.db.Where("user_id = ?", user.ID).First(&student).Error)
	require.Equal(t, "Quinn Q", student.FullName)

	var audit models.AuditEvent
	require.NoError(t, env.db.Where("author_id = ?", user.ID).First(&audit).Error)
	require.Equal(t, models.AuditAuthentication, audit.AuditType)
	require.Equal(t, models.TargetUser, audit.EntityType)
	require.Equal(t, "registration", audit.Details["event"])
	require.EqualValues(t, 1, env.count(t, &models.ActivityEvent{}, "author_id = ?", user.ID))

	_, err = svc.Register(ctx, dto.RegistrationRequest{Username: "QUINN", Email: "other@example.com", Password: "correct horse"})
	require.True(t, apperror.IsValidation(err))
	require.EqualValues(t, 1, env.count(t, &models.User{}, ""))
	require.EqualValues(t, 1, env.count(t, &models.AuditEvent{}, ""))
}

func TestRegistrationValidatesPayload(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRegistrationService(env.db, repository.NewUserRepository(env.db), env.recorder, NewValidator(), env.logger)

	_, err := svc.Register(context.Background(), dto.RegistrationRequest{Username: "rita", Email: "rita@example.com", Password: "short"})
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "password", validation.Field)
	require.Zero(t, env.count(t, &models.User{}, ""))
}
