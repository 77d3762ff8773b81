package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range models.All() {
		require.True(t, db.Migrator().HasTable(model))
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	require.Error(t, err)

	_, err = Open(DriverPostgres, "")
	require.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "", "elplano")
	require.Error(t, err)

	server := miniredis.RunT(t)
	client, err := ConnectRedis(context.Background(), "redis://"+server.Addr(), "elplano")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.Equal(t, "elplano", client.Options().ClientName)

	server.Close()
	_, err = ConnectRedis(context.Background(), "redis://"+server.Addr(), "elplano")
	require.Error(t, err)
}

func TestWithForeignKeys(t *testing.T) {
	require.Equal(t, "app.db?_foreign_keys=on", withForeignKeys("app.db"))
	require.Equal(t, "file:x?mode=memory&_foreign_keys=on", withForeignKeys("file:x?mode=memory"))
	require.Equal(t, "file:x?_fk=0", withForeignKeys("file:x?_fk=0"))
}

func TestSQLiteEnforcesEventAuthors(t *testing.T) {
	db, err := Open(DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	orphan := models.ActivityEvent{AuthorID: 404, TargetType: models.TargetCourse, TargetID: 1, Action: models.ActivityCreated}
	require.Error(t, db.Create(&orphan).Error)
	require.Error(t, db.Create(&models.AuditEvent{AuthorID: 404, EntityType: models.TargetUser, EntityID: 1, AuditType: models.AuditAuthentication}).Error)

	author := models.User{Username: "author", Email: "author@example.com", EncryptedPassword: "x"}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&models.ActivityEvent{AuthorID: author.ID, TargetType: models.TargetCourse, TargetID: 1, Action: models.ActivityCreated}).Error)
	require.NoError(t, db.Create(&models.AuditEvent{AuthorID: author.ID, EntityType: models.TargetUser, EntityID: author.ID, AuditType: models.AuditAuthentication}).Error)

	require.NoError(t, db.Exec("DELETE FROM users WHERE id = ?", author.ID).Error)

	var activity, audit int64
	require.NoError(t, db.Model(&models.ActivityEvent{}).Count(&activity).Error)
	require.NoError(t, db.Model(&models.AuditEvent{}).Count(&audit).Error)
	require.Zero(t, activity)
	require.Zero(t, audit)
}
