package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestConfigurePool(t *testing.T) {
	db := openSQLite(t)

	err := configurePool(db, &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestConfigurePool_Defaults(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, configurePool(db, &config.Config{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 25, sqlDB.Stats().MaxOpenConnections)
}

func TestMigrate_GroupDeletionClearsPostGroup(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Use(metricsPlugin{}))

	user := models.User{Username: "leo", Email: "leo@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	group := models.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, db.Create(&group).Error)
	post := models.Post{Text: "meow", AuthorID: user.ID, GroupID: &group.ID}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, db.Delete(&group).Error)

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.GroupID)
	assert.Equal(t, "meow", reloaded.Text)
}

func TestPersistentModels_ParentsFirst(t *testing.T) {
	ms := PersistentModels()
	require.Len(t, ms, 3)
	_, userFirst := ms[0].(*models.User)
	_, postLast := ms[2].(*models.Post)
	assert.True(t, userFirst)
	assert.True(t, postLast)
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{"postgres", "postgres", false},
		{"", "postgres", false},
		{"mysql", "mysql", false},
		{"sqlite", "sqlite", false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := Dialector(&config.Config{DBDriver: tt.driver, DBName: "yatube"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestDSNs(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "yatube"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=maint sslmode=disable", PostgresDSN(cfg, "maint"))

	cfg.DBPort = "3306"
	assert.Equal(t, "u:p@tcp(db:3306)/yatube?charset=utf8mb4&parseTime=True&loc=UTC", MySQLDSN(cfg))
}

func TestEnsurePostgresDatabase_RejectsUnsafeName(t *testing.T) {
	err := EnsurePostgresDatabase(context.Background(), &config.Config{DBDriver: "postgres", DBName: "x; DROP TABLE"})
	assert.Error(t, err)

	assert.NoError(t, EnsurePostgresDatabase(context.Background(), &config.Config{DBDriver: "sqlite"}))
}

func TestQueryLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewJSONHandler(&buf, nil)), logger.Warn, 10*time.Millisecond)
	fc := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Contains(t, buf.String(), `"msg":"query failed"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	assert.Contains(t, buf.String(), `"msg":"slow query"`)

	buf.Reset()
	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Empty(t, buf.String())
}
