package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewRepository(gormDB), mock
}

func TestRepositoryMarkAllRead_scopesToUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	mock.ExpectExec(`UPDATE "notifications" SET "read_at"=\$1 WHERE user_id = \$2 AND read_at IS NULL`).
		WithArgs(sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.MarkAllRead(context.Background(), userID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCountUnread(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE user_id = \$1 AND read_at IS NULL`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountUnread(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
