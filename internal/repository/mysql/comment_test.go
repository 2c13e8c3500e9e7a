package mysql_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository/mysql"
)

var commentColumns = []string{
	"id", "target_id", "target_type", "parent_id", "user_id", "reply_user_id",
	"level", "content", "likes", "created_at", "updated_at",
}

func TestCommentRepository_Insert(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := mysql.NewCommentRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `comment`").WillReturnResult(sqlmock.NewResult(21, 1))
		mock.ExpectExec("UPDATE `topics` SET `comments`").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		c := &domain.Comment{
			TargetID:   10,
			TargetType: domain.TargetTopic,
			UserID:     1,
			Level:      domain.CommentLevelRoot,
			Content:    "hello",
		}
		err := repo.Insert(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, int64(21), c.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("target missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := mysql.NewCommentRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `comment`").WillReturnResult(sqlmock.NewResult(21, 1))
		mock.ExpectExec("UPDATE `resources` SET `comments`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Insert(context.Background(), &domain.Comment{
			TargetID:   404,
			TargetType: domain.TargetResource,
			UserID:     1,
			Level:      domain.CommentLevelRoot,
			Content:    "hello",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("comments are not commentable", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := mysql.NewCommentRepository(db)

		err := repo.Insert(context.Background(), &domain.Comment{TargetID: 1, TargetType: domain.TargetComment})
		assert.ErrorIs(t, err, domain.ErrInvalidTarget)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommentRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := mysql.NewCommentRepository(db)

		now := time.Now()
		mock.ExpectQuery("SELECT \\* FROM `comment`").
			WillReturnRows(sqlmock.NewRows(commentColumns).
				AddRow(3, 10, "topic", 0, 1, 0, 1, "hi", 2, now, now))

		c, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), c.ID)
		assert.Equal(t, domain.TargetTopic, c.TargetType)
		assert.Equal(t, "hi", c.Content)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := mysql.NewCommentRepository(db)

		mock.ExpectQuery("SELECT \\* FROM `comment`").
			WillReturnRows(sqlmock.NewRows(commentColumns))

		_, err := repo.GetByID(context.Background(), 3)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCommentRepository_UpdateContent(t *testing.T) {
	for name, affected := range map[string]int64{"changed": 1, "unchanged": 0} {
		t.Run(name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := mysql.NewCommentRepository(db)

			// 内容未变时 mysql 报告 0 行受影响, 评论依然存在
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("UPDATE `comment` SET `content`=?,`updated_at`=? WHERE id = ?")).
				WithArgs("edited", sqlmock.AnyArg(), 7).
				WillReturnResult(sqlmock.NewResult(0, affected))
			mock.ExpectCommit()

			updatedAt, err := repo.UpdateContent(context.Background(), 7, "edited")
			require.NoError(t, err)
			assert.False(t, updatedAt.IsZero())
			assert.Equal(t, updatedAt, updatedAt.Truncate(time.Second))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCommentRepository_Delete(t *testing.T) {
	t.Run("root cascades to replies", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := mysql.NewCommentRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT `id`,`target_id`,`target_type`,`level` FROM `comment` WHERE id IN").
			WillReturnRows(sqlmock.NewRows([]string{"id", "target_id", "target_type", "level"}).
				AddRow(1, 10, "topic", 1))
		mock.ExpectQuery("SELECT `id`,`target_id`,`target_type`,`level` FROM `comment` WHERE parent_id IN").
			WillReturnRows(sqlmock.NewRows([]string{"id", "target_id", "target_type", "level"}).
				AddRow(2, 10, "topic", 2).
				AddRow(3, 10, "topic", 2))
		mock.ExpectExec("DELETE FROM `comment`").WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("DELETE FROM `likes`").WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec("UPDATE `topics` SET `comments`=GREATEST").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := repo.Delete(context.Background(), []int64{1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := mysql.NewCommentRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT `id`,`target_id`,`target_type`,`level` FROM `comment`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "target_id", "target_type", "level"}))
		mock.ExpectCommit()

		n, err := repo.Delete(context.Background(), []int64{42})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommentRepository_List(t *testing.T) {
	tests := []struct {
		name  string
		order domain.CommentOrder
		sql   string
	}{
		{name: "newest first", order: domain.CommentOrderTime, sql: "ORDER BY created_at DESC,id DESC"},
		{name: "hot", order: domain.CommentOrderHot, sql: "ORDER BY likes DESC,created_at DESC"},
		{name: "thread", order: domain.CommentOrderThread, sql: "ORDER BY created_at ASC,id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := mysql.NewCommentRepository(db)

			now := time.Now()
			mock.ExpectQuery(regexp.QuoteMeta(tt.sql)).
				WillReturnRows(sqlmock.NewRows(commentColumns).
					AddRow(1, 10, "topic", 0, 1, 0, 1, "a", 0, now, now).
					AddRow(2, 10, "topic", 0, 2, 0, 1, "b", 0, now, now))

			f := domain.CommentFilter{TargetID: 10, TargetType: domain.TargetTopic, Level: domain.CommentLevelRoot}
			comments, err := repo.List(context.Background(), f, tt.order, 0, 10)
			require.NoError(t, err)
			assert.Len(t, comments, 2)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCommentRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := mysql.NewCommentRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `comment` WHERE target_id = \\? AND target_type = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.Count(context.Background(), domain.CommentFilter{TargetID: 10, TargetType: domain.TargetTopic})
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}
