package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) Insert(ctx context.Context, comment *domain.Comment) error {
	table, ok := model.CounterTable(comment.TargetType)
	if !ok || !comment.TargetType.Commentable() {
		return domain.ErrInvalidTarget
	}

	commentModel := model.NewCommentFromDomain(comment)
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(commentModel).Error; err != nil {
			return err
		}

		result := tx.Table(table).Where("id = ?", comment.TargetID).
			UpdateColumn("comments", gorm.Expr("comments + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	comment.ID = commentModel.ID
	comment.CreatedAt = commentModel.CreatedAt
	comment.UpdatedAt = commentModel.UpdatedAt
	return nil
}

// UpdateContent does not report a missing row: mysql counts changed rows,
// so saving identical content within the same second affects none.
func (c *commentRepository) UpdateContent(ctx context.Context, id int64, content string) (time.Time, error) {
	// datetime 列只保存到秒
	updatedAt := c.DB.NowFunc().Truncate(time.Second)
	err := c.DB.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Updates(map[string]any{
		"content":    content,
		"updated_at": updatedAt,
	}).Error
	if err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

func (c *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var comment model.Comment
	err := c.DB.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	domainComment := comment.ToDomain()
	return &domainComment, nil
}

func (c *commentRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Comment, error) {
	if len(ids) == 0 {
		return []*domain.Comment{}, nil
	}
	var comments []model.Comment
	err := c.DB.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return toDomainComments(comments), nil
}

type targetKey struct {
	id  int64
	typ string
}

func (c *commentRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []model.Comment
		if err := tx.Select("id", "target_id", "target_type", "level").
			Where("id IN ?", ids).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		rootIDs := make([]int64, 0, len(rows))
		for _, r := range rows {
			if r.Level == domain.CommentLevelRoot {
				rootIDs = append(rootIDs, r.ID)
			}
		}
		// 删除一级评论时连同其回复一起删除
		if len(rootIDs) > 0 {
			var replies []model.Comment
			if err := tx.Select("id", "target_id", "target_type", "level").
				Where("parent_id IN ?", rootIDs).
				Find(&replies).Error; err != nil {
				return err
			}
			rows = append(rows, replies...)
		}

		seen := make(map[int64]bool, len(rows))
		allIDs := make([]int64, 0, len(rows))
		perTarget := make(map[targetKey]int64)
		for _, r := range rows {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			allIDs = append(allIDs, r.ID)
			perTarget[targetKey{r.TargetID, r.TargetType}]++
		}

		result := tx.Where("id IN ?", allIDs).Delete(&model.Comment{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		if err := tx.Where("target_type = ? AND target_id IN ?", string(domain.TargetComment), allIDs).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}

		for key, n := range perTarget {
			table, ok := model.CounterTable(domain.TargetType(key.typ))
			if !ok {
				continue
			}
			if err := tx.Table(table).Where("id = ?", key.id).
				UpdateColumn("comments", gorm.Expr("GREATEST(comments - ?, 0)", n)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return deleted, err
}

func (c *commentRepository) List(ctx context.Context, f domain.CommentFilter, order domain.CommentOrder, offset, limit int) ([]*domain.Comment, error) {
	var comments []model.Comment
	query := applyCommentFilter(c.DB.WithContext(ctx), f)

	switch order {
	case domain.CommentOrderHot:
		query = query.Order("likes DESC").Order("created_at DESC")
	case domain.CommentOrderThread:
		query = query.Order("created_at ASC").Order("id ASC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	err := query.Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return toDomainComments(comments), nil
}

func (c *commentRepository) Count(ctx context.Context, f domain.CommentFilter) (int64, error) {
	var count int64
	err := applyCommentFilter(c.DB.WithContext(ctx).Model(&model.Comment{}), f).Count(&count).Error
	return count, err
}

func (c *commentRepository) Latest(ctx context.Context, limit int) ([]*domain.Comment, error) {
	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return toDomainComments(comments), nil
}

func applyCommentFilter(db *gorm.DB, f domain.CommentFilter) *gorm.DB {
	if f.TargetID != 0 {
		db = db.Where("target_id = ?", f.TargetID)
	}
	if f.TargetType != "" {
		db = db.Where("target_type = ?", string(f.TargetType))
	}
	if f.ParentID != 0 {
		db = db.Where("parent_id = ?", f.ParentID)
	}
	if f.UserID != 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Level != 0 {
		db = db.Where("level = ?", f.Level)
	}
	return db
}

func toDomainComments(comments []model.Comment) []*domain.Comment {
	res := make([]*domain.Comment, 0, len(comments))
	for i := range comments {
		domainComment := comments[i].ToDomain()
		res = append(res, &domainComment)
	}
	return res
}
