package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository/mysql/model"
)

type likeRepository struct {
	DB *gorm.DB
}

var _ domain.LikeRepository = (*likeRepository)(nil)

// NewLikeRepository will create an implementation of domain.LikeRepository
func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{DB: db}
}

func (m *likeRepository) Insert(ctx context.Context, l *domain.Like) error {
	table, ok := model.CounterTable(l.TargetType)
	if !ok {
		return domain.ErrInvalidTarget
	}

	likeModel := model.NewLikeFromDomain(l)
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(likeModel).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrConflict
			}
			return err
		}

		result := tx.Table(table).Where("id = ?", l.TargetID).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
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

	l.ID = likeModel.ID
	l.CreatedAt = likeModel.CreatedAt
	return nil
}

func (m *likeRepository) Delete(ctx context.Context, userID int64, target domain.Target) error {
	table, ok := model.CounterTable(target.Type)
	if !ok {
		return domain.ErrInvalidTarget
	}

	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND target_id = ? AND target_type = ?", userID, target.ID, string(target.Type)).
			Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotLiked
		}

		return tx.Table(table).Where("id = ?", target.ID).
			UpdateColumn("likes", gorm.Expr("GREATEST(likes - ?, 0)", 1)).Error
	})
}

func (m *likeRepository) Exists(ctx context.Context, userID int64, target domain.Target) (bool, error) {
	var like model.Like
	err := m.DB.WithContext(ctx).
		Select("id").
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, target.ID, string(target.Type)).
		Take(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *likeRepository) ExistsBatch(ctx context.Context, userID int64, targetType domain.TargetType, targetIDs []int64) ([]int64, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	var res []int64
	err := m.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, string(targetType), targetIDs).
		Pluck("target_id", &res).Error
	return res, err
}

func (m *likeRepository) Count(ctx context.Context, target domain.Target) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("target_id = ? AND target_type = ?", target.ID, string(target.Type)).
		Count(&count).Error
	return count, err
}

func (m *likeRepository) ListByUser(ctx context.Context, userID int64, targetType domain.TargetType, offset, limit int) ([]domain.Like, error) {
	var likes []model.Like
	query := m.DB.WithContext(ctx).Where("user_id = ?", userID)
	if targetType != "" {
		query = query.Where("target_type = ?", string(targetType))
	}
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Like, len(likes))
	for i := range likes {
		res[i] = likes[i].ToDomain()
	}
	return res, nil
}

func (m *likeRepository) CountByUser(ctx context.Context, userID int64, targetType domain.TargetType) (int64, error) {
	var count int64
	query := m.DB.WithContext(ctx).Model(&model.Like{}).Where("user_id = ?", userID)
	if targetType != "" {
		query = query.Where("target_type = ?", string(targetType))
	}
	err := query.Count(&count).Error
	return count, err
}

func (m *likeRepository) DeleteByTarget(ctx context.Context, target domain.Target) ([]int64, error) {
	table, ok := model.CounterTable(target.Type)
	if !ok {
		return nil, domain.ErrInvalidTarget
	}

	var userIDs []int64
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Like{}).
			Where("target_id = ? AND target_type = ?", target.ID, string(target.Type)).
			Pluck("user_id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}

		if err := tx.Where("target_id = ? AND target_type = ?", target.ID, string(target.Type)).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}

		return tx.Table(table).Where("id = ?", target.ID).UpdateColumn("likes", 0).Error
	})
	return userIDs, err
}

func (m *likeRepository) DeleteByUser(ctx context.Context, userID int64) ([]domain.Target, error) {
	var targets []domain.Target
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var likes []model.Like
		if err := tx.Select("target_id", "target_type").
			Where("user_id = ?", userID).
			Find(&likes).Error; err != nil {
			return err
		}
		if len(likes) == 0 {
			return nil
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.Like{}).Error; err != nil {
			return err
		}

		targets = make([]domain.Target, 0, len(likes))
		for _, l := range likes {
			target := domain.Target{ID: l.TargetID, Type: domain.TargetType(l.TargetType)}
			targets = append(targets, target)

			table, ok := model.CounterTable(target.Type)
			if !ok {
				continue
			}
			// 重新统计真实点赞数, 避免计数漂移
			var realCount int64
			if err := tx.Model(&model.Like{}).
				Where("target_id = ? AND target_type = ?", target.ID, l.TargetType).
				Count(&realCount).Error; err != nil {
				return err
			}
			if err := tx.Table(table).Where("id = ?", target.ID).
				UpdateColumn("likes", realCount).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return targets, err
}
