package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository/mysql/model"
)

type followRepository struct {
	DB *gorm.DB
}

var _ domain.FollowRepository = (*followRepository)(nil)

func NewFollowRepository(db *gorm.DB) *followRepository {
	return &followRepository{DB: db}
}

func (m *followRepository) Insert(ctx context.Context, f *domain.Follow) error {
	followModel := model.NewFollowFromDomain(f)
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(followModel).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrConflict
			}
			return err
		}

		result := tx.Model(&model.User{}).Where("id = ?", f.FolloweeID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		result = tx.Model(&model.User{}).Where("id = ?", f.FollowerID).
			UpdateColumn("following_count", gorm.Expr("following_count + ?", 1))
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

	f.ID = followModel.ID
	f.CreatedAt = followModel.CreatedAt
	return nil
}

func (m *followRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&model.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFollowed
		}

		if err := tx.Model(&model.User{}).Where("id = ?", followeeID).
			UpdateColumn("followers_count", gorm.Expr("GREATEST(followers_count - ?, 0)", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("GREATEST(following_count - ?, 0)", 1)).Error
	})
}

func (m *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var follow model.Follow
	err := m.DB.WithContext(ctx).
		Select("id").
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Take(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *followRepository) FindExisting(ctx context.Context, followerID int64, followeeIDs []int64) ([]domain.Follow, error) {
	if len(followeeIDs) == 0 {
		return []domain.Follow{}, nil
	}
	var follows []model.Follow
	err := m.DB.WithContext(ctx).
		Where("follower_id = ? AND followee_id IN ?", followerID, followeeIDs).
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return toDomainFollows(follows), nil
}

func (m *followRepository) ListFollowing(ctx context.Context, followerID int64, offset, limit int) ([]domain.Follow, error) {
	return m.list(ctx, "follower_id = ?", followerID, offset, limit)
}

func (m *followRepository) ListFollowers(ctx context.Context, followeeID int64, offset, limit int) ([]domain.Follow, error) {
	return m.list(ctx, "followee_id = ?", followeeID, offset, limit)
}

func (m *followRepository) list(ctx context.Context, cond string, id int64, offset, limit int) ([]domain.Follow, error) {
	var follows []model.Follow
	err := m.DB.WithContext(ctx).
		Where(cond, id).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return toDomainFollows(follows), nil
}

func (m *followRepository) CountFollowing(ctx context.Context, followerID int64) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", followerID).Count(&count).Error
	return count, err
}

func (m *followRepository) CountFollowers(ctx context.Context, followeeID int64) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.Follow{}).Where("followee_id = ?", followeeID).Count(&count).Error
	return count, err
}

func toDomainFollows(follows []model.Follow) []domain.Follow {
	res := make([]domain.Follow, len(follows))
	for i := range follows {
		res[i] = follows[i].ToDomain()
	}
	return res
}
