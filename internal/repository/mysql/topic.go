package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Guyuepp/community-engagement/domain"
	"github.com/Guyuepp/community-engagement/internal/repository/mysql/model"
)

type topicRepository struct {
	DB *gorm.DB
}

var _ domain.TopicRepository = (*topicRepository)(nil)

func NewTopicRepository(db *gorm.DB) *topicRepository {
	return &topicRepository{
		DB: db,
	}
}

var comprehensiveScore = fmt.Sprintf("(views * %d + likes * %d + comments * %d)",
	domain.HotWeightViews, domain.HotWeightLikes, domain.HotWeightComments)

// hotColumns 各热度类型对应的排序表达式, 只接受白名单里的值
var hotColumns = map[domain.HotType]string{
	domain.HotViews:         "views",
	domain.HotLikes:         "likes",
	domain.HotComments:      "comments",
	domain.HotComprehensive: comprehensiveScore,
}

func (t *topicRepository) ListRanked(ctx context.Context, f domain.RankFilter, hotType domain.HotType, offset, limit int) ([]domain.Topic, error) {
	expr, ok := hotColumns[hotType]
	if !ok {
		return nil, domain.ErrBadParamInput
	}

	var topics []model.Topic
	err := t.rankScope(t.DB.WithContext(ctx), f).
		Order(expr + " DESC").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Topic, 0, len(topics))
	for i := range topics {
		res = append(res, topics[i].ToDomain())
	}
	return res, nil
}

func (t *topicRepository) CountRanked(ctx context.Context, f domain.RankFilter) (int64, error) {
	var count int64
	err := t.rankScope(t.DB.WithContext(ctx).Model(&model.Topic{}), f).Count(&count).Error
	return count, err
}

func (t *topicRepository) IncrementViews(ctx context.Context, id int64) error {
	result := t.DB.WithContext(ctx).Model(&model.Topic{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *topicRepository) rankScope(db *gorm.DB, f domain.RankFilter) *gorm.DB {
	db = db.Where("status = ?", domain.TopicStatusNormal)
	if f.CategoryID != 0 {
		db = db.Where("category_id = ?", f.CategoryID)
	}
	if !f.Since.IsZero() {
		db = db.Where("created_at >= ?", f.Since)
	}
	return db
}
