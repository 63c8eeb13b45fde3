package repository

import (
	"time"

	"github.com/user/cinehub/internal/model"
	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert 写入观影记录
// 同一部电影的旧记录被移除后重建（重看即"移动"到最前），
// 列表截断到最近 100 条，view_count +1，全部在同一事务内
func (r *HistoryRepository) Upsert(userID, movieID, watchDuration int) (*model.WatchHistory, error) {
	if watchDuration < 0 {
		watchDuration = 0
	}

	entry := &model.WatchHistory{
		UserID:        userID,
		MovieID:       movieID,
		WatchDuration: watchDuration,
		WatchedAt:     time.Now(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).
			Delete(&model.WatchHistory{}).Error; err != nil {
			return err
		}

		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		if err := r.trim(tx, userID); err != nil {
			return err
		}

		return tx.Model(&model.Movie{}).Where("id = ?", movieID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// trim 截断超出上限的最旧记录
func (r *HistoryRepository) trim(tx *gorm.DB, userID int) error {
	keep := tx.Model(&model.WatchHistory{}).Select("id").
		Where("user_id = ?", userID).
		Order("watched_at DESC, id DESC").
		Limit(model.HistoryCap)

	return tx.Where("user_id = ? AND id NOT IN (?)", userID, keep).
		Delete(&model.WatchHistory{}).Error
}

// ListByUser 获取用户观影历史（带电影信息，分页）
// 引用的电影已下架或缺失的记录被过滤掉
func (r *HistoryRepository) ListByUser(userID, page, limit int) ([]*model.WatchHistory, int64, error) {
	base := r.db.Model(&model.WatchHistory{}).
		Joins("JOIN movies ON movies.id = watch_histories.movie_id AND movies.is_active = ?", true).
		Where("watch_histories.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var histories []*model.WatchHistory
	err := base.Preload("Movie").
		Order("watch_histories.watched_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&histories).Error
	return histories, total, err
}

// CountByUser 统计用户观影历史数量
func (r *HistoryRepository) CountByUser(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.WatchHistory{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// TrimOverCap 清理超出上限的历史（后台兜底任务），返回清理条数
func (r *HistoryRepository) TrimOverCap() (int64, error) {
	var userIDs []int
	err := r.db.Model(&model.WatchHistory{}).
		Select("user_id").
		Group("user_id").
		Having("COUNT(*) > ?", model.HistoryCap).
		Scan(&userIDs).Error
	if err != nil {
		return 0, err
	}

	var cleaned int64
	for _, userID := range userIDs {
		before, err := r.CountByUser(userID)
		if err != nil {
			return cleaned, err
		}
		if err := r.trim(r.db, userID); err != nil {
			return cleaned, err
		}
		cleaned += before - model.HistoryCap
	}

	return cleaned, nil
}
