package repository

import (
	"errors"
	"time"

	"github.com/user/cinehub/internal/model"
	"gorm.io/gorm"
)

// ErrAlreadyFavorited 电影已在收藏列表中
var ErrAlreadyFavorited = errors.New("电影已在收藏列表中")

// ErrNotFavorited 电影不在收藏列表中
var ErrNotFavorited = errors.New("电影不在收藏列表中")

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 添加收藏
// 关系写入与 favorite_count 计数在同一事务内完成，保证两者不漂移
func (r *FavoriteRepository) Add(userID, movieID int) (*model.Favorite, error) {
	favorite := &model.Favorite{
		UserID:  userID,
		MovieID: movieID,
		AddedAt: time.Now(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Favorite{}).
			Where("user_id = ? AND movie_id = ?", userID, movieID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyFavorited
		}

		if err := tx.Create(favorite).Error; err != nil {
			return err
		}

		return tx.Model(&model.Movie{}).Where("id = ?", movieID).
			UpdateColumn("favorite_count", gorm.Expr("favorite_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	return favorite, nil
}

// Remove 取消收藏，关系不存在时返回 ErrNotFavorited
func (r *FavoriteRepository) Remove(userID, movieID int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).
			Delete(&model.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFavorited
		}

		return tx.Model(&model.Movie{}).Where("id = ?", movieID).
			UpdateColumn("favorite_count", gorm.Expr("favorite_count - 1")).Error
	})
}

// IsFavorited 检查是否已收藏
func (r *FavoriteRepository) IsFavorited(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser 获取用户收藏列表（带电影信息，最近添加在前）
func (r *FavoriteRepository) ListByUser(userID int) ([]*model.Favorite, error) {
	var favorites []*model.Favorite
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// CountByUser 统计用户收藏数量
func (r *FavoriteRepository) CountByUser(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
