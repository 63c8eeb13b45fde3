package repository

import (
	"fmt"

	"github.com/user/cinehub/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate 同步表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Movie{},
		&model.Favorite{},
		&model.WatchHistory{},
	)
}

// Repositories 仓库集合
type Repositories struct {
	DB       *gorm.DB
	User     *UserRepository
	Session  *SessionRepository
	Movie    *MovieRepository
	Favorite *FavoriteRepository
	History  *HistoryRepository
}

// NewRepositories 创建仓库集合
// multiSession 为 false 时登录会撤销该用户的其他会话（单会话策略）
func NewRepositories(db *gorm.DB, multiSession bool) *Repositories {
	return &Repositories{
		DB:       db,
		User:     NewUserRepository(db),
		Session:  NewSessionRepository(db, multiSession),
		Movie:    NewMovieRepository(db),
		Favorite: NewFavoriteRepository(db),
		History:  NewHistoryRepository(db),
	}
}
