package service

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/user/cinehub/internal/repository"
)

// CleanupService 后台清理服务
type CleanupService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// NewCleanupService 创建清理服务
func NewCleanupService(repos *repository.Repositories, log zerolog.Logger) *CleanupService {
	return &CleanupService{repos: repos, log: log}
}

// Start 启动定时清理任务
func (s *CleanupService) Start() {
	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先运行一次
	go s.runCleanup()

	go func() {
		for range ticker.C {
			s.runCleanup()
		}
	}()
}

func (s *CleanupService) runCleanup() {
	s.log.Info().Msg("开始清理过期数据")

	// 1. 清理属主已停用的会话
	sessions, err := s.repos.Session.DeleteOrphaned()
	if err != nil {
		s.log.Error().Err(err).Msg("清理失效会话失败")
	} else if sessions > 0 {
		s.log.Info().Int64("count", sessions).Msg("已清理失效会话")
	}

	// 2. 兜底截断超出上限的观影历史
	histories, err := s.repos.History.TrimOverCap()
	if err != nil {
		s.log.Error().Err(err).Msg("截断观影历史失败")
	} else if histories > 0 {
		s.log.Info().Int64("count", histories).Msg("已截断超限观影历史")
	}
}
