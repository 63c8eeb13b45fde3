package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/handler"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/router"
	"github.com/user/cinehub/internal/service"
	"github.com/user/cinehub/internal/utils"
)

func main() {
	// 加载环境变量
	_ = godotenv.Load()

	// 加载配置
	cfg := config.Load()

	// 初始化日志
	log := newLogger(cfg.Env)

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("数据库连接失败")
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db, cfg.MultiSession)

	// 初始化缓存
	utils.InitCache()

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// 中间件
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	// 初始化 Handler
	h := handler.NewHandler(repos, cfg)

	// 启动定时清理任务
	cleanupSvc := service.NewCleanupService(repos, log)
	cleanupSvc.Start()

	// 注册路由
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，主协程监听退出信号
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务器")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("服务器强制关闭")
	}

	log.Info().Msg("服务器已退出")
}

// newLogger 开发环境用控制台格式，生产环境输出 JSON
func newLogger(env string) zerolog.Logger {
	if env == "production" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}
