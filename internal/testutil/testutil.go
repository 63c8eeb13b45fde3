// Package testutil 提供测试用的内存数据库和完整路由的测试服务
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/handler"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/router"
	"github.com/user/cinehub/internal/utils"
	"gorm.io/gorm"
)

// NewTestDB 打开独立的内存数据库并同步表结构
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// 每个测试一个独立库，shared cache 让多连接看到同一份数据
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	// 串行化并发查询，避免 sqlite 写锁冲突
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("同步表结构失败: %v", err)
	}

	return db
}

// NewServer 构建带完整路由的测试服务
func NewServer(t *testing.T) (*gin.Engine, *repository.Repositories) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	utils.InitCache()

	repos := repository.NewRepositories(NewTestDB(t), false)
	cfg := &config.Config{Env: "test", Port: "0", SiteName: "CineHub"}

	h := handler.NewHandler(repos, cfg)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	router.RegisterRoutes(r, h)

	return r, repos
}

// CreateUser 直接建用户并签发令牌
func CreateUser(t *testing.T, repos *repository.Repositories, username, email string, role model.Role) (*model.User, string) {
	t.Helper()

	user, err := repos.User.Create(username, email, "pass1234", role)
	if err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	token, err := repos.Session.Issue(user.ID)
	if err != nil {
		t.Fatalf("签发测试令牌失败: %v", err)
	}

	return user, token
}

// CreateMovie 直接建电影
func CreateMovie(t *testing.T, repos *repository.Repositories, title string, genres []string, rating float64) *model.Movie {
	t.Helper()

	movie := &model.Movie{
		Title:        title,
		Overview:     "测试用电影简介，长度满足校验要求",
		PosterPath:   "/poster.jpg",
		BackdropPath: "/backdrop.jpg",
		ReleaseDate:  "2024-01-01",
		Rating:       rating,
		Genres:       genres,
		IsActive:     true,
	}
	if err := repos.Movie.Create(movie); err != nil {
		t.Fatalf("创建测试电影失败: %v", err)
	}

	return movie
}

// DoJSON 发起 JSON 请求，token 非空时放入 Authorization 头
func DoJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Envelope 响应信封
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Error      string            `json:"error"`
	Errors     []string          `json:"errors"`
	Pagination *utils.Pagination `json:"pagination"`
}

// Decode 解析响应信封
func Decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("解析响应失败: %v (body=%s)", err, w.Body.String())
	}
	return env
}

// DecodeData 把信封里的 data 解析到目标结构
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()

	env := Decode(t, w)
	if err := json.Unmarshal(env.Data, target); err != nil {
		t.Fatalf("解析 data 失败: %v (data=%s)", err, string(env.Data))
	}
}
