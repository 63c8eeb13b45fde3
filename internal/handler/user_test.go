package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/testutil"
)

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	r, repos := testutil.NewServer(t)

	w := testutil.DoJSON(t, r, "POST", "/users/register", "", gin.H{
		"userName": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	user, err := repos.User.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"))
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)

	// 响应里不出现密码哈希
	assert.NotContains(t, w.Body.String(), user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := testutil.NewServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"short username", gin.H{"userName": "ab", "email": "a@b.com", "password": "secret123"}},
		{"bad email", gin.H{"userName": "alice", "email": "not-an-email", "password": "secret123"}},
		{"password without digit", gin.H{"userName": "alice", "email": "a@b.com", "password": "secretpw"}},
		{"password too short", gin.H{"userName": "alice", "email": "a@b.com", "password": "s1"}},
		{"invalid role", gin.H{"userName": "alice", "email": "a@b.com", "password": "secret123", "role": "root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.DoJSON(t, r, "POST", "/users/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, testutil.Decode(t, w).Errors)
		})
	}
}

func TestRegisterDuplicateEmailAndUsername(t *testing.T) {
	r, _ := testutil.NewServer(t)

	w := testutil.DoJSON(t, r, "POST", "/users/register", "", gin.H{
		"userName": "alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 邮箱重复（大小写不敏感）
	w = testutil.DoJSON(t, r, "POST", "/users/register", "", gin.H{
		"userName": "other", "email": "ALICE@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "邮箱已被使用", testutil.Decode(t, w).Message)

	// 用户名重复
	w = testutil.DoJSON(t, r, "POST", "/users/register", "", gin.H{
		"userName": "alice", "email": "alice2@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "用户名已被使用", testutil.Decode(t, w).Message)
}

func TestLoginFlow(t *testing.T) {
	r, _ := testutil.NewServer(t)

	w := testutil.DoJSON(t, r, "POST", "/users/register", "", gin.H{
		"userName": "alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 登录拿到 apiKey
	w = testutil.DoJSON(t, r, "POST", "/users/login", "", gin.H{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		APIKey   string `json:"apiKey"`
		UserName string `json:"userName"`
	}
	testutil.DecodeData(t, w, &login)
	require.NotEmpty(t, login.APIKey)
	assert.Equal(t, "alice", login.UserName)

	// 带令牌访问受保护接口
	w = testutil.DoJSON(t, r, "GET", "/users/profile", login.APIKey, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 篡改令牌后被拒绝
	w = testutil.DoJSON(t, r, "GET", "/users/profile", login.APIKey+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginWrongCredentialsSameMessage(t *testing.T) {
	r, repos := testutil.NewServer(t)
	testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)

	// 密码错误
	w := testutil.DoJSON(t, r, "POST", "/users/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPassword := testutil.Decode(t, w).Message

	// 用户不存在，返回同一句话
	w = testutil.DoJSON(t, r, "POST", "/users/login", "", gin.H{
		"email": "nobody@example.com", "password": "wrong123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPassword, testutil.Decode(t, w).Message)
}

func TestSecondLoginRevokesFirstToken(t *testing.T) {
	r, _ := testutil.NewServer(t)

	w := testutil.DoJSON(t, r, "POST", "/users/register", "", gin.H{
		"userName": "alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	login := func() string {
		w := testutil.DoJSON(t, r, "POST", "/users/login", "", gin.H{
			"email": "alice@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			APIKey string `json:"apiKey"`
		}
		testutil.DecodeData(t, w, &data)
		return data.APIKey
	}

	first := login()
	second := login()
	require.NotEqual(t, first, second)

	// 单会话策略：旧令牌失效，新令牌可用
	w = testutil.DoJSON(t, r, "GET", "/users/profile", first, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.DoJSON(t, r, "GET", "/users/profile", second, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r, repos := testutil.NewServer(t)
	_, token := testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)

	w := testutil.DoJSON(t, r, "POST", "/users/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(t, r, "GET", "/users/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfileIncludesCounts(t *testing.T) {
	r, repos := testutil.NewServer(t)
	user, token := testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)
	movie := testutil.CreateMovie(t, repos, "Inception", []string{"Science Fiction"}, 8.8)

	_, err := repos.Favorite.Add(user.ID, movie.ID)
	require.NoError(t, err)

	w := testutil.DoJSON(t, r, "GET", "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		FavoritesCount    int64 `json:"favoritesCount"`
		WatchHistoryCount int64 `json:"watchHistoryCount"`
	}
	testutil.DecodeData(t, w, &data)
	assert.Equal(t, int64(1), data.FavoritesCount)
	assert.Equal(t, int64(0), data.WatchHistoryCount)
}

func TestUpdateProfile(t *testing.T) {
	r, repos := testutil.NewServer(t)
	_, token := testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)
	testutil.CreateUser(t, repos, "bob", "bob@example.com", model.RoleUser)

	// 改名 + 补充资料
	w := testutil.DoJSON(t, r, "PUT", "/users/profile", token, gin.H{
		"userName":    "alice2",
		"phone":       "13800138000",
		"dateOfBirth": "1995-06-15",
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated, err := repos.User.FindByUsername("alice2")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "13800138000", updated.Profile.Phone)
	require.NotNil(t, updated.Profile.DateOfBirth)

	// 用户名被他人占用
	w = testutil.DoJSON(t, r, "PUT", "/users/profile", token, gin.H{"userName": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
