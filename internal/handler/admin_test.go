package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/testutil"
)

func TestDashboard(t *testing.T) {
	r, repos := testutil.NewServer(t)
	_, adminToken := testutil.CreateUser(t, repos, "root", "root@example.com", model.RoleAdmin)
	user, _ := testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)

	movie := testutil.CreateMovie(t, repos, "Inception", []string{"Science Fiction"}, 8.8)
	_, err := repos.History.Upsert(user.ID, movie.ID, 60)
	require.NoError(t, err)

	w := testutil.DoJSON(t, r, "GET", "/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Users         model.UserStats  `json:"users"`
		Movies        model.MovieStats `json:"movies"`
		RecentSignups int64            `json:"recentSignups"`
		TopMovies     []model.TopMovie `json:"topMovies"`
	}
	testutil.DecodeData(t, w, &data)

	assert.Equal(t, int64(2), data.Users.TotalUsers)
	assert.Equal(t, int64(1), data.Users.AdminUsers)
	assert.Equal(t, int64(1), data.Users.RegularUsers)
	assert.Equal(t, int64(2), data.RecentSignups)
	assert.Equal(t, int64(1), data.Movies.TotalMovies)
	assert.Equal(t, int64(1), data.Movies.TotalViews)
	require.Len(t, data.TopMovies, 1)
	assert.Equal(t, "Inception", data.TopMovies[0].Title)
}

func TestAdminUsersList(t *testing.T) {
	r, repos := testutil.NewServer(t)
	_, adminToken := testutil.CreateUser(t, repos, "root", "root@example.com", model.RoleAdmin)
	testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)
	testutil.CreateUser(t, repos, "bob", "bob@example.com", model.RoleUser)

	// 角色过滤
	w := testutil.DoJSON(t, r, "GET", "/admin/users?role=user", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []model.User
	testutil.DecodeData(t, w, &users)
	assert.Len(t, users, 2)

	// 搜索
	w = testutil.DoJSON(t, r, "GET", "/admin/users?search=ali", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeData(t, w, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestAdminUserByID(t *testing.T) {
	r, repos := testutil.NewServer(t)
	_, adminToken := testutil.CreateUser(t, repos, "root", "root@example.com", model.RoleAdmin)
	user, _ := testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)
	movie := testutil.CreateMovie(t, repos, "Inception", []string{"Science Fiction"}, 8.8)
	_, err := repos.Favorite.Add(user.ID, movie.ID)
	require.NoError(t, err)

	w := testutil.DoJSON(t, r, "GET", fmt.Sprintf("/admin/users/%d", user.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		User           model.User `json:"user"`
		FavoritesCount int64      `json:"favoritesCount"`
	}
	testutil.DecodeData(t, w, &data)
	assert.Equal(t, "alice", data.User.Username)
	assert.Equal(t, int64(1), data.FavoritesCount)

	w = testutil.DoJSON(t, r, "GET", "/admin/users/9999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUpdateUserDeactivationRevokesSessions(t *testing.T) {
	r, repos := testutil.NewServer(t)
	_, adminToken := testutil.CreateUser(t, repos, "root", "root@example.com", model.RoleAdmin)
	user, userToken := testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)

	w := testutil.DoJSON(t, r, "PUT", fmt.Sprintf("/admin/users/%d", user.ID), adminToken, gin.H{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)

	// 被停用用户的令牌立即失效
	w = testutil.DoJSON(t, r, "GET", "/users/profile", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	count, err := repos.Session.CountForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAdminDeleteUser(t *testing.T) {
	r, repos := testutil.NewServer(t)
	admin, adminToken := testutil.CreateUser(t, repos, "root", "root@example.com", model.RoleAdmin)
	user, userToken := testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)

	// 不能删除自己
	w := testutil.DoJSON(t, r, "DELETE", fmt.Sprintf("/admin/users/%d", admin.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 停用他人
	w = testutil.DoJSON(t, r, "DELETE", fmt.Sprintf("/admin/users/%d", user.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := repos.User.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)

	w = testutil.DoJSON(t, r, "GET", "/users/profile", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 不存在的用户
	w = testutil.DoJSON(t, r, "DELETE", "/admin/users/9999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminResetPassword(t *testing.T) {
	r, repos := testutil.NewServer(t)
	_, adminToken := testutil.CreateUser(t, repos, "root", "root@example.com", model.RoleAdmin)
	user, userToken := testutil.CreateUser(t, repos, "alice", "alice@example.com", model.RoleUser)

	w := testutil.DoJSON(t, r, "POST", fmt.Sprintf("/admin/users/%d/reset-password", user.ID), adminToken,
		gin.H{"newPassword": "newpass456"})
	require.Equal(t, http.StatusOK, w.Code)

	// 旧令牌被撤销
	w = testutil.DoJSON(t, r, "GET", "/users/profile", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 旧密码登录失败，新密码成功
	w = testutil.DoJSON(t, r, "POST", "/users/login", "", gin.H{"email": "alice@example.com", "password": "pass1234"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.DoJSON(t, r, "POST", "/users/login", "", gin.H{"email": "alice@example.com", "password": "newpass456"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminCreateUserWithRole(t *testing.T) {
	r, repos := testutil.NewServer(t)
	_, adminToken := testutil.CreateUser(t, repos, "root", "root@example.com", model.RoleAdmin)

	w := testutil.DoJSON(t, r, "POST", "/admin/users", adminToken, gin.H{
		"userName": "operator", "email": "op@example.com", "password": "secret123", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created, err := repos.User.FindByEmail("op@example.com")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, model.RoleAdmin, created.Role)
}
