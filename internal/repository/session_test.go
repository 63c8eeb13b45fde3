package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/testutil"
)

func TestIssueSingleSession(t *testing.T) {
	repos := repository.NewRepositories(testutil.NewTestDB(t), false)
	user, err := repos.User.Create("alice", "alice@example.com", "pass1234", model.RoleUser)
	require.NoError(t, err)

	first, err := repos.Session.Issue(user.ID)
	require.NoError(t, err)
	second, err := repos.Session.Issue(user.ID)
	require.NoError(t, err)

	// 单会话策略：新登录挤掉旧令牌
	resolved, err := repos.Session.ResolveUser(first)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	resolved, err = repos.Session.ResolveUser(second)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)

	count, err := repos.Session.CountForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIssueMultiSession(t *testing.T) {
	repos := repository.NewRepositories(testutil.NewTestDB(t), true)
	user, err := repos.User.Create("alice", "alice@example.com", "pass1234", model.RoleUser)
	require.NoError(t, err)

	first, err := repos.Session.Issue(user.ID)
	require.NoError(t, err)
	second, err := repos.Session.Issue(user.ID)
	require.NoError(t, err)

	// 多会话策略：两个令牌同时有效
	for _, token := range []string{first, second} {
		resolved, err := repos.Session.ResolveUser(token)
		require.NoError(t, err)
		require.NotNil(t, resolved)
	}

	count, err := repos.Session.CountForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteOrphanedSessions(t *testing.T) {
	repos := repository.NewRepositories(testutil.NewTestDB(t), true)

	active, err := repos.User.Create("alice", "alice@example.com", "pass1234", model.RoleUser)
	require.NoError(t, err)
	inactive, err := repos.User.Create("bob", "bob@example.com", "pass1234", model.RoleUser)
	require.NoError(t, err)

	_, err = repos.Session.Issue(active.ID)
	require.NoError(t, err)
	_, err = repos.Session.Issue(inactive.ID)
	require.NoError(t, err)

	_, err = repos.User.Deactivate(inactive.ID)
	require.NoError(t, err)

	cleaned, err := repos.Session.DeleteOrphaned()
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleaned)

	// 活跃用户的会话不受影响
	count, err := repos.Session.CountForUser(active.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
