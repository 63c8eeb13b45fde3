package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/testutil"
)

func TestCreateMapsUniqueViolation(t *testing.T) {
	repos := repository.NewRepositories(testutil.NewTestDB(t), false)

	_, err := repos.User.Create("alice", "alice@example.com", "pass1234", model.RoleUser)
	require.NoError(t, err)

	// 绕过处理层预检查直接撞唯一索引，错误映射成哨兵而不是底层驱动错误
	_, err = repos.User.Create("other", "alice@example.com", "pass1234", model.RoleUser)
	assert.ErrorIs(t, err, repository.ErrDuplicateUser)

	_, err = repos.User.Create("alice", "alice2@example.com", "pass1234", model.RoleUser)
	assert.ErrorIs(t, err, repository.ErrDuplicateUser)
}
