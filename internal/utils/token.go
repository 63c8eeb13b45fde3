package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSessionToken 生成不透明会话令牌
// 形如 ch-<userID>-<毫秒时间戳>-<随机串>，随机部分保证不可猜测
func NewSessionToken(userID int) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ch-%d-%d-%s", userID, time.Now().UnixMilli(), random)
}
