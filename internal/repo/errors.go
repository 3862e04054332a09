package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDupKey 优先认 TranslateError 的结果，兜底按驱动报错文本判断
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "sqlstate 23505")
}
