package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 成本；测试里可调低
var BcryptCost = bcrypt.DefaultCost

// 占位哈希，用户不存在时也跑一次 bcrypt，避免时序差异
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("syriazone-dummy"), bcrypt.MinCost)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// Digest 旧系统的密码摘要：SHA-256，大写十六进制，无盐
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyPassword 同时支持 bcrypt 和旧的 Digest 格式。
// needsRehash=true 表示校验通过但仍是旧格式，调用方应改存 bcrypt。
func VerifyPassword(pw, stored string) (ok bool, needsRehash bool) {
	if isBcrypt(stored) {
		return CheckPassword(pw, stored), false
	}
	if !isLegacyDigest(stored) {
		return false, false
	}
	got := Digest(pw)
	if subtle.ConstantTimeCompare([]byte(got), []byte(stored)) != 1 {
		return false, false
	}
	return true, true
}

// BurnCompare 对固定哈希做一次比较，结果丢弃
func BurnCompare(pw string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pw))
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func isLegacyDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}
