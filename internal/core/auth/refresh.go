package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const refreshTokenBytes = 32

// NewRefreshToken 返回给客户端的明文和入库用的哈希
func NewRefreshToken() (plain, hash string, err error) {
	b := make([]byte, refreshTokenBytes)
	if _, err = rand.Read(b); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(b)
	return plain, HashRefreshToken(plain), nil
}

func HashRefreshToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
