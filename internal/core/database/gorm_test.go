package database

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		user string
		pass string
		want string
	}{
		{"empty", "", "", "", ""},
		{"native dsn untouched", "root:pw@tcp(db:3306)/shop?parseTime=true", "", "", "root:pw@tcp(db:3306)/shop?parseTime=true"},
		{"url form", "mysql://root:pw@db:3306/shop", "", "", "root:pw@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true"},
		{"overrides", "mysql://root:pw@db:3306/shop", "app", "secret", "app:secret@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true"},
		{"no credentials", "mysql://db:3306/shop", "", "", "tcp(db:3306)/shop?charset=utf8mb4&parseTime=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestNormalizeMySQLDSN_JDBCParams(t *testing.T) {
	got := normalizeMySQLDSN("jdbc:mysql://db:3306/shop?user=u&password=p&useSSL=false&characterEncoding=utf8&useUnicode=true&serverTimezone=Asia%2FDamascus", "", "")

	require.True(t, strings.HasPrefix(got, "u:p@tcp(db:3306)/shop?"))
	q, err := url.ParseQuery(got[strings.Index(got, "?")+1:])
	require.NoError(t, err)
	assert.Equal(t, "false", q.Get("tls"))
	assert.Equal(t, "utf8", q.Get("charset"))
	assert.Equal(t, "Asia/Damascus", q.Get("loc"))
	assert.Equal(t, "true", q.Get("parseTime"))
	assert.Empty(t, q.Get("useUnicode"))
	assert.Empty(t, q.Get("user"))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/shop", maskDSN("root:pw@tcp(db:3306)/shop"))
	assert.Equal(t, "tcp(db:3306)/shop", maskDSN("tcp(db:3306)/shop"))
}

func TestDialector_Unsupported(t *testing.T) {
	_, err := Dialector(Opts{Driver: "sqlserver"}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}
