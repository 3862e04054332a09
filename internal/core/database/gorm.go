package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"

	"syriazone/internal/core/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported db driver")

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

func Dialector(o Opts, l *zap.Logger) (gorm.Dialector, error) {
	switch o.Driver {
	case "postgres":
		return postgres.Open(o.DSN), nil
	case "mysql":
		dsn := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		l.Info("mysql dsn normalized", zap.String("dsn", maskDSN(dsn)))
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
}

func NewGorm(o Opts, l *zap.Logger) (*gorm.DB, error) {
	dial, err := Dialector(o, l)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         newGormLogger(o.LogLevel, l),
		TranslateError: true, // 唯一冲突 → gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	db = db.Session(&gorm.Session{
		PrepareStmt:            true, // 预编译缓存
		CreateBatchSize:        200,
		SkipDefaultTransaction: true, // 只在需要时手动开 Tx
	})
	return db, nil
}

func newGormLogger(level string, l *zap.Logger) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	return gormlogger.New(logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

func maskDSN(dsn string) string {
	if at := strings.Index(dsn, "@"); at > 0 {
		if colon := strings.Index(dsn[:at], ":"); colon > 0 {
			return dsn[:colon+1] + "****" + dsn[at:]
		}
	}
	return dsn
}

// normalizeMySQLDSN 把 jdbc:/mysql:// 形式转成 go-sql-driver 语法
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimSpace(input)
	if in == "" {
		return in
	}
	in = strings.TrimPrefix(in, "jdbc:")
	// 已是 user:pass@tcp(...) 形式，不改写
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}

	u, err := url.Parse(in)
	if err != nil {
		return in // 交给驱动报错
	}
	hostport := u.Host
	dbname := strings.TrimPrefix(u.Path, "/")

	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	q := u.Query()
	if v := q.Get("user"); v != "" {
		user = v
	}
	if v := q.Get("password"); v != "" {
		pass = v
	}
	q.Del("user")
	q.Del("password")
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	if q.Get("characterEncoding") != "" && q.Get("charset") == "" {
		q.Set("charset", q.Get("characterEncoding"))
	}
	// JDBC 专用参数，go-sql-driver 不认
	q.Del("characterEncoding")
	q.Del("useUnicode")
	q.Del("zeroDateTimeBehavior")

	if v := strings.ToLower(q.Get("useSSL")); v != "" {
		switch v {
		case "true", "1":
			q.Set("tls", "true")
		case "skip-verify", "preferred":
			q.Set("tls", v)
		default:
			q.Set("tls", "false")
		}
		q.Del("useSSL")
	}
	if tz := q.Get("serverTimezone"); tz != "" {
		q.Set("loc", tz)
		q.Del("serverTimezone")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, hostport, dbname)
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}
