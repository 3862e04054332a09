package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	resp "syriazone/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindURI   Binder = "uri"   // 从路径参数绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// AErr 传输层错误；业务错误优先用 domain.Error
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/User/login"、"/orders/:id/status"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	UseTx   bool     // 是否包事务（gorm.Transaction），db 为 nil 时忽略
	Handler func(c *gin.Context, db *gorm.DB, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口；走 service 的 action 传 nil db
func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if c.GetString("userId") == "" {
				resp.JSON(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 && !contains(a.Roles, c.GetString("role")) {
				resp.JSON(c, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			resp.JSON(c, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行（可选事务）
		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		switch {
		case db == nil:
			out, err = run(nil)
		case a.UseTx:
			err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		default:
			out, err = run(db.WithContext(c.Request.Context()))
		}

		// 4) 统一错误映射
		if err != nil {
			WriteError(c, err)
			return
		}
		resp.JSON(c, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
