package response

import "net/http"

// 常见业务 系统级错误码（直接基于 HTTP 语义）
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeTooLarge        = 413
	CodeTooManyRequests = 429
	CodeServerError     = 500
	CodeUnavailable     = 503
	CodeTimeout         = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:              "OK",
	CodeBadRequest:      "Bad Request",
	CodeUnauthorized:    "Unauthorized",
	CodeForbidden:       "Forbidden",
	CodeNotFound:        "Not Found",
	CodeTooLarge:        "Request Entity Too Large",
	CodeTooManyRequests: "Too Many Requests",
	CodeServerError:     "Internal Server Error",
	CodeUnavailable:     "Service Unavailable",
	CodeTimeout:         "Gateway Timeout",
}

// Status 业务码 → HTTP 状态；0 即 200
func Status(code int) int {
	if code == CodeOK {
		return http.StatusOK
	}
	if code >= 400 && code < 600 {
		return code
	}
	return http.StatusInternalServerError
}
