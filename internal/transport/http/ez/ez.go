package ez

import (
	"errors"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syriazone/internal/domain"
	resp "syriazone/internal/transport/http/response"
)

// EZ 轻封装：handler 只返回 (data, error)，信封与状态码统一处理
type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

func (e EZ) Group() *gin.RouterGroup { return e.g }

func (e EZ) GET(path string, h func(c *gin.Context) (any, error)) {
	e.g.GET(path, func(c *gin.Context) {
		data, err := h(c)
		if err != nil {
			WriteError(c, err)
			return
		}
		resp.JSON(c, resp.OK(data))
	})
}

func POST[T any](e EZ, path string, h func(c *gin.Context, in T) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			resp.JSON(c, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		data, err := h(c, in)
		if err != nil {
			WriteError(c, err)
			return
		}
		resp.JSON(c, resp.OK(data))
	})
}

// POSTFILES 处理 multipart/form-data 多文件上传
func POSTFILES(e EZ, path string, fieldName string, h func(c *gin.Context, files []*multipart.FileHeader) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			resp.JSON(c, resp.Error(resp.CodeBadRequest, "invalid multipart form: "+err.Error()))
			return
		}
		files := form.File[fieldName]
		if len(files) == 0 {
			resp.JSON(c, resp.Error(resp.CodeBadRequest, "no files uploaded"))
			return
		}

		data, err := h(c, files)
		if err != nil {
			WriteError(c, err)
			return
		}
		resp.JSON(c, resp.OK(data))
	})
}

// StatusOf 错误 → 业务码；Conflict 与校验错误一样按 400 返回
func StatusOf(err error) int {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return resp.CodeNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return resp.CodeBadRequest
	}
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return resp.CodeNotFound
	case domain.KindUnauthorized:
		return resp.CodeUnauthorized
	case domain.KindForbidden:
		return resp.CodeForbidden
	case domain.KindConflict, domain.KindValidation:
		return resp.CodeBadRequest
	}
	return resp.CodeServerError
}

// WriteError 5xx 只回通用文案，原因挂到 c.Errors 由访问日志输出
func WriteError(c *gin.Context, err error) {
	code := StatusOf(err)
	if code >= resp.CodeServerError {
		_ = c.Error(err)
		msg := "internal error"
		var ae *AErr
		if errors.As(err, &ae) && ae.Msg != "" {
			msg = ae.Msg
		}
		resp.JSON(c, resp.Error(code, msg))
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resp.JSON(c, resp.Error(code, "not found"))
		return
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		resp.JSON(c, resp.Error(code, "already exists"))
		return
	}
	resp.JSON(c, resp.Error(code, err.Error()))
}
