package ez

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	resp "syriazone/internal/transport/http/response"
	"syriazone/pkg/utils"
)

// Hook
type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	BeforeUpdate func(c *gin.Context, m *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB // 自定义筛选/排序
	AfterGet     func(c *gin.Context, m *T)
	// Create 替换默认 INSERT（如购物车同商品合并数量）
	Create func(c *gin.Context, db *gorm.DB, m *T) error
}

type CrudConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup // 已鉴权分组（能拿 userId）
	Path  string
	New   func() *T

	Hooks CrudHooks[T]

	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowUpdate bool
	AllowDelete bool

	IDField    string // 默认 "ID"
	OwnerField string // 默认优先 "OwnerID"，其次 "UserID"/"UID"

	// 允许 PUT 写入的列（snake_case）；非空时按列写入，零值也会落库
	UpdateColumns []string

	NoAutoID bool          // 默认自动生成 ID
	IDGen    func() string // 默认 utils.NewID

	// 列表排序（列名按模型字段自动转 snake_case），为空则按 ID DESC
	OrderBy string // 例如 "created_at DESC"
}

// 反射 & 工具
func (c *CrudConfig[T]) idFieldCandidates() []string {
	if c.IDField != "" {
		return []string{c.IDField, "ID", "Id"}
	}
	return []string{"ID", "Id"}
}

func (c *CrudConfig[T]) ownerFieldCandidates() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "OwnerID", "UserID", "UID"}
	}
	return []string{"OwnerID", "UserID", "UID"}
}

func getStringFieldPtr(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	// 按候选顺序找，OwnerField 显式配置时优先
	for _, cand := range candidates {
		f, ok := t.FieldByName(cand)
		if !ok || f.PkgPath != "" || len(f.Index) != 1 {
			continue
		}
		fv := v.Field(f.Index[0])
		if fv.Kind() == reflect.String && fv.CanSet() {
			return fv.Addr().Interface().(*string), true
		}
	}
	return nil, false
}

func readStringField(obj any, candidates []string) (string, bool) {
	p, ok := getStringFieldPtr(obj, candidates)
	if !ok {
		return "", false
	}
	return *p, true
}

func writeStringField(obj any, candidates []string, val string) bool {
	p, ok := getStringFieldPtr(obj, candidates)
	if !ok {
		return false
	}
	*p = val
	return true
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func toSnake(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	prevUpper := false
	for i, r := range s {
		if unicode.IsUpper(r) {
			// "ID" → "id"，"UserID" → "user_id"
			if i > 0 && !prevUpper {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevUpper = true
		} else {
			b.WriteRune(r)
			prevUpper = false
		}
	}
	return b.String()
}

// Page 列表分页参数（page 从 1 开始，size 上限 100）
func Page(c *gin.Context) (page, size, offset int) {
	page = atoiDefault(c.Query("page"), 1)
	size = atoiDefault(c.Query("size"), 20)
	if size > 100 {
		size = 20
	}
	return page, size, (page - 1) * size
}

// Crud 注册（无需模型实现任何接口）；表结构由 database.Migrate 统一维护
func Crud[T any](cfg CrudConfig[T]) {
	// 默认放开所有操作
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowUpdate && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowUpdate, cfg.AllowDelete = true, true, true, true, true
	}
	if cfg.IDGen == nil {
		cfg.IDGen = utils.NewID
	}

	idFieldNames := cfg.idFieldCandidates()
	ownerFieldNames := cfg.ownerFieldCandidates()

	// id + owner 过滤；用结构体 Where 自动映射列名，避免手写 owner_id
	scoped := func(id, uid string) *T {
		f := cfg.New()
		if id != "" {
			_ = writeStringField(f, idFieldNames, id)
		}
		_ = writeStringField(f, ownerFieldNames, uid)
		return f
	}
	db := func(c *gin.Context) *gorm.DB { return cfg.DB.WithContext(c.Request.Context()) }

	// Create
	if cfg.AllowCreate {
		cfg.Group.POST(cfg.Path, func(c *gin.Context) {
			uid := c.GetString("userId")
			if uid == "" {
				resp.JSON(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			m := cfg.New()
			if err := c.ShouldBindJSON(m); err != nil {
				resp.JSON(c, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			// 自动生成 ID（若开启且为空）
			if !cfg.NoAutoID {
				if id, ok := readStringField(m, idFieldNames); !ok {
					WriteError(c, Internal("id field not found", nil))
					return
				} else if strings.TrimSpace(id) == "" {
					_ = writeStringField(m, idFieldNames, cfg.IDGen())
				}
			}
			// 写 Owner（客户端传入的 owner 一律覆盖）
			if !writeStringField(m, ownerFieldNames, uid) {
				WriteError(c, Internal("owner field not found", nil))
				return
			}

			if cfg.Hooks.BeforeCreate != nil {
				if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
					WriteError(c, err)
					return
				}
			}
			var err error
			if cfg.Hooks.Create != nil {
				err = cfg.Hooks.Create(c, db(c), m)
			} else {
				err = db(c).Create(m).Error
			}
			if err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					err = BadRequest("already exists")
				}
				WriteError(c, err)
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, m)
			}
			resp.JSON(c, resp.OK(m))
		})
	}

	// List（我的）
	if cfg.AllowList {
		cfg.Group.GET(cfg.Path, func(c *gin.Context) {
			uid := c.GetString("userId")
			if uid == "" {
				resp.JSON(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			page, size, offset := Page(c)

			q := db(c).Model(cfg.New()).Where(scoped("", uid))
			if cfg.Hooks.ScopeList != nil {
				q = cfg.Hooks.ScopeList(c, q)
			}
			// Count 与 Find 复用同一条件
			q = q.Session(&gorm.Session{})

			var total int64
			if err := q.Count(&total).Error; err != nil {
				WriteError(c, err)
				return
			}

			items := make([]T, 0, size)
			// 动态排序：优先按配置 OrderBy，否则按 ID DESC
			if cfg.OrderBy != "" {
				q = q.Order(cfg.OrderBy)
			} else {
				q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: toSnake(idFieldNames[0])}, Desc: true})
			}
			if err := q.Limit(size).Offset(offset).Find(&items).Error; err != nil {
				WriteError(c, err)
				return
			}
			if cfg.Hooks.AfterGet != nil {
				for i := range items {
					cfg.Hooks.AfterGet(c, &items[i])
				}
			}
			resp.JSON(c, resp.OK(gin.H{
				"list": items, "total": total, "page": page, "size": size,
			}))
		})
	}

	// Get
	if cfg.AllowGet {
		cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
			uid := c.GetString("userId")
			if uid == "" {
				resp.JSON(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			m := cfg.New()
			if err := db(c).Where(scoped(c.Param("id"), uid)).First(m).Error; err != nil {
				WriteError(c, err)
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, m)
			}
			resp.JSON(c, resp.OK(m))
		})
	}

	// Update
	if cfg.AllowUpdate {
		cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
			uid := c.GetString("userId")
			if uid == "" {
				resp.JSON(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			id := c.Param("id")

			// 先确认归属；请求体叠加在当前记录上，未传的字段保持原值
			in := cfg.New()
			if err := db(c).Where(scoped(id, uid)).First(in).Error; err != nil {
				WriteError(c, err)
				return
			}
			if err := c.ShouldBindJSON(in); err != nil {
				resp.JSON(c, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			// 强制保持 ID/Owner
			_ = writeStringField(in, idFieldNames, id)
			_ = writeStringField(in, ownerFieldNames, uid)

			if cfg.Hooks.BeforeUpdate != nil {
				if err := cfg.Hooks.BeforeUpdate(c, in); err != nil {
					WriteError(c, err)
					return
				}
			}
			q := db(c).Model(cfg.New()).Where(scoped(id, uid))
			if len(cfg.UpdateColumns) > 0 {
				q = q.Select(cfg.UpdateColumns)
			}
			if err := q.Updates(in).Error; err != nil {
				WriteError(c, err)
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, in)
			}
			resp.JSON(c, resp.OK(gin.H{"id": id}))
		})
	}

	// Delete
	if cfg.AllowDelete {
		cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
			uid := c.GetString("userId")
			if uid == "" {
				resp.JSON(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			id := c.Param("id")

			res := db(c).Where(scoped(id, uid)).Delete(cfg.New())
			if res.Error != nil {
				WriteError(c, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				resp.JSON(c, resp.Error(resp.CodeNotFound, "not found"))
				return
			}
			resp.JSON(c, resp.OK(gin.H{"id": id}))
		})
	}
}
