package user

import (
	"errors"
	"strings"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/SwiftFleet/SwiftFleet/internal/common/server"
)

// Handler 用户目录的 HTTP 接口。注册/登录在外部身份系统，这里只做
// 归属信息的查询与员工后台的目录维护。
type Handler struct {
	repo *Repo
	log  logger.Logger
}

func NewHandler(repo *Repo, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) RegisterRoutes(api iris.Party, admin iris.Party) {
	api.Get("/me", h.Me)

	admin.Get("/users", h.ListUsers)
	admin.Post("/users", h.CreateUser)
}

// Me 当前 token 对应的用户；本地目录里还没有记录时只回 token 信息。
func (h *Handler) Me(ctx iris.Context) {
	ai, ok := server.AuthFromContext(ctx)
	if !ok {
		ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"error": "unauthorized", "message": "authentication required"})
		return
	}

	u, err := h.repo.FindByID(ctx.Request().Context(), ai.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = ctx.JSON(iris.Map{"id": ai.Subject, "roles": ai.Roles})
		return
	}
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(u)
}

func (h *Handler) ListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	size := ctx.URLParamIntDefault("page_size", 20)
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 20
	}

	users, total, err := h.repo.List(ctx.Request().Context(), (page-1)*size, size)
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(iris.Map{"data": users, "total": total, "page": page, "page_size": size})
}

// UserInput 员工录入用户目录的入参。
type UserInput struct {
	ID       string   `json:"id" validate:"required,max=36"`
	Username string   `json:"username" validate:"required,max=64"`
	Email    string   `json:"email" validate:"omitempty,email"`
	FullName string   `json:"full_name" validate:"max=128"`
	Roles    []string `json:"roles" validate:"dive,oneof=customer staff admin"`
}

func (h *Handler) CreateUser(ctx iris.Context) {
	var in UserInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}

	u := &User{
		ID:       strings.TrimSpace(in.ID),
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		FullName: strings.TrimSpace(in.FullName),
		Roles:    RolesJoin(in.Roles),
	}
	if u.Roles == "" {
		u.Roles = "customer"
	}
	if err := h.repo.Create(ctx.Request().Context(), u); err != nil {
		h.internalError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	_ = ctx.JSON(u)
}

func (h *Handler) internalError(ctx iris.Context, err error) {
	if h.log != nil {
		h.log.Errorf("user handler error path=%s err=%v", ctx.Path(), err)
	}
	ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "internal", "message": "internal error"})
}
