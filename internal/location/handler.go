package location

import (
	"errors"
	"strings"

	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// Handler 网点相关的 HTTP 接口。
type Handler struct {
	repo *Repo
	log  logger.Logger
}

func NewHandler(repo *Repo, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) RegisterRoutes(api iris.Party, admin iris.Party) {
	api.Get("/locations", h.ListLocations)

	admin.Get("/locations", h.ListAllLocations)
	admin.Post("/locations", h.CreateLocation)
	admin.Put("/locations/{id}", h.UpdateLocation)
	admin.Delete("/locations/{id}", h.DeleteLocation)
}

// LocationInput 创建/更新网点的入参。
type LocationInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Address  string `json:"address" validate:"max=255"`
	City     string `json:"city" validate:"max=100"`
	IsActive *bool  `json:"is_active"`
}

// ListLocations 预订表单用：只返回可选网点。
func (h *Handler) ListLocations(ctx iris.Context) {
	locations, err := h.repo.List(ctx.Request().Context(), true)
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(iris.Map{"data": locations})
}

func (h *Handler) ListAllLocations(ctx iris.Context) {
	locations, err := h.repo.List(ctx.Request().Context(), false)
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(iris.Map{"data": locations})
}

func (h *Handler) CreateLocation(ctx iris.Context) {
	var in LocationInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	l := &Location{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Address:  strings.TrimSpace(in.Address),
		City:     strings.TrimSpace(in.City),
		IsActive: active,
	}
	if err := h.repo.Create(ctx.Request().Context(), l); err != nil {
		h.internalError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	_ = ctx.JSON(l)
}

func (h *Handler) UpdateLocation(ctx iris.Context) {
	id := ctx.Params().Get("id")
	l, err := h.repo.FindByID(ctx.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "not_found", "message": "location not found"})
		return
	}
	if err != nil {
		h.internalError(ctx, err)
		return
	}

	var in LocationInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}
	l.Name = strings.TrimSpace(in.Name)
	l.Address = strings.TrimSpace(in.Address)
	l.City = strings.TrimSpace(in.City)
	if in.IsActive != nil {
		l.IsActive = *in.IsActive
	}
	if err := h.repo.Update(ctx.Request().Context(), l); err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(l)
}

func (h *Handler) DeleteLocation(ctx iris.Context) {
	id := ctx.Params().Get("id")
	if _, err := h.repo.FindByID(ctx.Request().Context(), id); errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "not_found", "message": "location not found"})
		return
	} else if err != nil {
		h.internalError(ctx, err)
		return
	}
	if err := h.repo.Delete(ctx.Request().Context(), id); err != nil {
		h.internalError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

func (h *Handler) internalError(ctx iris.Context, err error) {
	if h.log != nil {
		h.log.Errorf("location handler error path=%s err=%v", ctx.Path(), err)
	}
	ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "internal", "message": "internal error"})
}
