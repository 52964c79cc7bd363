package car

import (
	"errors"
	"strings"

	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// Handler 车辆相关的 HTTP 接口。
type Handler struct {
	repo *Repo
	log  logger.Logger
}

func NewHandler(repo *Repo, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// RegisterRoutes 注册路由。api 为普通用户路由，admin 为员工路由。
func (h *Handler) RegisterRoutes(api iris.Party, admin iris.Party) {
	api.Get("/cars", h.ListCars)
	api.Get("/cars/{id}", h.GetCar)

	admin.Post("/cars", h.CreateCar)
	admin.Put("/cars/{id}", h.UpdateCar)
	admin.Delete("/cars/{id}", h.DeleteCar)
	admin.Get("/cars/stats", h.FleetStats)
}

// CarInput 创建/更新车辆的入参。金额单位：分。
type CarInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Model        string `json:"model" validate:"max=100"`
	PlateNumber  string `json:"plate_number" validate:"required,max=32"`
	PricePerDay  int64  `json:"price_per_day" validate:"required,min=1"`
	ImageURL     string `json:"image_url" validate:"omitempty,max=255"`
	Availability *bool  `json:"availability"`
}

func (h *Handler) ListCars(ctx iris.Context) {
	f := ListFilter{
		Search:   strings.TrimSpace(ctx.URLParam("search")),
		MinPrice: ctx.URLParamInt64Default("min_price", 0),
		MaxPrice: ctx.URLParamInt64Default("max_price", 0),
		Sort:     ctx.URLParam("sort"),
		ShowAll:  ctx.URLParamBoolDefault("show_all", false),
	}
	page := ctx.URLParamIntDefault("page", 1)
	size := ctx.URLParamIntDefault("page_size", 20)
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 20
	}
	f.Offset = (page - 1) * size
	f.Limit = size

	cars, total, err := h.repo.List(ctx.Request().Context(), f)
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(iris.Map{"data": cars, "total": total, "page": page, "page_size": size})
}

func (h *Handler) GetCar(ctx iris.Context) {
	id := ctx.Params().Get("id")
	c, err := h.repo.FindByID(ctx.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "not_found", "message": "car not found"})
		return
	}
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(c)
}

func (h *Handler) CreateCar(ctx iris.Context) {
	var in CarInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}

	plate := strings.TrimSpace(in.PlateNumber)
	if _, err := h.repo.FindByPlate(ctx.Request().Context(), plate); err == nil {
		ctx.StopWithJSON(iris.StatusConflict, iris.Map{"error": "conflict", "message": "plate_number already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.internalError(ctx, err)
		return
	}

	availability := true
	if in.Availability != nil {
		availability = *in.Availability
	}
	c := &Car{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Model:        strings.TrimSpace(in.Model),
		PlateNumber:  plate,
		PricePerDay:  in.PricePerDay,
		ImageURL:     strings.TrimSpace(in.ImageURL),
		Availability: availability,
	}
	if err := h.repo.Create(ctx.Request().Context(), c); err != nil {
		h.internalError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	_ = ctx.JSON(c)
}

func (h *Handler) UpdateCar(ctx iris.Context) {
	id := ctx.Params().Get("id")
	c, err := h.repo.FindByID(ctx.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "not_found", "message": "car not found"})
		return
	}
	if err != nil {
		h.internalError(ctx, err)
		return
	}

	var in CarInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}

	plate := strings.TrimSpace(in.PlateNumber)
	if plate != c.PlateNumber {
		if _, err := h.repo.FindByPlate(ctx.Request().Context(), plate); err == nil {
			ctx.StopWithJSON(iris.StatusConflict, iris.Map{"error": "conflict", "message": "plate_number already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.internalError(ctx, err)
			return
		}
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Model = strings.TrimSpace(in.Model)
	c.PlateNumber = plate
	c.PricePerDay = in.PricePerDay
	c.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.Availability != nil {
		c.Availability = *in.Availability
	}
	if err := h.repo.Update(ctx.Request().Context(), c); err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(c)
}

func (h *Handler) DeleteCar(ctx iris.Context) {
	id := ctx.Params().Get("id")
	if _, err := h.repo.FindByID(ctx.Request().Context(), id); errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "not_found", "message": "car not found"})
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

func (h *Handler) FleetStats(ctx iris.Context) {
	s, err := h.repo.Stats(ctx.Request().Context())
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(s)
}

func (h *Handler) internalError(ctx iris.Context, err error) {
	if h.log != nil {
		h.log.Errorf("car handler error path=%s err=%v", ctx.Path(), err)
	}
	ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "internal", "message": "internal error"})
}
