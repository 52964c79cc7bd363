package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/SwiftFleet/SwiftFleet/internal/common/server"
)

// Handler 预订相关的 HTTP 接口。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes 注册路由。api 为普通用户路由（owner 校验在 handler 内），
// admin 为员工路由。
func (h *Handler) RegisterRoutes(api iris.Party, admin iris.Party) {
	api.Post("/bookings", h.CreateBooking)
	api.Get("/bookings", h.MyBookings)
	api.Get("/bookings/{id}", h.GetBooking)
	api.Put("/bookings/{id}", h.EditBooking)
	api.Get("/cars/{id}/calendar", h.CarCalendar)
	api.Get("/booking-options", h.BookingOptions)

	admin.Get("/bookings", h.ListBookings)
	admin.Get("/bookings/counts", h.StatusCounts)
	admin.Post("/bookings/{id}/{action}", h.TransitionBooking)
}

// BookingInput 创建/修改预订的入参。日期格式 2006-01-02，时间格式 15:04。
type BookingInput struct {
	CarID            string   `json:"car_id" validate:"required,uuid4"`
	StartDate        string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	PickupLocationID string   `json:"pickup_location_id" validate:"omitempty,uuid4"`
	ReturnLocationID string   `json:"return_location_id" validate:"omitempty,uuid4"`
	PickupTime       string   `json:"pickup_time" validate:"omitempty,datetime=15:04"`
	ReturnTime       string   `json:"return_time" validate:"omitempty,datetime=15:04"`
	PaymentMethod    string   `json:"payment_method" validate:"omitempty,oneof=credit_card debit_card paypal cash"`
	Options          []string `json:"options" validate:"dive,oneof=gps_navigation child_seat additional_driver"`
	CustomerNotes    string   `json:"customer_notes" validate:"max=2000"`
}

func (in *BookingInput) dates() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return
	}
	end, err = time.Parse("2006-01-02", in.EndDate)
	return
}

func (h *Handler) CreateBooking(ctx iris.Context) {
	ai, ok := server.AuthFromContext(ctx)
	if !ok {
		ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"error": "unauthorized", "message": "authentication required"})
		return
	}

	var in BookingInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}
	start, end, err := in.dates()
	if err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}

	b, err := h.svc.CreateBooking(ctx.Request().Context(), CreateRequest{
		UserID:           ai.Subject,
		CarID:            in.CarID,
		StartDate:        start,
		EndDate:          end,
		PickupLocationID: in.PickupLocationID,
		ReturnLocationID: in.ReturnLocationID,
		PickupTime:       in.PickupTime,
		ReturnTime:       in.ReturnTime,
		PaymentMethod:    PaymentMethod(in.PaymentMethod),
		Options:          in.Options,
		CustomerNotes:    strings.TrimSpace(in.CustomerNotes),
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	_ = ctx.JSON(b)
}

func (h *Handler) MyBookings(ctx iris.Context) {
	ai, ok := server.AuthFromContext(ctx)
	if !ok {
		ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"error": "unauthorized", "message": "authentication required"})
		return
	}
	history, err := h.svc.UserHistory(ctx.Request().Context(), ai.Subject)
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(history)
}

func (h *Handler) GetBooking(ctx iris.Context) {
	b, ok := h.loadOwned(ctx)
	if !ok {
		return
	}
	_ = ctx.JSON(b)
}

func (h *Handler) EditBooking(ctx iris.Context) {
	b, ok := h.loadOwned(ctx)
	if !ok {
		return
	}

	var in BookingInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}
	start, end, err := in.dates()
	if err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
		return
	}

	updated, err := h.svc.EditBooking(ctx.Request().Context(), b.ID, EditRequest{
		StartDate:        start,
		EndDate:          end,
		PickupLocationID: in.PickupLocationID,
		ReturnLocationID: in.ReturnLocationID,
		PickupTime:       in.PickupTime,
		ReturnTime:       in.ReturnTime,
		PaymentMethod:    PaymentMethod(in.PaymentMethod),
		Options:          in.Options,
		CustomerNotes:    strings.TrimSpace(in.CustomerNotes),
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	_ = ctx.JSON(updated)
}

func (h *Handler) CarCalendar(ctx iris.Context) {
	carID := ctx.Params().Get("id")
	periods, err := h.svc.CarCalendar(ctx.Request().Context(), carID)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	_ = ctx.JSON(iris.Map{"car_id": carID, "blocked": periods})
}

// BookingOptions 附加选项菜单（前端展示用，单位：分/天）。
func (h *Handler) BookingOptions(ctx iris.Context) {
	_ = ctx.JSON(iris.Map{"options": OptionMenu()})
}

func (h *Handler) ListBookings(ctx iris.Context) {
	f := ListFilter{
		UserID: strings.TrimSpace(ctx.URLParam("user_id")),
		Status: Status(strings.TrimSpace(ctx.URLParam("status"))),
		Search: strings.TrimSpace(ctx.URLParam("search")),
	}
	if v := ctx.URLParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": "invalid from date"})
			return
		}
		f.FromDate = &t
	}
	if v := ctx.URLParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": "invalid to date"})
			return
		}
		f.ToDate = &t
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

	bookings, total, err := h.svc.ListBookings(ctx.Request().Context(), f)
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(iris.Map{"data": bookings, "total": total, "page": page, "page_size": size})
}

func (h *Handler) StatusCounts(ctx iris.Context) {
	counts, err := h.svc.StatusCounts(ctx.Request().Context())
	if err != nil {
		h.internalError(ctx, err)
		return
	}
	_ = ctx.JSON(counts)
}

func (h *Handler) TransitionBooking(ctx iris.Context) {
	id := ctx.Params().Get("id")
	action := Action(ctx.Params().Get("action"))
	if !action.Valid() {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": "unknown action: " + string(action)})
		return
	}

	// admin_notes 可选，body 为空也合法；但给了 body 就必须能解析。
	var body struct {
		AdminNotes string `json:"admin_notes"`
	}
	if ctx.GetContentLength() > 0 {
		if err := ctx.ReadJSON(&body); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "bad_request", "message": err.Error()})
			return
		}
	}

	b, err := h.svc.Transition(ctx.Request().Context(), id, action, strings.TrimSpace(body.AdminNotes))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	_ = ctx.JSON(b)
}

// loadOwned 取出路径里的预订并校验属于当前用户。员工角色可越过 owner 限制。
func (h *Handler) loadOwned(ctx iris.Context) (*Booking, bool) {
	ai, ok := server.AuthFromContext(ctx)
	if !ok {
		ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"error": "unauthorized", "message": "authentication required"})
		return nil, false
	}

	id := ctx.Params().Get("id")
	b, err := h.svc.GetBooking(ctx.Request().Context(), id)
	if err != nil {
		h.writeError(ctx, err)
		return nil, false
	}
	if b.UserID != ai.Subject && !isStaff(ai.Roles) {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "not your booking"})
		return nil, false
	}
	return b, true
}

func isStaff(roles []string) bool {
	for _, r := range roles {
		switch strings.ToLower(strings.TrimSpace(r)) {
		case "staff", "admin":
			return true
		}
	}
	return false
}

// writeError 业务错误到 HTTP 状态码的映射。
func (h *Handler) writeError(ctx iris.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		ctx.StopWithJSON(iris.StatusUnprocessableEntity, iris.Map{
			"error":      "validation_failed",
			"violations": ve.Violations,
		})
	case errors.Is(err, ErrNotFound):
		ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, ErrTerminalStatus):
		ctx.StopWithJSON(iris.StatusConflict, iris.Map{"error": "terminal_status", "message": err.Error()})
	default:
		h.internalError(ctx, err)
	}
}

func (h *Handler) internalError(ctx iris.Context, err error) {
	if h.log != nil {
		h.log.Errorf("booking handler error path=%s err=%v", ctx.Path(), err)
	}
	ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "internal", "message": "internal error"})
}
