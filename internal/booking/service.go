package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SwiftFleet/SwiftFleet/internal/car"
	"github.com/SwiftFleet/SwiftFleet/internal/common/logger"
	"github.com/SwiftFleet/SwiftFleet/internal/location"
)

// Service 预订生命周期的业务层。所有会同时改动预订与车辆可用标记的
// 写操作都在同一个数据库事务里完成。
type Service struct {
	db        *gorm.DB
	repo      *Repo
	cars      *car.Repo
	locations *location.Repo
	checker   *Checker
	log       logger.Logger
	now       func() time.Time
}

func NewService(db *gorm.DB, log logger.Logger) *Service {
	repo := NewRepo(db)
	return &Service{
		db:        db,
		repo:      repo,
		cars:      car.NewRepo(db),
		locations: location.NewRepo(db),
		checker:   NewChecker(repo),
		log:       log,
		now:       time.Now,
	}
}

// CreateRequest 客户发起预订的入参。
type CreateRequest struct {
	UserID           string
	CarID            string
	StartDate        time.Time
	EndDate          time.Time
	PickupLocationID string
	ReturnLocationID string
	PickupTime       string
	ReturnTime       string
	PaymentMethod    PaymentMethod
	Options          []string
	CustomerNotes    string
}

// EditRequest 客户修改已有预订的入参。车辆不可变更，不在入参里。
type EditRequest struct {
	StartDate        time.Time
	EndDate          time.Time
	PickupLocationID string
	ReturnLocationID string
	PickupTime       string
	ReturnTime       string
	PaymentMethod    PaymentMethod
	Options          []string
	CustomerNotes    string
}

func (s *Service) loadLocation(ctx context.Context, id string) *location.Location {
	if id == "" {
		return nil
	}
	loc, err := s.locations.FindByID(ctx, id)
	if err != nil {
		// 查不到与未选择同等处理，校验层会报 “please select ...”。
		return nil
	}
	return loc
}

// validate 跑完整套校验规则并聚合全部违规。日期规则成立时才做冲突
// 检查（日期本身不合法时冲突查询无意义）。excludeID 编辑时排除自身。
func (s *Service) validate(ctx context.Context, carID string, req ValidateRequest, excludeID string) error {
	ve := Validate(req)
	if DatesValid(req.Start, req.End, req.Today) {
		conflict, err := s.checker.HasConflict(ctx, carID, req.Start, req.End, excludeID)
		if err != nil {
			return err
		}
		if conflict != nil {
			ve.AddConflict(conflict.EndDate)
		}
	}
	return ve.OrNil()
}

// CreateBooking 创建预订：校验全部规则、计算总价、落库并把车辆的
// 可用标记置为 false，后两步在同一事务内。新预订始终处于 pending。
func (s *Service) CreateBooking(ctx context.Context, req CreateRequest) (*Booking, error) {
	c, err := s.cars.FindByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("car " + req.CarID)
		}
		return nil, err
	}

	pickup := s.loadLocation(ctx, req.PickupLocationID)
	ret := s.loadLocation(ctx, req.ReturnLocationID)

	today := dateOnly(s.now())
	if err := s.validate(ctx, c.ID, ValidateRequest{
		Start:         req.StartDate,
		End:           req.EndDate,
		Today:         today,
		Car:           c,
		Pickup:        pickup,
		Return:        ret,
		PaymentMethod: req.PaymentMethod,
	}, ""); err != nil {
		return nil, err
	}

	quote, err := ComputeQuote(c.PricePerDay, req.StartDate, req.EndDate, req.Options)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		CarID:         c.ID,
		StartDate:     dateOnly(req.StartDate),
		EndDate:       dateOnly(req.EndDate),
		PickupTime:    req.PickupTime,
		ReturnTime:    req.ReturnTime,
		Status:        StatusPending,
		PaymentMethod: req.PaymentMethod,
		CustomerNotes: req.CustomerNotes,
	}
	if pickup != nil {
		b.PickupLocationID = &pickup.ID
	}
	if ret != nil {
		b.ReturnLocationID = &ret.ID
	}
	if err := ApplyQuote(b, quote); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewRepo(tx).Create(ctx, b); err != nil {
			return err
		}
		return car.NewRepo(tx).SetAvailability(ctx, c.ID, false)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("booking %s created: car=%s user=%s %s..%s total=%d",
		b.ID, b.CarID, b.UserID,
		b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"), b.TotalPrice)
	return b, nil
}

// EditBooking 客户修改自己的预订。重新跑完整校验（冲突检查排除自身）
// 并按当前日租价重算总价。终态预订不可修改。
func (s *Service) EditBooking(ctx context.Context, id string, req EditRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("booking " + id)
		}
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, fmt.Errorf("cannot edit booking %s (%s): %w", b.ID, b.Status, ErrTerminalStatus)
	}

	c, err := s.cars.FindByID(ctx, b.CarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("car " + b.CarID)
		}
		return nil, err
	}

	pickup := s.loadLocation(ctx, req.PickupLocationID)
	ret := s.loadLocation(ctx, req.ReturnLocationID)

	today := dateOnly(s.now())
	if err := s.validate(ctx, b.CarID, ValidateRequest{
		Start:         req.StartDate,
		End:           req.EndDate,
		Today:         today,
		Pickup:        pickup,
		Return:        ret,
		PaymentMethod: req.PaymentMethod,
	}, b.ID); err != nil {
		return nil, err
	}

	quote, err := ComputeQuote(c.PricePerDay, req.StartDate, req.EndDate, req.Options)
	if err != nil {
		return nil, err
	}

	b.StartDate = dateOnly(req.StartDate)
	b.EndDate = dateOnly(req.EndDate)
	b.PickupLocationID = nil
	b.ReturnLocationID = nil
	if pickup != nil {
		b.PickupLocationID = &pickup.ID
	}
	if ret != nil {
		b.ReturnLocationID = &ret.ID
	}
	b.PickupTime = req.PickupTime
	b.ReturnTime = req.ReturnTime
	b.PaymentMethod = req.PaymentMethod
	b.CustomerNotes = req.CustomerNotes
	if err := ApplyQuote(b, quote); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.log.Infof("booking %s edited: %s..%s total=%d",
		b.ID, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"), b.TotalPrice)
	return b, nil
}

// Transition 员工对预订执行 accept/decline/complete。
//
// 预订流转、发票分配和车辆可用标记的回置在同一事务内提交。
// 发票号只在首次进入 confirmed 时分配（accept 直接进 active 的不开票），
// 且分配后不再变更。
func (s *Service) Transition(ctx context.Context, id string, action Action, adminNotes string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("booking " + id)
		}
		return nil, err
	}

	now := s.now()
	if err := ApplyAction(b, action, now); err != nil {
		return nil, err
	}
	if adminNotes != "" {
		b.AdminNotes = adminNotes
	}

	// 总价按当前日租价重算，保证落库值与定价规则一致。
	c, err := s.cars.FindByID(ctx, b.CarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("car " + b.CarID)
		}
		return nil, err
	}
	if err := Reprice(b, c.PricePerDay); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := NewRepo(tx)
		if NeedsInvoice(b) {
			seq, err := txRepo.NextInvoiceSequence(tx)
			if err != nil {
				return err
			}
			b.InvoiceNumber = FormatInvoiceNumber(now.Year(), seq)
		}
		if err := txRepo.Save(ctx, b); err != nil {
			return err
		}
		if action.FreesCar() {
			return car.NewRepo(tx).SetAvailability(ctx, b.CarID, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("booking %s %s -> %s invoice=%q", b.ID, action, b.Status, b.InvoiceNumber)
	return b, nil
}

// GetBooking 查询单个预订（含车辆与网点）。
func (s *Service) GetBooking(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("booking " + id)
		}
		return nil, err
	}
	return b, nil
}

// ListBookings 员工后台的分页列表。
func (s *Service) ListBookings(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	return s.repo.List(ctx, f)
}

// StatusCounts 员工后台各状态的预订数量。
func (s *Service) StatusCounts(ctx context.Context) (map[Status]int64, error) {
	return s.repo.CountByStatus(ctx)
}

// CarCalendar 某车辆当前被占用的日期区间（从今天起）。
func (s *Service) CarCalendar(ctx context.Context, carID string) ([]Period, error) {
	if _, err := s.cars.FindByID(ctx, carID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("car " + carID)
		}
		return nil, err
	}
	return s.checker.BlockedPeriods(ctx, carID, s.now())
}

// History 某用户的预订历史与统计汇总。
type History struct {
	Upcoming  []Booking `json:"upcoming"`
	Active    []Booking `json:"active"`
	Past      []Booking `json:"past"`
	Cancelled []Booking `json:"cancelled"`

	NextUpcoming *Booking `json:"next_upcoming,omitempty"`

	TotalBookings int    `json:"total_bookings"`
	TotalSpent    int64  `json:"total_spent"` // 分，不含已取消
	TotalDays     int    `json:"total_days"`  // 不含已取消
	FavoriteCar   string `json:"favorite_car,omitempty"`
}

// UserHistory 按日期窗口（而不是存储状态）把用户的预订分组，并汇总
// 消费统计。租得最多的车记为 FavoriteCar。
func (s *Service) UserHistory(ctx context.Context, userID string) (*History, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	h := &History{TotalBookings: len(bookings)}
	carCount := map[string]int{}

	for i := range bookings {
		b := bookings[i]
		switch {
		case b.Status == StatusCancelled:
			h.Cancelled = append(h.Cancelled, b)
			continue
		case b.IsUpcoming(today):
			h.Upcoming = append(h.Upcoming, b)
			if h.NextUpcoming == nil || b.StartDate.Before(h.NextUpcoming.StartDate) {
				next := b
				h.NextUpcoming = &next
			}
		case b.IsActiveWindow(today):
			h.Active = append(h.Active, b)
		default:
			h.Past = append(h.Past, b)
		}
		h.TotalSpent += b.TotalPrice
		h.TotalDays += b.DurationDays()
		if b.Car != nil {
			carCount[b.Car.Name]++
		}
	}

	best := 0
	for name, n := range carCount {
		if n > best {
			best = n
			h.FavoriteCar = name
		}
	}
	return h, nil
}
