package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceCounter 发票序号的单调计数器（单行表）。
// 首次使用时从历史发票号的最大序号初始化，之后开票不再全表扫描。
type InvoiceCounter struct {
	ID  uint  `gorm:"primaryKey"`
	Seq int64 `gorm:"not null;default:0"`
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, b *Booking) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(b).Error
}

func (r *Repo) Save(ctx context.Context, b *Booking) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(b).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var b Booking
	if err := db.Preload("Car").Preload("PickupLocation").Preload("ReturnLocation").
		Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBlocking 某车辆全部会阻塞可用性的预订（pending/confirmed/active），
// 按 start_date 稳定排序，冲突提示取第一个命中的即可。
func (r *Repo) FindBlocking(ctx context.Context, carID string) ([]Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var bookings []Booking
	err := db.Where("car_id = ? AND status IN ?", carID, BlockingStatuses()).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindBlockingFrom 同上，但只取 end_date >= from 的（日历展示用）。
func (r *Repo) FindBlockingFrom(ctx context.Context, carID string, from time.Time) ([]Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var bookings []Booking
	err := db.Where("car_id = ? AND status IN ? AND end_date >= ?", carID, BlockingStatuses(), from).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByUser 某用户全部预订，最新创建的在前。
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var bookings []Booking
	err := db.Preload("Car").Preload("PickupLocation").Preload("ReturnLocation").
		Where("user_id = ?", userID).
		Order("booking_date DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListFilter 员工后台的预订列表查询条件。
type ListFilter struct {
	UserID   string
	Status   Status
	FromDate *time.Time // start_date >= FromDate
	ToDate   *time.Time // end_date <= ToDate
	Search   string     // 匹配发票号（模糊）
	Offset   int
	Limit    int
}

// List 支持按用户/状态/日期区间/发票号过滤 + 分页。
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := db.Model(&Booking{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FromDate != nil {
		q = q.Where("start_date >= ?", dateOnly(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("end_date <= ?", dateOnly(*f.ToDate))
	}
	if f.Search != "" {
		q = q.Where("invoice_number LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []Booking
	err := q.Preload("Car").Preload("PickupLocation").Preload("ReturnLocation").
		Order("booking_date DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus 员工后台各状态的数量（tab 角标）。
func (r *Repo) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	type row struct {
		Status Status
		N      int64
	}
	var rows []row
	err := db.Model(&Booking{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[Status]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// allInvoiceNumbers 全部非空发票号（计数器初始化时做一次历史扫描）。
func (r *Repo) allInvoiceNumbers(db *gorm.DB) ([]string, error) {
	var numbers []string
	err := db.Model(&Booking{}).
		Where("invoice_number <> ''").
		Pluck("invoice_number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

// NextInvoiceSequence 在事务内取下一个发票序号（行锁保证单调）。
// 计数器不存在时从历史发票号的最大序号初始化，格式不合法的历史号按 0 处理。
func (r *Repo) NextInvoiceSequence(tx *gorm.DB) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("tx is nil")
	}

	var counter InvoiceCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		numbers, scanErr := r.allInvoiceNumbers(tx)
		if scanErr != nil {
			return 0, scanErr
		}
		counter = InvoiceCounter{Seq: MaxInvoiceSequence(numbers)}
		if createErr := tx.Create(&counter).Error; createErr != nil {
			return 0, createErr
		}
	} else if err != nil {
		return 0, err
	}

	counter.Seq++
	if err := tx.Save(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
