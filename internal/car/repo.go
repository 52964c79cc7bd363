package car

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// 列表排序方式（对应页面上的下拉项）
const (
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortName      = "name"
)

// ListFilter 车辆列表查询条件。
type ListFilter struct {
	Search   string // 匹配 name/model/plate_number（模糊）
	MinPrice int64  // 单位：分；0 表示不过滤
	MaxPrice int64  // 单位：分；0 表示不过滤
	Sort     string
	ShowAll  bool // false 时只返回 availability=true 的车辆
	Offset   int
	Limit    int
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

func (r *Repo) Create(ctx context.Context, c *Car) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(c).Error
}

func (r *Repo) Update(ctx context.Context, c *Car) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(c).Error
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Where("id = ?", id).Delete(&Car{}).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Car
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) FindByPlate(ctx context.Context, plate string) (*Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Car
	if err := db.Where("plate_number = ?", plate).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// List 支持搜索 + 价格区间 + 排序 + 分页。
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Car, int64, error) {
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

	q := db.Model(&Car{})
	if !f.ShowAll {
		q = q.Where("availability = ?", true)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR model LIKE ? OR plate_number LIKE ?", like, like, like)
	}
	if f.MinPrice > 0 {
		q = q.Where("price_per_day >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price_per_day <= ?", f.MaxPrice)
	}

	switch f.Sort {
	case SortPriceLow:
		q = q.Order("price_per_day ASC")
	case SortPriceHigh:
		q = q.Order("price_per_day DESC")
	case SortName:
		q = q.Order("name ASC")
	default:
		q = q.Order("created_at DESC")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cars []Car
	if err := q.Offset(f.Offset).Limit(f.Limit).Find(&cars).Error; err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

// SetAvailability 更新粗粒度可用标记（由预订生命周期调用）。
func (r *Repo) SetAvailability(ctx context.Context, id string, available bool) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Car{}).Where("id = ?", id).Update("availability", available).Error
}

// Stats 车队统计（员工仪表盘）。
func (r *Repo) Stats(ctx context.Context) (*FleetStats, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var s FleetStats
	if err := db.Model(&Car{}).Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Car{}).Where("availability = ?", true).Count(&s.Available).Error; err != nil {
		return nil, err
	}
	s.Unavailable = s.Total - s.Available
	return &s, nil
}
