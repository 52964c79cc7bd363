package booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SwiftFleet/SwiftFleet/internal/car"
	"github.com/SwiftFleet/SwiftFleet/internal/location"
	"gorm.io/datatypes"
)

// PaymentMethod 支付方式枚举（持久化为字符串，空串表示未选择）。
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPayPal     PaymentMethod = "paypal"
	PaymentCash       PaymentMethod = "cash" // 取车时现金支付
)

// Valid 空串视为未选择，同样合法。
func (m PaymentMethod) Valid() bool {
	switch m {
	case "", PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentCash:
		return true
	}
	return false
}

// Booking 预订 GORM 模型，预订生命周期的中心实体。
//
// StartDate/EndDate 为闭区间的日历日期（同日取还算 1 天）。
// TotalPrice 为派生值，每次落库前重算；AdditionalOptions 存
// “选项名 -> 该预订的选项总价（分）”，缺失的 key 表示未选择。
type Booking struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"index;size:36;not null" json:"user_id"`
	CarID  string `gorm:"index;size:36;not null" json:"car_id"` // 创建后不可变更

	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	PickupLocationID *string `gorm:"size:36" json:"pickup_location_id"`
	ReturnLocationID *string `gorm:"size:36" json:"return_location_id"`
	PickupTime       string  `gorm:"size:5" json:"pickup_time,omitempty"` // "15:04"，空串表示未填
	ReturnTime       string  `gorm:"size:5" json:"return_time,omitempty"`

	Status        Status        `gorm:"type:varchar(16);index;not null" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	PaymentStatus bool          `gorm:"not null;default:false" json:"payment_status"`

	// 首次进入 confirmed 时分配，之后不再变更或复用（即使预订被取消）。
	InvoiceNumber string `gorm:"size:20;index" json:"invoice_number,omitempty"`

	AdditionalOptions datatypes.JSON `json:"additional_options,omitempty"`
	TotalPrice        int64          `gorm:"not null;default:0" json:"total_price"` // 单位：分

	CustomerNotes string `gorm:"type:text" json:"customer_notes,omitempty"`
	AdminNotes    string `gorm:"type:text" json:"admin_notes,omitempty"`

	BookingDate time.Time `gorm:"autoCreateTime" json:"booking_date"` // 创建时间，不可变
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Car            *car.Car           `gorm:"foreignKey:CarID" json:"car,omitempty"`
	PickupLocation *location.Location `gorm:"foreignKey:PickupLocationID;constraint:OnDelete:SET NULL" json:"pickup_location,omitempty"`
	ReturnLocation *location.Location `gorm:"foreignKey:ReturnLocationID;constraint:OnDelete:SET NULL" json:"return_location,omitempty"`
}

// Options 解码 AdditionalOptions 列。
func (b *Booking) Options() (map[string]int64, error) {
	if len(b.AdditionalOptions) == 0 {
		return nil, nil
	}
	out := map[string]int64{}
	if err := json.Unmarshal(b.AdditionalOptions, &out); err != nil {
		return nil, fmt.Errorf("decode additional_options: %w", err)
	}
	return out, nil
}

// SetOptions 编码并写入 AdditionalOptions 列。空 map 落成 NULL。
func (b *Booking) SetOptions(opts map[string]int64) error {
	if len(opts) == 0 {
		b.AdditionalOptions = nil
		return nil
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("encode additional_options: %w", err)
	}
	b.AdditionalOptions = datatypes.JSON(raw)
	return nil
}

// SelectedOptions 已选选项的 key 列表（重算价格时使用）。
func (b *Booking) SelectedOptions() ([]string, error) {
	opts, err := b.Options()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	return keys, nil
}

// DurationDays 租期天数（闭区间：同日取还为 1 天）。
func (b *Booking) DurationDays() int {
	return durationDays(b.StartDate, b.EndDate)
}

// IsUpcoming 尚未开始。
func (b *Booking) IsUpcoming(today time.Time) bool {
	return dateOnly(b.StartDate).After(dateOnly(today))
}

// IsActiveWindow 客户当前正持有车辆（按日期窗口推导，不依赖存储状态）。
func (b *Booking) IsActiveWindow(today time.Time) bool {
	if b.Status == StatusCancelled {
		return false
	}
	t := dateOnly(today)
	return !t.Before(dateOnly(b.StartDate)) && !t.After(dateOnly(b.EndDate))
}

// IsCompletedByDate 已过结束日期。
func (b *Booking) IsCompletedByDate(today time.Time) bool {
	return dateOnly(b.EndDate).Before(dateOnly(today)) && b.Status != StatusCancelled
}

// DaysUntilPickup 距离取车还有几天；已开始返回 0。
func (b *Booking) DaysUntilPickup(today time.Time) int {
	t := dateOnly(today)
	start := dateOnly(b.StartDate)
	if !start.After(t) {
		return 0
	}
	return int(start.Sub(t).Hours() / 24)
}

// dateOnly 丢弃时间部分，统一到 UTC 零点，保证日期比较不受时区影响。
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// durationDays 闭区间天数：end == start 时为 1。
func durationDays(start, end time.Time) int {
	return int(dateOnly(end).Sub(dateOnly(start)).Hours()/24) + 1
}
