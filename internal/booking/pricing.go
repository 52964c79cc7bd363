package booking

import (
	"fmt"
	"time"
)

// 附加选项菜单（固定），单位：分/天。
const (
	OptionGPSNavigation    = "gps_navigation"
	OptionChildSeat        = "child_seat"
	OptionAdditionalDriver = "additional_driver"
)

var optionDailyCost = map[string]int64{
	OptionGPSNavigation:    500,
	OptionChildSeat:        300,
	OptionAdditionalDriver: 1000,
}

// OptionMenu 返回选项菜单的拷贝（key -> 每日价格，分）。
func OptionMenu() map[string]int64 {
	out := make(map[string]int64, len(optionDailyCost))
	for k, v := range optionDailyCost {
		out[k] = v
	}
	return out
}

// Quote 一次定价计算的结果。
type Quote struct {
	DurationDays int              `json:"duration_days"`
	BasePrice    int64            `json:"base_price"` // 分
	Options      map[string]int64 `json:"options"`    // 选项名 -> 该预订的选项总价（分）
	TotalPrice   int64            `json:"total_price"`
}

// ComputeQuote 纯函数定价：
//
//	duration = 天数(end-start)+1（闭区间，必须 >= 1）
//	base     = duration * pricePerDay
//	每个已选选项存 “每日价 * duration”
//	total    = base + Σ 选项
//
// 对同样的输入重复计算结果一致（幂等），落库前统一由此重算。
func ComputeQuote(pricePerDay int64, start, end time.Time, selected []string) (*Quote, error) {
	days := durationDays(start, end)
	if days < 1 {
		return nil, fmt.Errorf("invalid rental duration: %d days", days)
	}

	q := &Quote{
		DurationDays: days,
		BasePrice:    int64(days) * pricePerDay,
		Options:      map[string]int64{},
	}
	for _, key := range selected {
		daily, ok := optionDailyCost[key]
		if !ok {
			return nil, fmt.Errorf("unknown additional option: %s", key)
		}
		q.Options[key] = daily * int64(days)
	}

	q.TotalPrice = q.BasePrice
	for _, cost := range q.Options {
		q.TotalPrice += cost
	}
	return q, nil
}

// Reprice 按当前车辆日租价重算预订价格并写回模型。
// 已选选项取自已存储的 AdditionalOptions 的 key。
func Reprice(b *Booking, pricePerDay int64) error {
	selected, err := b.SelectedOptions()
	if err != nil {
		return err
	}
	q, err := ComputeQuote(pricePerDay, b.StartDate, b.EndDate, selected)
	if err != nil {
		return err
	}
	return ApplyQuote(b, q)
}

// ApplyQuote 把报价写入预订模型。
func ApplyQuote(b *Booking, q *Quote) error {
	if q == nil {
		return fmt.Errorf("quote is nil")
	}
	if err := b.SetOptions(q.Options); err != nil {
		return err
	}
	b.TotalPrice = q.TotalPrice
	return nil
}
