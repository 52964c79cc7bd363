package car

import (
	"time"
)

// Car 是 cars 表的 GORM 模型。
//
// Availability 是“当前是否被某个进行中的预订占用”的粗粒度缓存，由预订
// 生命周期在创建/取消/完成时维护，真实可用性以未取消预订的日期区间为准。
// 已知缺陷：两个互不重叠的未来预订无法同时以该布尔表达“现在可用”。
type Car struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Model        string    `gorm:"size:100" json:"model"`
	PlateNumber  string    `gorm:"uniqueIndex;size:32;not null" json:"plate_number"`
	PricePerDay  int64     `gorm:"not null;default:0" json:"price_per_day"` // 单位：分
	ImageURL     string    `gorm:"size:255" json:"image_url,omitempty"`
	Availability bool      `gorm:"not null;default:true" json:"availability"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FleetStats 员工后台仪表盘的车队统计。
type FleetStats struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Unavailable int64 `json:"unavailable"`
}
