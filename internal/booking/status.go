package booking

import (
	"errors"
	"fmt"
	"time"
)

// Status 预订状态枚举（持久化为字符串）。
type Status string

const (
	StatusPending   Status = "pending"   // 已提交，待员工处理
	StatusConfirmed Status = "confirmed" // 员工已接受，待开始
	StatusActive    Status = "active"    // 租期进行中（接受时当天已落在窗口内）
	StatusCompleted Status = "completed" // 已完成
	StatusCancelled Status = "cancelled" // 已取消（员工拒绝）
)

// Terminal 终态不再流转。
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Action 员工对预订的操作。
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAccept, ActionDecline, ActionComplete:
		return true
	}
	return false
}

// FreesCar decline/complete 会把车辆的粗粒度可用标记恢复为 true。
func (a Action) FreesCar() bool {
	return a == ActionDecline || a == ActionComplete
}

// ErrTerminalStatus 试图对 completed/cancelled 的预订再做操作。
var ErrTerminalStatus = errors.New("booking is in a terminal status")

// ApplyAction 对预订应用员工操作并更新状态。
//
// accept: pending -> confirmed；若 today 已落在 [start, end] 内则直接 -> active。
// decline: -> cancelled。complete: -> completed。
// 终态拒绝任何操作；其余流转保持宽松（由调用方的 UI 控制入口）。
func ApplyAction(b *Booking, action Action, today time.Time) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}
	if !action.Valid() {
		return fmt.Errorf("unknown booking action: %s", action)
	}
	if b.Status.Terminal() {
		return fmt.Errorf("cannot %s booking %s (%s): %w", action, b.ID, b.Status, ErrTerminalStatus)
	}

	switch action {
	case ActionAccept:
		b.Status = StatusConfirmed
		// 接受时租期已开始：跳过 confirmed 直接进入 active。
		t := dateOnly(today)
		if !t.Before(dateOnly(b.StartDate)) && !t.After(dateOnly(b.EndDate)) {
			b.Status = StatusActive
		}
	case ActionDecline:
		b.Status = StatusCancelled
	case ActionComplete:
		b.Status = StatusCompleted
	}
	return nil
}
