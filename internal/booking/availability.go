package booking

import (
	"context"
	"time"
)

// BlockingStatuses 占用日期区间的状态：completed/cancelled 从不阻塞可用性。
func BlockingStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusActive}
}

// Overlaps 闭区间日期重叠判断：两个区间不相离即冲突
// （existing.start <= new.end && existing.end >= new.start）。
// 同一天首尾相接（前单结束日 == 后单开始日）按冲突处理。
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !dateOnly(aStart).After(dateOnly(bEnd)) && !dateOnly(aEnd).Before(dateOnly(bStart))
}

// FirstConflict 在 existing 里找第一个与 [start, end] 重叠的预订。
// excludeID 用于编辑场景下排除自身。existing 按 start_date 稳定排序时，
// 返回值即为给用户提示 “available after” 的依据（取其 end_date）。
func FirstConflict(existing []Booking, start, end time.Time, excludeID string) *Booking {
	for i := range existing {
		b := &existing[i]
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if Overlaps(b.StartDate, b.EndDate, start, end) {
			return b
		}
	}
	return nil
}

// Checker 可用性检查器：纯查询，不做任何预留或锁定。
// check 与 commit 之间存在窄竞态窗口，单进程低并发部署下可接受。
type Checker struct {
	repo *Repo
}

func NewChecker(repo *Repo) *Checker {
	return &Checker{repo: repo}
}

// HasConflict 返回与 [start, end] 冲突的第一个未取消预订，无冲突返回 nil。
func (c *Checker) HasConflict(ctx context.Context, carID string, start, end time.Time, excludeID string) (*Booking, error) {
	existing, err := c.repo.FindBlocking(ctx, carID)
	if err != nil {
		return nil, err
	}
	return FirstConflict(existing, start, end, excludeID), nil
}

// Period 日历展示用的占用区间。
type Period struct {
	From      string `json:"from"` // 2006-01-02
	To        string `json:"to"`
	BookingID string `json:"booking_id"`
}

// BlockedPeriods 当前会阻塞新预订的日期区间列表（日历 UI 用）。
func (c *Checker) BlockedPeriods(ctx context.Context, carID string, today time.Time) ([]Period, error) {
	existing, err := c.repo.FindBlockingFrom(ctx, carID, dateOnly(today))
	if err != nil {
		return nil, err
	}
	periods := make([]Period, 0, len(existing))
	for i := range existing {
		b := &existing[i]
		periods = append(periods, Period{
			From:      dateOnly(b.StartDate).Format("2006-01-02"),
			To:        dateOnly(b.EndDate).Format("2006-01-02"),
			BookingID: b.ID,
		})
	}
	return periods, nil
}
