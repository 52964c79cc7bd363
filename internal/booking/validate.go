package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/SwiftFleet/SwiftFleet/internal/car"
	"github.com/SwiftFleet/SwiftFleet/internal/location"
)

// ValidationError 聚合的校验失败：一次性报出所有违反的规则，而不是
// 只报第一条。返回给调用方时不产生任何状态变更。
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "booking validation failed: " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Add(format string, args ...interface{}) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

// OrNil 没有任何违规时返回 nil，便于直接 return。
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

// ValidateRequest 创建/编辑预订共用的校验入参。
// Pickup/Return 为已加载的网点引用，查不到时传 nil。
// Car 只在创建时传：粗粒度可用标记为 false 的车不接受新预订。
// 编辑时传 nil（预订自身已把标记置为 false，不构成阻塞）。
type ValidateRequest struct {
	Start, End, Today time.Time
	Car               *car.Car
	Pickup, Return    *location.Location
	PaymentMethod     PaymentMethod
}

// DatesValid 日期规则本身是否成立。只有成立时才有必要做冲突检查。
func DatesValid(start, end, today time.Time) bool {
	return !dateOnly(start).Before(dateOnly(today)) && !dateOnly(end).Before(dateOnly(start))
}

// Validate 校验除可用性冲突以外的全部规则，违规逐条累加。
// 冲突检查需要查库，由 Service 在日期规则成立后补充（AddConflict）。
func Validate(req ValidateRequest) *ValidationError {
	ve := &ValidationError{}

	if req.Car != nil && !req.Car.Availability {
		ve.Add("this car is not available for booking")
	}

	if dateOnly(req.Start).Before(dateOnly(req.Today)) {
		ve.Add("start date cannot be in the past")
	}
	if dateOnly(req.End).Before(dateOnly(req.Start)) {
		ve.Add("end date should be after start date")
	}

	if req.Pickup == nil {
		ve.Add("please select a pickup location")
	} else if !req.Pickup.IsActive {
		ve.Add("pickup location is no longer available")
	}
	if req.Return == nil {
		ve.Add("please select a return location")
	} else if !req.Return.IsActive {
		ve.Add("return location is no longer available")
	}

	if !req.PaymentMethod.Valid() {
		ve.Add("invalid payment method: %s", req.PaymentMethod)
	}

	return ve
}

// AddConflict 记录可用性冲突，附带 “何时之后可用” 的提示日期。
func (e *ValidationError) AddConflict(availableAfter time.Time) {
	e.Add("this car is already booked for the selected dates, available after %s",
		dateOnly(availableAfter).Format("January 02, 2006"))
}
