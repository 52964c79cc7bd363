package booking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SwiftFleet/SwiftFleet/internal/car"
	"github.com/SwiftFleet/SwiftFleet/internal/location"
)

func activeLocation(id string) *location.Location {
	return &location.Location{ID: id, Name: "loc-" + id, IsActive: true}
}

func TestValidateOK(t *testing.T) {
	ve := Validate(ValidateRequest{
		Start:         day("2026-09-10"),
		End:           day("2026-09-12"),
		Today:         day("2026-09-01"),
		Pickup:        activeLocation("p1"),
		Return:        activeLocation("r1"),
		PaymentMethod: PaymentCreditCard,
	})
	require.NoError(t, ve.OrNil())
}

func TestValidateAggregatesAllViolations(t *testing.T) {
	// 所有规则同时违反：一次性全部报出，而不是只报第一条。
	ve := Validate(ValidateRequest{
		Start:         day("2026-08-20"), // 过去
		End:           day("2026-08-18"), // 早于开始
		Today:         day("2026-09-01"),
		Pickup:        nil,
		Return:        &location.Location{ID: "r1", IsActive: false},
		PaymentMethod: PaymentMethod("bitcoin"),
	})
	require.Error(t, ve.OrNil())
	require.Len(t, ve.Violations, 5)
	require.Contains(t, ve.Violations, "start date cannot be in the past")
	require.Contains(t, ve.Violations, "end date should be after start date")
	require.Contains(t, ve.Violations, "please select a pickup location")
	require.Contains(t, ve.Violations, "return location is no longer available")
	require.Contains(t, ve.Violations, "invalid payment method: bitcoin")
}

func TestValidateUnavailableCar(t *testing.T) {
	req := ValidateRequest{
		Start:  day("2026-09-10"),
		End:    day("2026-09-12"),
		Today:  day("2026-09-01"),
		Car:    &car.Car{ID: "c1", Name: "test car", Availability: false},
		Pickup: activeLocation("p1"),
		Return: activeLocation("r1"),
	}
	ve := Validate(req)
	require.Error(t, ve.OrNil())
	require.Contains(t, ve.Violations, "this car is not available for booking")

	// 标记为 true 时放行；编辑场景（Car 为 nil）不检查标记。
	req.Car.Availability = true
	require.NoError(t, Validate(req).OrNil())
	req.Car = nil
	require.NoError(t, Validate(req).OrNil())
}

func TestValidateStartToday(t *testing.T) {
	// 今天开始是合法的。
	ve := Validate(ValidateRequest{
		Start:  day("2026-09-01"),
		End:    day("2026-09-01"),
		Today:  day("2026-09-01"),
		Pickup: activeLocation("p1"),
		Return: activeLocation("r1"),
	})
	require.NoError(t, ve.OrNil())
}

func TestValidateEmptyPaymentMethodAllowed(t *testing.T) {
	ve := Validate(ValidateRequest{
		Start:  day("2026-09-10"),
		End:    day("2026-09-12"),
		Today:  day("2026-09-01"),
		Pickup: activeLocation("p1"),
		Return: activeLocation("r1"),
	})
	require.NoError(t, ve.OrNil())
}

func TestDatesValid(t *testing.T) {
	today := day("2026-09-01")
	require.True(t, DatesValid(day("2026-09-01"), day("2026-09-01"), today))
	require.True(t, DatesValid(day("2026-09-10"), day("2026-09-12"), today))
	require.False(t, DatesValid(day("2026-08-31"), day("2026-09-12"), today)) // 过去
	require.False(t, DatesValid(day("2026-09-12"), day("2026-09-10"), today)) // 倒序
}

func TestAddConflictMessage(t *testing.T) {
	ve := &ValidationError{}
	ve.AddConflict(day("2026-09-05"))
	require.Len(t, ve.Violations, 1)
	require.Equal(t,
		"this car is already booked for the selected dates, available after September 05, 2026",
		ve.Violations[0])
}

func TestValidationErrorOrNil(t *testing.T) {
	var ve *ValidationError
	require.NoError(t, ve.OrNil())
	require.NoError(t, (&ValidationError{}).OrNil())

	full := &ValidationError{}
	full.Add("boom")
	err := full.OrNil()
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}
