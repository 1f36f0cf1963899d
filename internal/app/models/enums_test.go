package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("day_shift")
	assert.NoError(t, err)
	assert.Equal(t, RoleDayShift, role)

	_, err = ParseRole("DAY_SHIFT")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestShiftTypeEligible(t *testing.T) {
	cases := []struct {
		shiftType ShiftType
		role      Role
		want      bool
	}{
		{ShiftDayWorkday, RoleDayShift, true},
		{ShiftDayHoliday, RoleDayShift, true},
		{ShiftDayWorkday, RoleNightShift, false},
		{ShiftNightWorkday, RoleNightShift, true},
		{ShiftNightHoliday, RoleNightShift, true},
		{ShiftNightWorkday, RoleDayShift, false},
		{ShiftDayWorkday, RoleAdmin, true},
		{ShiftNightHoliday, RoleAdmin, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.shiftType.Eligible(c.role), "%s / %s", c.shiftType, c.role)
	}
}

func TestSwapStatusTerminal(t *testing.T) {
	assert.False(t, SwapPending.Terminal())
	assert.False(t, SwapAccepted.Terminal())
	assert.True(t, SwapRejected.Terminal())
	assert.True(t, SwapApproved.Terminal())
	assert.True(t, SwapCancelled.Terminal())
}

func TestParseSwapStatus(t *testing.T) {
	status, err := ParseSwapStatus("accepted")
	assert.NoError(t, err)
	assert.Equal(t, SwapAccepted, status)

	_, err = ParseSwapStatus("declined")
	assert.Error(t, err)
}
