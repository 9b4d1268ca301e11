package model

import (
	"fmt"
	"strings"
)

// ActivityLevel classifies a time bucket's aggregate transaction volume
// relative to that day's own distribution.
type ActivityLevel string

// Activity levels, ordered from quietest to busiest.
const (
	ActivityLow  ActivityLevel = "Low"
	ActivityMid  ActivityLevel = "Mid"
	ActivityHigh ActivityLevel = "High"
)

// Valid reports whether the level is one of the three known values.
func (l ActivityLevel) Valid() bool {
	switch l {
	case ActivityLow, ActivityMid, ActivityHigh:
		return true
	}
	return false
}

// ParseActivityLevel converts a string to an ActivityLevel. Matching is
// case-insensitive; upstream exports have been observed carrying lowercase
// labels.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ActivityLow, nil
	case "mid":
		return ActivityMid, nil
	case "high":
		return ActivityHigh, nil
	}
	return "", fmt.Errorf("unknown activity level: %q", s)
}

// Status marks whether a register appears staffed during a time bucket.
type Status string

// Register statuses.
const (
	StatusManned   Status = "Manned"
	StatusUnmanned Status = "Unmanned"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	return s == StatusManned || s == StatusUnmanned
}

// ParseStatus converts a string to a Status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manned":
		return StatusManned, nil
	case "unmanned":
		return StatusUnmanned, nil
	}
	return "", fmt.Errorf("unknown status: %q", s)
}

// DeviceType distinguishes staffed registers from frictionless self-checkout
// devices, which are exempt from unmanned detection.
type DeviceType string

// Device types.
const (
	DeviceStandard     DeviceType = "Standard"
	DeviceFrictionless DeviceType = "Frictionless"
)

// Valid reports whether the device type is a known value.
func (d DeviceType) Valid() bool {
	return d == DeviceStandard || d == DeviceFrictionless
}

// ParseDeviceType converts a string to a DeviceType, case-insensitively.
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return DeviceStandard, nil
	case "frictionless":
		return DeviceFrictionless, nil
	}
	return "", fmt.Errorf("unknown device type: %q", s)
}
