package item

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// maxHue is the upper bound of the hue angle.
	maxHue = 360
	// maxPercent is the upper bound of percentages.
	maxPercent = 100
	// hsbComponents is the number of comma separated parts of an HSB value.
	hsbComponents = 3
)

// ErrInvalidState is returned when a textual state does not match the grammar of its kind.
var ErrInvalidState = errors.New("invalid state")

// dateTimeLayouts are tried in order when parsing DateTime values.
// Layouts without a zone are interpreted in the local time zone.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dateTimeLayouts = []struct {
	layout string
	local  bool
}{
	{layout: DateTimeLayout},
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05", local: true},
}

// Parse converts the canonical textual form of a state of the given kind back into a State.
// KindString never fails and KindUndefined ignores s entirely.
//
//nolint:ireturn // State is a closed union.
func Parse(kind Kind, s string) (State, error) {
	switch kind {
	case KindDateTime:
		return ParseDateTime(s)
	case KindDecimal:
		return ParseDecimal(s)
	case KindHSB:
		return ParseHSB(s)
	case KindOnOff:
		return ParseOnOff(s)
	case KindOpenClosed:
		return ParseOpenClosed(s)
	case KindPercent:
		return ParsePercent(s)
	case KindUndefined:
		return Undef, nil
	default:
		return String(s), nil
	}
}

// ParseDateTime parses a DateTime in the canonical layout, RFC 3339, or a zone-less local timestamp.
func ParseDateTime(s string) (DateTime, error) {
	for _, candidate := range dateTimeLayouts {
		location := time.UTC
		if candidate.local {
			location = time.Local
		}

		t, err := time.ParseInLocation(candidate.layout, s, location)

		if err == nil {
			return NewDateTime(t), nil
		}
	}

	return DateTime{}, fmt.Errorf("%w: date-time %q", ErrInvalidState, s)
}

// ParseDecimal parses a plain number; NaN and infinities are rejected.
func ParseDecimal(s string) (Decimal, error) {
	f, err := parseNumber(s)
	if err != nil {
		return 0, fmt.Errorf("%w: decimal %q", ErrInvalidState, s)
	}

	return Decimal(f), nil
}

// ParsePercent parses a number within [0, 100].
func ParsePercent(s string) (Percent, error) {
	f, err := parseNumber(s)
	if err != nil || f < 0 || f > maxPercent {
		return 0, fmt.Errorf("%w: percent %q", ErrInvalidState, s)
	}

	return Percent(f), nil
}

// ParseHSB parses an "H,S,B" triple.
func ParseHSB(s string) (HSB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != hsbComponents {
		return HSB{}, fmt.Errorf("%w: hsb %q: expected %d components", ErrInvalidState, s, hsbComponents)
	}

	var values [hsbComponents]float64

	for i, part := range parts {
		f, err := parseNumber(strings.TrimSpace(part))
		if err != nil {
			return HSB{}, fmt.Errorf("%w: hsb %q: component %d", ErrInvalidState, s, i+1)
		}

		values[i] = f
	}

	hsb := HSB{
		Hue:        values[0],
		Saturation: values[1],
		Brightness: values[2],
	}

	switch {
	case hsb.Hue < 0 || hsb.Hue > maxHue:
		return HSB{}, fmt.Errorf("%w: hsb %q: hue out of range", ErrInvalidState, s)
	case hsb.Saturation < 0 || hsb.Saturation > maxPercent:
		return HSB{}, fmt.Errorf("%w: hsb %q: saturation out of range", ErrInvalidState, s)
	case hsb.Brightness < 0 || hsb.Brightness > maxPercent:
		return HSB{}, fmt.Errorf("%w: hsb %q: brightness out of range", ErrInvalidState, s)
	}

	return hsb, nil
}

// ParseOnOff parses "ON" or "OFF".
func ParseOnOff(s string) (OnOff, error) {
	switch OnOff(s) {
	case On, Off:
		return OnOff(s), nil
	default:
		return "", fmt.Errorf("%w: on/off %q", ErrInvalidState, s)
	}
}

// ParseOpenClosed parses "OPEN" or "CLOSED".
func ParseOpenClosed(s string) (OpenClosed, error) {
	switch OpenClosed(s) {
	case Open, Closed:
		return OpenClosed(s), nil
	default:
		return "", fmt.Errorf("%w: open/closed %q", ErrInvalidState, s)
	}
}

func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}

	return f, nil
}
