package item

import (
	"strconv"
	"time"
)

// Kind enumerates the variants of the State union.
type Kind uint8

const (
	// KindString is the fallback variant holding arbitrary text.
	KindString Kind = iota
	// KindDateTime holds a point in time.
	KindDateTime
	// KindDecimal holds a plain number.
	KindDecimal
	// KindHSB holds a hue/saturation/brightness color.
	KindHSB
	// KindOnOff holds a switch position.
	KindOnOff
	// KindOpenClosed holds a contact position.
	KindOpenClosed
	// KindPercent holds a number in the [0, 100] range.
	KindPercent
	// KindUndefined is the sentinel for an item without a known state.
	KindUndefined
)

// Type tags written to the "type" field of a record.
const (
	TagString     = "StringType"
	TagDateTime   = "DateTimeType"
	TagDecimal    = "DecimalType"
	TagHSB        = "HSBType"
	TagOnOff      = "OnOffType"
	TagOpenClosed = "OpenClosedType"
	TagPercent    = "PercentType"
	TagUndefined  = "UnDefType"

	// tagUndefinedAlias is accepted on input as another name for TagUndefined.
	tagUndefinedAlias = "Undefined"
)

// DateTimeLayout is the canonical textual form of DateTime values.
const DateTimeLayout = "2006-01-02T15:04:05.000-0700"

// Tag returns the type tag of the kind.
func (k Kind) Tag() string {
	switch k {
	case KindDateTime:
		return TagDateTime
	case KindDecimal:
		return TagDecimal
	case KindHSB:
		return TagHSB
	case KindOnOff:
		return TagOnOff
	case KindOpenClosed:
		return TagOpenClosed
	case KindPercent:
		return TagPercent
	case KindUndefined:
		return TagUndefined
	default:
		return TagString
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return k.Tag()
}

// KindFromTag maps a type tag to its kind.
// The second result is false for tags outside the known set; such tags
// are reported as KindString.
func KindFromTag(tag string) (Kind, bool) {
	switch tag {
	case TagDateTime:
		return KindDateTime, true
	case TagDecimal:
		return KindDecimal, true
	case TagHSB:
		return KindHSB, true
	case TagOnOff:
		return KindOnOff, true
	case TagOpenClosed:
		return KindOpenClosed, true
	case TagPercent:
		return KindPercent, true
	case TagUndefined, tagUndefinedAlias:
		return KindUndefined, true
	case TagString:
		return KindString, true
	default:
		return KindString, false
	}
}

// State is the value currently held by an item.
// The set of implementations is closed to this package.
type State interface {
	// Kind reports the variant of the state.
	Kind() Kind
	// String renders the canonical textual form of the state.
	String() string

	isState()
}

// DateTime is a point in time with millisecond precision.
type DateTime struct {
	// Time is the wrapped instant.
	Time time.Time
}

// NewDateTime truncates t to milliseconds and wraps it.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.Truncate(time.Millisecond)}
}

// Kind implements State.
func (DateTime) Kind() Kind { return KindDateTime }

// String implements State.
// Zones whose offset is not a whole number of minutes, such as historic local
// mean time, cannot be written by the layout and are rendered in UTC instead.
func (d DateTime) String() string {
	t := d.Time
	if _, offset := t.Zone(); offset%60 != 0 {
		t = t.UTC()
	}

	return t.Format(DateTimeLayout)
}

func (DateTime) isState() {}

// Decimal is a plain number such as a temperature reading.
type Decimal float64

// Kind implements State.
func (Decimal) Kind() Kind { return KindDecimal }

// String implements State.
func (d Decimal) String() string { return formatNumber(float64(d)) }

func (Decimal) isState() {}

// HSB is a color in the hue/saturation/brightness model.
type HSB struct {
	// Hue is the color angle in degrees, [0, 360].
	Hue float64
	// Saturation is a percentage, [0, 100].
	Saturation float64
	// Brightness is a percentage, [0, 100].
	Brightness float64
}

// Kind implements State.
func (HSB) Kind() Kind { return KindHSB }

// String implements State.
func (h HSB) String() string {
	return formatNumber(h.Hue) + "," + formatNumber(h.Saturation) + "," + formatNumber(h.Brightness)
}

func (HSB) isState() {}

// OnOff is a switch position.
type OnOff string

// Switch positions.
const (
	On  OnOff = "ON"
	Off OnOff = "OFF"
)

// Kind implements State.
func (OnOff) Kind() Kind { return KindOnOff }

// String implements State.
func (o OnOff) String() string { return string(o) }

func (OnOff) isState() {}

// OpenClosed is a contact position.
type OpenClosed string

// Contact positions.
const (
	Open   OpenClosed = "OPEN"
	Closed OpenClosed = "CLOSED"
)

// Kind implements State.
func (OpenClosed) Kind() Kind { return KindOpenClosed }

// String implements State.
func (o OpenClosed) String() string { return string(o) }

func (OpenClosed) isState() {}

// Percent is a number in the [0, 100] range, e.g. a dimmer level.
type Percent float64

// Kind implements State.
func (Percent) Kind() Kind { return KindPercent }

// String implements State.
func (p Percent) String() string { return formatNumber(float64(p)) }

func (Percent) isState() {}

// Undefined marks an item whose state is not known.
type Undefined struct{}

// Undef is the Undefined sentinel.
//
//nolint:gochecknoglobals // Sentinel value.
var Undef = Undefined{}

// Kind implements State.
func (Undefined) Kind() Kind { return KindUndefined }

// String implements State.
func (Undefined) String() string { return "UNDEF" }

func (Undefined) isState() {}

// String is free text and the fallback for unknown type tags.
type String string

// Kind implements State.
func (String) Kind() Kind { return KindString }

// String implements State.
func (s String) String() string { return string(s) }

func (String) isState() {}

// Equal reports whether two states have the same kind and canonical form.
func Equal(a, b State) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Kind() == b.Kind() && a.String() == b.String()
}

// formatNumber renders f as the shortest plain decimal that parses back to f.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
