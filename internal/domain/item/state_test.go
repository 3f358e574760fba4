package item

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestKindTags verifies every kind maps to its tag and back.
func TestKindTags(t *testing.T) {
	t.Parallel()

	kinds := []Kind{
		KindString,
		KindDateTime,
		KindDecimal,
		KindHSB,
		KindOnOff,
		KindOpenClosed,
		KindPercent,
		KindUndefined,
	}

	for _, kind := range kinds {
		got, ok := KindFromTag(kind.Tag())
		require.True(t, ok, kind.Tag())
		require.Equal(t, kind, got)
	}

	kind, ok := KindFromTag("Undefined")
	require.True(t, ok)
	require.Equal(t, KindUndefined, kind)

	kind, ok = KindFromTag("java.lang.Object")
	require.False(t, ok)
	require.Equal(t, KindString, kind)
}

// TestParse_RoundTrip ensures Parse(kind, s.String()) reproduces every variant.
func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	zone := time.FixedZone("CET", 3600)
	states := []State{
		NewDateTime(time.Date(2018, 3, 1, 12, 34, 56, 789_000_000, zone)),
		NewDateTime(time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)),
		Decimal(23.5),
		Decimal(-0.25),
		Decimal(10),
		Decimal(1e21),
		HSB{Hue: 120, Saturation: 100, Brightness: 50.5},
		On,
		Off,
		Open,
		Closed,
		Percent(0),
		Percent(42.125),
		Percent(100),
		Undef,
		String("hello, world"),
		String(""),
	}

	for _, state := range states {
		parsed, err := Parse(state.Kind(), state.String())
		require.NoError(t, err, state.String())
		require.True(t, Equal(state, parsed), "%s: %q != %q", state.Kind(), state, parsed)
	}
}

// TestParse_Canonical checks the textual forms of the variants.
func TestParse_Canonical(t *testing.T) {
	t.Parallel()

	require.Equal(t, "23.5", Decimal(23.5).String())
	require.Equal(t, "10", Decimal(10).String())
	require.Equal(t, "120,100,50", HSB{Hue: 120, Saturation: 100, Brightness: 50}.String())
	require.Equal(t, "UNDEF", Undef.String())

	ts := time.Date(2018, 3, 1, 12, 34, 56, 789_000_000, time.FixedZone("", 3600))
	require.Equal(t, "2018-03-01T12:34:56.789+0100", NewDateTime(ts).String())
}

// TestDateTime_SubMinuteOffset ensures zones the layout cannot express keep their instant.
func TestDateTime_SubMinuteOffset(t *testing.T) {
	t.Parallel()

	amsterdamLMT := time.FixedZone("LMT", 19*60+32)
	state := NewDateTime(time.Date(1920, 6, 1, 12, 0, 0, 250_000_000, amsterdamLMT))

	require.Equal(t, "1920-06-01T11:40:28.250+0000", state.String())

	parsed, err := Parse(KindDateTime, state.String())
	require.NoError(t, err)

	dt, ok := parsed.(DateTime)
	require.True(t, ok)
	require.True(t, state.Time.Equal(dt.Time), "%s != %s", state.Time, dt.Time)
}

// TestParse_Invalid verifies the variant parsers reject malformed input.
func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind  Kind
		input string
	}{
		{KindDateTime, "yesterday"},
		{KindDecimal, "twelve"},
		{KindDecimal, "NaN"},
		{KindHSB, "1,2"},
		{KindHSB, "361,0,0"},
		{KindHSB, "0,101,0"},
		{KindHSB, "0,0,x"},
		{KindOnOff, "on"},
		{KindOpenClosed, "AJAR"},
		{KindPercent, "100.5"},
		{KindPercent, "-1"},
	}

	for _, tc := range cases {
		_, err := Parse(tc.kind, tc.input)
		require.Error(t, err, "%s %q", tc.kind, tc.input)
		require.True(t, errors.Is(err, ErrInvalidState))
	}
}

// TestParse_Lenient covers the non-canonical inputs that are still accepted.
func TestParse_Lenient(t *testing.T) {
	t.Parallel()

	dt, err := ParseDateTime("2018-03-01T12:34:56Z")
	require.NoError(t, err)
	require.True(t, dt.Time.Equal(time.Date(2018, 3, 1, 12, 34, 56, 0, time.UTC)))

	_, err = ParseDateTime("2018-03-01T12:34:56")
	require.NoError(t, err)

	d, err := ParseDecimal("1E+3")
	require.NoError(t, err)
	require.Equal(t, "1000", d.String())

	hsb, err := ParseHSB("10, 20, 30")
	require.NoError(t, err)
	require.Equal(t, HSB{Hue: 10, Saturation: 20, Brightness: 30}, hsb)
}

// TestParse_UndefinedIgnoresInput ensures the sentinel is returned for any text.
func TestParse_UndefinedIgnoresInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"UNDEF", "NULL", "", "garbage"} {
		state, err := Parse(KindUndefined, input)
		require.NoError(t, err)
		require.Equal(t, Undef, state)
	}
}

// TestRecord verifies NewRecord truncation and the derived type tag.
func TestRecord(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_789_123, time.UTC)
	r := NewRecord("Kitchen_Light", On, ts)

	require.Equal(t, TagOnOff, r.Type())
	require.Equal(t, ts.UnixMilli(), r.Timestamp.UnixMilli())
	require.Zero(t, r.Timestamp.Nanosecond()%int(time.Millisecond))

	h := r.Historic()
	require.Equal(t, r.Name, h.Name)
	require.Equal(t, r.State, h.State)
	require.True(t, r.Timestamp.Equal(h.Timestamp))

	require.Equal(t, TagString, Record{}.Type())
}
