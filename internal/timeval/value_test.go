package timeval

import (
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{"00:30:00", KindClock},
		{" 1:02:03 ", KindClock},
		{"1:2", KindClock},
		{"0.0208333", KindDaySerial},
		{"1", KindDaySerial},
		{"1e-3", KindDaySerial},
		{"45m", KindDuration},
		{"1h2m3s", KindDuration},
		{"", KindInvalid},
		{"   ", KindInvalid},
		{"abc", KindInvalid},
		{"0 days", KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw).Kind())
		})
	}
}

func TestConvert_Clock(t *testing.T) {
	for h := 0; h <= 30; h += 3 {
		for m := 0; m < 60; m += 7 {
			for s := 0; s < 60; s += 11 {
				raw := fmt.Sprintf("%d:%02d:%02d", h, m, s)
				got := Convert(FromClock(raw))
				require.True(t, got.Valid, raw)
				assert.Equal(t, float64(h*3600+m*60+s), got.Value, raw)
			}
		}
	}
}

func TestConvert_DaySerial(t *testing.T) {
	for _, f := range []float64{0, 0.0006944, 0.0208333, 0.25, 0.5, 1, 1.75} {
		got := Convert(FromDaySerial(f))
		require.True(t, got.Valid)
		assert.InDelta(t, f*86400, got.Value, 0.0005)
	}
}

func TestConvert_DaySerialSnapsToMilliseconds(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		want   float64
	}{
		{"TenMinutesAbove", 600.0000048 / 86400, 600},
		{"HalfHourAbove", 1800.0000576 / 86400, 1800},
		{"OneHourAbove", 3600.0001152 / 86400, 3600},
		{"ElevenSeconds", 11.0 / 86400, 11},
		{"HalfSecond", 0.5 / 86400, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(FromDaySerial(tt.serial))
			require.True(t, got.Valid)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestConvertRaw_WholeSecondSerials(t *testing.T) {
	for sec := 1; sec <= 4*3600; sec++ {
		raw := strconv.FormatFloat(float64(sec)/86400, 'g', -1, 64)
		got := ConvertRaw(raw)
		require.True(t, got.Valid, raw)
		if got.Value != float64(sec) {
			t.Fatalf("ConvertRaw(%s) = %v, want %d", raw, got.Value, sec)
		}
		want := fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec%3600/60, sec%60)
		if s := FormatHHMMSS(got); s != want {
			t.Fatalf("FormatHHMMSS(%v) = %s, want %s", got.Value, s, want)
		}
	}
}

func TestConvert_Duration(t *testing.T) {
	got := Convert(FromDuration(90 * time.Minute))
	require.True(t, got.Valid)
	assert.Equal(t, 5400.0, got.Value)

	got = Convert(FromDuration(1500 * time.Millisecond))
	require.True(t, got.Valid)
	assert.Equal(t, 1.5, got.Value)
}

func TestConvert_Unrepresentable(t *testing.T) {
	tests := []struct {
		name string
		in   Value
	}{
		{"TwoParts", FromClock("1:30")},
		{"FourParts", FromClock("1:02:03:04")},
		{"NonInteger", FromClock("a:b:c")},
		{"FractionalPart", FromClock("1:30:00.5")},
		{"PandasTimedelta", FromClock("0 days 00:30:00")},
		{"NegativeClock", FromClock("-1:00:00")},
		{"NegativeSerial", FromDaySerial(-0.1)},
		{"NaN", FromDaySerial(math.NaN())},
		{"Inf", FromDaySerial(math.Inf(1))},
		{"NegativeDuration", FromDuration(-time.Second)},
		{"Invalid", Invalid()},
		{"ClockOverflow", FromClock("6000000000000000:00:00")},
		{"SerialOverflow", FromDaySerial(1e300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Convert(tt.in).Valid)
		})
	}
}

func TestConvertRaw(t *testing.T) {
	assert.Equal(t, Of(1800), ConvertRaw("00:30:00"))
	assert.Equal(t, Of(43200), ConvertRaw("0.5"))
	assert.Equal(t, Of(2700), ConvertRaw("45m"))
	assert.Equal(t, Null, ConvertRaw("n/a"))
}

func TestFormatHHMMSS(t *testing.T) {
	tests := []struct {
		name string
		in   Seconds
		want string
	}{
		{"Null", Null, "-"},
		{"Zero", Of(0), "00:00:00"},
		{"Simple", Of(7384), "02:03:04"},
		{"Fractional", Of(3661.9), "01:01:01"},
		{"OverOneDay", Of(90000), "25:00:00"},
		{"ManyDays", Of(360000 + 59), "100:00:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHHMMSS(tt.in))
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestFormatHHMMSS_RoundTrip(t *testing.T) {
	for _, raw := range []string{"02:03:04", "00:00:00", "12:59:59", "48:00:01"} {
		assert.Equal(t, raw, FormatHHMMSS(ConvertRaw(raw)))
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"Serial", "45627", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
		{"SerialWithTime", "45627.5", time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)},
		{"ISO", "2024-12-02 08:15:00", time.Date(2024, 12, 2, 8, 15, 0, 0, time.UTC)},
		{"DateOnly", "2024-12-03", time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC)},
		{"DayFirst", "05/12/2024 10:00", time.Date(2024, 12, 5, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.raw)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}

	for _, raw := range []string{"", "ontem", "-3", "0", "0.5", "0.999", "32/13/2024"} {
		_, ok := ParseTimestamp(raw)
		assert.False(t, ok, raw)
	}
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, 12, 1, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), DateOf(in))
}
