package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	tests := []struct {
		name     string
		input    any
		want     any
		wantZone bool
	}{
		{"time value", time.Date(2020, 3, 8, 10, 30, 0, 0, shanghai), "2020-03-08T10:30:00+08:00", true},
		{"utc time value", time.Date(2020, 3, 8, 10, 30, 0, 0, time.UTC), "2020-03-08T10:30:00Z", true},
		{"int passes through", 42, 42, false},
		{"float passes through", 1.5, 1.5, false},
		{"nil passes through", nil, nil, false},
		{"iso offset unchanged", "2020-03-08T10:30:00+08:00", "2020-03-08T10:30:00+08:00", true},
		{"iso zulu unchanged", "2020-03-08T10:30:00Z", "2020-03-08T10:30:00Z", true},
		{"unpadded date", "2020-3-8", "2020-03-08", true},
		{"padded date", "2020-03-08", "2020-03-08", true},
		{"overflowing date", "2020-2-30", "2020-03-01", true},
		{"naive datetime", "2020-03-08 10:30:00", "2020-03-08T10:30:00+08:00", true},
		{"plain text", "active", "active", false},
		{"numeric text", "5", "5", false},
		{"date with suffix", "2020-03-08x", "2020-03-08x", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, zone := Normalize(tt.input, shanghai)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantZone, zone)
		})
	}
}

func TestNormalize_TimePointer(t *testing.T) {
	ts := time.Date(2021, 12, 31, 23, 59, 59, 0, time.UTC)
	got, zone := Normalize(&ts, time.UTC)
	assert.Equal(t, "2021-12-31T23:59:59Z", got)
	assert.True(t, zone)

	var nilTime *time.Time
	got, zone = Normalize(nilTime, time.UTC)
	assert.Nil(t, got)
	assert.False(t, zone)
}

func TestNormalize_NilLocationUsesLocal(t *testing.T) {
	got, zone := Normalize("2020-03-08 00:00:00", nil)
	require.True(t, zone)

	parsed, err := time.Parse(OffsetLayout, got.(string))
	require.NoError(t, err)
	want := time.Date(2020, 3, 8, 0, 0, 0, 0, time.Local)
	assert.True(t, parsed.Equal(want), "got %v want %v", parsed, want)
}

func TestZoneName(t *testing.T) {
	assert.Equal(t, "UTC", ZoneName(time.UTC))
	assert.Equal(t, "+08:00", ZoneName(time.FixedZone("CST", 8*3600)))
	assert.Equal(t, "+05:30", ZoneName(time.FixedZone("", 5*3600+1800)))
	assert.Equal(t, "-03:00", ZoneName(time.FixedZone("EST", -3*3600)))

	ny, err := time.LoadLocation("America/New_York")
	if err == nil {
		assert.Equal(t, "America/New_York", ZoneName(ny))
	}

	local := ZoneName(time.Local)
	assert.NotEqual(t, "Local", local)
	assert.NotEmpty(t, local)
}
