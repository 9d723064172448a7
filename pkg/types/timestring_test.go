package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid morning", value: "08:00"},
		{name: "valid midnight", value: "00:00"},
		{name: "end of day", value: "24:00"},
		{name: "last minute", value: "23:59"},
		{name: "missing leading zero", value: "8:00", wantErr: true},
		{name: "with seconds", value: "08:00:00", wantErr: true},
		{name: "out of range hour", value: "25:00", wantErr: true},
		{name: "out of range minute", value: "08:60", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TimeString(tt.value).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("08:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 8*60+30, m)

	m, err = TimeString("24:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 24*60, m)

	_, err = TimeString("bad").Minutes()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestFromMinutes(t *testing.T) {
	ts, err := FromMinutes(0)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:00"), ts)

	ts, err = FromMinutes(13*60 + 50)
	require.NoError(t, err)
	assert.Equal(t, TimeString("13:50"), ts)

	ts, err = FromMinutes(24 * 60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	_, err = FromMinutes(24*60 + 10)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = FromMinutes(-10)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("17:50").AddMinutes(10)
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:00"), ts)

	ts, err = TimeString("23:50").AddMinutes(10)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	_, err = TimeString("23:55").AddMinutes(10)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("08:00").IsBefore("08:10"))
	assert.False(t, TimeString("08:10").IsBefore("08:00"))
	assert.False(t, TimeString("08:00").IsBefore("08:00"))
	assert.True(t, TimeString("18:00").IsAfter("08:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME колонки приходят как "HH:MM:SS"
	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:00:00")))
	assert.Equal(t, TimeString("08:00"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 10, 15, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("13:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:30", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
