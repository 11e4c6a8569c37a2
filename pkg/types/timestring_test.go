package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "08:00", want: "08:00"},
		{name: "valid evening", input: "21:30", want: "21:30"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "bad hours", input: "25:00", wantErr: true},
		{name: "bad minutes", input: "10:99", wantErr: true},
		{name: "no separator", input: "1000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_TotalMinutes(t *testing.T) {
	minutes, err := TimeString("10:30").TotalMinutes()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)

	_, err = TimeString("garbage").TotalMinutes()
	assert.Error(t, err)
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("08:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), got)

	got, err = TimeString("10:45").AddMinutes(-45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:00"), got)

	// переход через полночь недопустим для слотов
	_, err = TimeString("23:30").AddMinutes(60)
	assert.Error(t, err)

	_, err = TimeString("23:00").AddMinutes(60)
	assert.Error(t, err)

	_, err = TimeString("00:30").AddMinutes(-60)
	assert.Error(t, err)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("08:00").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("21:00").IsAfter("08:30"))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("14:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "14:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("14:99").Value()
	assert.Error(t, err)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// TIME колонки приходят как time.Time
	require.NoError(t, ts.Scan(time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("10:30"), ts)

	// строки с секундами обрезаются до HH:MM
	require.NoError(t, ts.Scan("14:00:00"))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
