package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeProvider(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "empty timezone defaults to Local", timezone: ""},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "valid timezone Asia/Shanghai", timezone: "Asia/Shanghai"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := NewTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Valid examples")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, tp.Location())
		})
	}
}

func TestTimeProvider_TodayUsesTimezone(t *testing.T) {
	// 2021-03-01 02:00 in Shanghai is still Feb 28 in UTC
	instant := time.Date(2021, time.February, 28, 18, 0, 0, 0, time.UTC)

	shanghai, err := NewTimeProvider("Asia/Shanghai")
	require.NoError(t, err)
	shanghai.SetClock(func() time.Time { return instant })
	assert.Equal(t, "2021-03-01", shanghai.Today().String())

	utc, err := NewTimeProvider("UTC")
	require.NoError(t, err)
	utc.SetClock(func() time.Time { return instant })
	assert.Equal(t, "2021-02-28", utc.Today().String())
}

func TestInitializeTimeProvider(t *testing.T) {
	require.NoError(t, InitializeTimeProvider("UTC"))
	assert.Equal(t, "UTC", GetTimeProvider().Location().String())

	assert.Error(t, InitializeTimeProvider("Not/AZone"))
	assert.Equal(t, "UTC", GetTimeProvider().Location().String(), "failed init keeps the previous provider")
}
