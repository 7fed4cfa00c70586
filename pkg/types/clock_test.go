package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{name: "regular", in: "13:05", wantHour: 13, wantMinute: 5},
		{name: "single digits", in: " 8:0 ", wantHour: 8, wantMinute: 0},
		{name: "out of range kept", in: "25:70", wantHour: 25, wantMinute: 70},
		{name: "no separator", in: "1300", wantErr: true},
		{name: "letters", in: "ab:cd", wantErr: true},
		{name: "seconds", in: "13:00:00", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHour, hour)
			assert.Equal(t, tt.wantMinute, minute)
		})
	}
}
