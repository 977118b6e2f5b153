package results

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"racer/internal/race"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00.000"},
		{1234 * time.Millisecond, "00:01.234"},
		{61*time.Second + 5*time.Millisecond, "01:01.005"},
		{59*time.Minute + 59*time.Second + 999*time.Millisecond, "59:59.999"},
		{75 * time.Minute, "75:00.000"},
		{-time.Second, "00:00.000"},
		{1999999 * time.Microsecond, "00:01.999"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTime(tt.in), tt.in.String())
	}
	assert.Equal(t, NoTime, FormatOptional(time.Second, false))
	assert.Equal(t, "00:01.000", FormatOptional(time.Second, true))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, race.Result{
		Total:      95 * time.Second,
		Laps:       []time.Duration{31 * time.Second, 29 * time.Second},
		Best:       29 * time.Second,
		HasBest:    true,
		Collisions: 4,
	})
	out := buf.String()
	assert.Contains(t, out, "00:31.000")
	assert.Contains(t, out, "00:29.000")
	assert.Contains(t, out, "best")
	assert.Contains(t, out, "01:35.000")
	assert.Contains(t, out, "4")

	buf.Reset()
	Table(&buf, race.Result{Total: time.Second})
	assert.Contains(t, buf.String(), NoTime)
}
