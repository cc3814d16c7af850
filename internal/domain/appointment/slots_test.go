package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlots(t *testing.T) {
	w := Window{Open: 9 * 60, Close: 10 * 60}

	assert.Equal(t, []string{"09:00", "09:15", "09:30"}, FormatSlots(GenerateSlots(w, 15, 30)))
	assert.Equal(t, []string{"09:00"}, FormatSlots(GenerateSlots(w, 15, 60)))
	assert.Equal(t, []string{"09:00", "09:20", "09:40"}, FormatSlots(GenerateSlots(w, 20, 20)))
}

func TestGenerateSlots_DurationLongerThanWindow(t *testing.T) {
	w := Window{Open: 9 * 60, Close: 10 * 60}

	assert.Empty(t, GenerateSlots(w, 15, 61))
	assert.NotNil(t, GenerateSlots(w, 15, 61))
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	w := Window{Open: 9 * 60, Close: 10 * 60}

	assert.Empty(t, GenerateSlots(w, 0, 30))
	assert.Empty(t, GenerateSlots(w, 15, 0))
	assert.Empty(t, GenerateSlots(Window{Open: 10 * 60, Close: 9 * 60}, 15, 30))
}

func TestGenerateSlots_FitBeforeClose(t *testing.T) {
	w := Window{Open: 7*60 + 30, Close: 20*60 + 10}

	for _, interval := range []int{5, 10, 15, 30} {
		for _, duration := range []int{10, 25, 45, 90} {
			for _, s := range GenerateSlots(w, interval, duration) {
				assert.LessOrEqual(t, int(s.Add(duration)), int(w.Close))
			}
		}
	}
}

func TestGenerateSlots_EndOfDay(t *testing.T) {
	w := Window{Open: 23 * 60, Close: 24 * 60}

	assert.Equal(t, []string{"23:00", "23:30"}, FormatSlots(GenerateSlots(w, 30, 30)))
}
