package sentiment

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference scores published with VADER.
func TestVaderReferenceScores(t *testing.T) {
	v := NewVader()
	tests := []struct {
		text               string
		neg, neu, pos, cmp float64
	}{
		{"VADER is smart, handsome, and funny.", 0, 0.254, 0.746, 0.8316},
		{"A really bad, horrible book.", 0.791, 0.209, 0, -0.8211},
		{"The book was good.", 0, 0.508, 0.492, 0.4404},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := v.Score(tt.text)
			assert.InDelta(t, tt.neg, got.Neg, 0.01)
			assert.InDelta(t, tt.neu, got.Neu, 0.01)
			assert.InDelta(t, tt.pos, got.Pos, 0.01)
			assert.InDelta(t, tt.cmp, got.Compound, 0.01)
		})
	}
}

func TestVaderNegation(t *testing.T) {
	v := NewVader()
	got := v.Score("VADER is not smart, handsome, nor funny.")
	assert.Greater(t, got.Neg, got.Pos)
	assert.Less(t, got.Compound, 0.0)
}

func TestVaderNegativity(t *testing.T) {
	v := NewVader()
	assert.Zero(t, Negativity(v, "The committee met on Tuesday"))
	n := Negativity(v, "This is a terrible, awful disaster.")
	assert.Greater(t, n, 0.5)
	assert.LessOrEqual(t, n, 1.0)
}

func TestVaderConcurrent(t *testing.T) {
	v := NewVader()
	const text = "Scientists disagree however, and the outlook is bad"
	want := v.Score(text)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, v.Score(text))
		}()
	}
	wg.Wait()
}
