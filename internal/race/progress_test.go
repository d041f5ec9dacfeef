package race

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		input   string
		elapsed time.Duration
		want    Result
	}{
		{
			name:    "partial correct prefix",
			text:    "abcde",
			input:   "abc",
			elapsed: 30 * time.Second,
			want:    Result{CorrectChars: 3, Percent: 60, WPM: 1, ValidSoFar: true},
		},
		{
			name:    "trailing mismatch is measured but not valid",
			text:    "abcde",
			input:   "abx",
			elapsed: 30 * time.Second,
			want:    Result{CorrectChars: 2, Percent: 40, WPM: 1, ValidSoFar: false},
		},
		{
			name:    "mismatch at first character",
			text:    "abcde",
			input:   "xbcde",
			elapsed: time.Minute,
			want:    Result{CorrectChars: 0, Percent: 0, WPM: 0, ValidSoFar: false},
		},
		{
			name:    "empty input is a valid empty prefix",
			text:    "abcde",
			input:   "",
			elapsed: time.Minute,
			want:    Result{CorrectChars: 0, Percent: 0, WPM: 0, ValidSoFar: true},
		},
		{
			name:    "exact match finishes",
			text:    "abcde",
			input:   "abcde",
			elapsed: time.Minute,
			want:    Result{CorrectChars: 5, Percent: 100, WPM: 1, ValidSoFar: true, Finished: true},
		},
		{
			name:    "longer input with matching head clamps but never finishes",
			text:    "abcde",
			input:   "abcdef",
			elapsed: time.Minute,
			want:    Result{CorrectChars: 5, Percent: 100, WPM: 1, ValidSoFar: false},
		},
		{
			name:    "empty reference text is already complete",
			text:    "",
			input:   "",
			elapsed: time.Minute,
			want:    Result{CorrectChars: 0, Percent: 100, WPM: 0, ValidSoFar: true, Finished: true},
		},
		{
			name:    "no elapsed time means zero wpm",
			text:    "abcde",
			input:   "abc",
			elapsed: 0,
			want:    Result{CorrectChars: 3, Percent: 60, WPM: 0, ValidSoFar: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.text, tc.input, tc.elapsed)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluatePercentMonotone(t *testing.T) {
	text := "the quick brown fox"
	prev := 0
	for i := 0; i <= len(text); i++ {
		res := Evaluate(text, text[:i], time.Minute)
		assert.True(t, res.ValidSoFar)
		assert.GreaterOrEqual(t, res.Percent, prev, "percent must not decrease at prefix length %d", i)
		assert.LessOrEqual(t, res.Percent, 100)
		prev = res.Percent
	}
	assert.Equal(t, 100, prev)
}

func TestEvaluateHundredOnlyOnFullMatch(t *testing.T) {
	text := "abcde"
	for i := 0; i < len(text); i++ {
		res := Evaluate(text, text[:i], time.Minute)
		assert.Less(t, res.Percent, 100, "proper prefix of length %d must not report completion", i)
		assert.False(t, res.Finished)
	}
}

func TestWPM(t *testing.T) {
	testCases := []struct {
		name    string
		correct int
		elapsed time.Duration
		want    int
	}{
		{"spec example", 3, 30 * time.Second, 1},
		{"zero correct chars never scores", 0, time.Hour, 0},
		{"zero elapsed never scores", 25, 0, 0},
		{"negative elapsed never scores", 25, -time.Second, 0},
		{"one word per minute", 5, time.Minute, 1},
		{"rounds to nearest", 37, time.Minute, 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WPM(tc.correct, tc.elapsed))
		})
	}
}

func TestEvaluateMultibyteText(t *testing.T) {
	res := Evaluate("héllo", "hé", 30*time.Second)
	assert.Equal(t, 2, res.CorrectChars)
	assert.Equal(t, 40, res.Percent)
	assert.True(t, res.ValidSoFar)
}
