package race

import (
	"math"
	"strings"
	"time"
)

// A word is five correctly typed characters, per typing-test convention.
const charsPerWord = 5

// Result is the score of a submitted prefix against the reference text.
type Result struct {
	// CorrectChars is the length of the longest prefix of the submission
	// that matches the reference text from position 0.
	CorrectChars int
	// Percent is the completion percentage in [0, 100].
	Percent int
	// WPM is the current speed, 0 until characters land after the start.
	WPM int
	// ValidSoFar is true iff the whole submission is a clean prefix of the
	// reference text. Only valid submissions are propagated; an invalid one
	// is still measured so the client can render local feedback.
	ValidSoFar bool
	// Finished is true iff the submission equals the reference text.
	Finished bool
}

// Evaluate scores input against text given the time elapsed since the race
// started. It is a pure function; callers supply elapsed from their own clock.
func Evaluate(text, input string, elapsed time.Duration) Result {
	t := []rune(text)
	in := []rune(input)

	correct := 0
	for correct < len(in) && correct < len(t) && in[correct] == t[correct] {
		correct++
	}

	valid := strings.HasPrefix(text, input)
	percent := Percent(len(t), correct)

	return Result{
		CorrectChars: correct,
		Percent:      percent,
		WPM:          WPM(correct, elapsed),
		ValidSoFar:   valid,
		Finished:     percent == 100 && valid,
	}
}

// Percent is floor(100 * correct / textLen) clamped to [0, 100]. An empty
// reference text counts as already complete rather than a division by zero.
func Percent(textLen, correct int) int {
	if textLen <= 0 {
		return 100
	}
	p := 100 * correct / textLen
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// WPM is round((correct/5) / elapsedMinutes). It is 0 with no correct
// characters or no elapsed time, and it can drop as time passes without new
// correct characters; that is expected, not a bug.
func WPM(correct int, elapsed time.Duration) int {
	if correct <= 0 || elapsed <= 0 {
		return 0
	}
	words := float64(correct) / charsPerWord
	return int(math.Round(words / elapsed.Minutes()))
}
