package reply

import "fmt"

// Canned admonishments, one tone per difficulty level. Always available so
// the game never waits on the generation tool.
var fallbackLines = []string{
	"Bad human! That button is not for clicking.",
	"You clicked it again. The button is disappointed.",
	"The button has filed a formal complaint about you.",
	"The button is now actively avoiding you. Take the hint.",
	"Impressive persistence. Terrible judgement.",
	"The button has seen things. It will never be the same.",
}

// FallbackText returns the canned line for a difficulty level, clamping
// out-of-range levels to the nearest entry.
func FallbackText(level int) string {
	if level < 0 {
		level = 0
	}
	if level >= len(fallbackLines) {
		level = len(fallbackLines) - 1
	}
	return fallbackLines[level]
}

func fallbackResult(level int, reason Reason) Result {
	return Result{Text: FallbackText(level), Fallback: true, Reason: reason}
}

// PromptFor builds the narration prompt for a click.
func PromptFor(count, level int) string {
	return fmt.Sprintf(
		"You narrate a game where a human keeps clicking a button they were told not to click. "+
			"They have clicked %d times and the difficulty is %d. "+
			"Scold them in one short, dry sentence.",
		count, level)
}
