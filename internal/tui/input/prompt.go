// Package input provides completion for the go-to-date prompt.
package input

import "strings"

// DateWord is a relative date keyword the prompt understands.
type DateWord struct {
	Name        string
	Description string
}

// DateWords lists the keywords accepted by the go-to-date prompt, in the
// order they are suggested.
func DateWords() []DateWord {
	words := []DateWord{
		{Name: "today", Description: "Today"},
		{Name: "tomorrow", Description: "Tomorrow"},
		{Name: "yesterday", Description: "Yesterday"},
	}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		short := strings.ToUpper(day[:1]) + day[1:3]
		words = append(words,
			DateWord{Name: day, Description: "Next " + short},
			DateWord{Name: "last-" + day, Description: "Last " + short},
		)
	}
	return words
}

// MatchingDateWords returns the keywords that start with the current input.
// Inputs that look like an ISO date get no suggestions.
func MatchingDateWords(input string, words []DateWord) []DateWord {
	prefix := strings.ToLower(strings.TrimSpace(input))
	if prefix == "" || strings.ContainsAny(prefix[:1], "0123456789") {
		return nil
	}
	matches := make([]DateWord, 0, len(words))
	for _, w := range words {
		if strings.HasPrefix(w.Name, prefix) {
			matches = append(matches, w)
		}
	}
	return matches
}

// Autocomplete returns the first matching keyword and whether it exists.
func Autocomplete(input string, words []DateWord) (string, bool) {
	matches := MatchingDateWords(input, words)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name, true
}
