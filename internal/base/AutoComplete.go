package base

import (
	"strings"

	"golang.org/x/exp/slices"
)

type AutoComplete interface {
	Input() string
	Add(text, description string)
}

type AutoCompletable interface {
	AutoComplete(in AutoComplete)
}

type AutoCompleteResult struct {
	Text        string
	Description string
	Score       int
}

/***************************************
 * Prefix auto-complete
 ***************************************/

// ranks candidates by case-insensitive common prefix, used for "did you mean" hints
type PrefixAutoComplete struct {
	input   string
	Results []AutoCompleteResult
}

func NewPrefixAutoComplete(input string) *PrefixAutoComplete {
	return &PrefixAutoComplete{input: strings.ToUpper(input)}
}

func (x *PrefixAutoComplete) Input() string { return x.input }
func (x *PrefixAutoComplete) Add(text, description string) {
	candidate := strings.ToUpper(text)
	score := 0
	for score < len(candidate) && score < len(x.input) && candidate[score] == x.input[score] {
		score++
	}
	if score == 0 && !strings.Contains(candidate, x.input) {
		return
	}
	x.Results = append(x.Results, AutoCompleteResult{
		Text:        text,
		Description: description,
		Score:       score,
	})
}
func (x *PrefixAutoComplete) Best(maxResults int) []AutoCompleteResult {
	slices.SortStableFunc(x.Results, func(a, b AutoCompleteResult) int {
		return b.Score - a.Score
	})
	if len(x.Results) > maxResults {
		return x.Results[:maxResults]
	}
	return x.Results
}
