package repl

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/vscript/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "vars", "funcs", "unset", "edit", "clear", "quit",
}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, operators and punctuation. Dots are part of
// identifiers, so a dotted variable completes as a single word.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '"',
		'(', ')', ',',
		'+', '-', '*', '/',
		'<', '>', '=', '!',
		'&', '|':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a string literal of input.
func inString(input string, offset int) bool {
	return strings.Count(input[:min(offset, len(input))], `"`)%2 == 1
}

// evalCandidates returns the completion candidates in eval mode: the bound
// variable names followed by the built-in function names.
func evalCandidates(store lang.MapStore) []string {
	names := store.Keys()

	for b := range lang.Builtins() {
		if !slices.Contains(names, b.Name) {
			names = append(names, b.Name)
		}
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word, or a word inside a string literal, has no
// matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands

		// Arguments of unset complete as variable names.
		if strings.HasPrefix(input, "unset ") && wordStart > 0 {
			candidates = m.store.Keys()
		}
	} else {
		if inString(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		candidates = evalCandidates(m.store)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// formatPreview renders a short preview of a bound value. Strings are
// quoted.
func formatPreview(v lang.Value) string {
	const maxPreview = 40

	s := v.String()
	if v.IsString() {
		s = strconv.Quote(s)
	}

	if len(s) > maxPreview {
		return s[:maxPreview-3] + "..."
	}

	return s
}

// isFunction reports whether name is a built-in function.
func isFunction(name string) bool {
	_, ok := lang.LookupBuiltin(name)

	return ok
}
