package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/vscript/lang"
)

// Styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. Parentheses and commas inside string
// literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Record the unmatched '(' offsets and the argument index within each,
	// scanning forward so that string literals are skipped correctly.
	type frame struct{ open, arg int }

	var (
		stack []frame
		quote bool
	)

	for i := 0; i < cursor; {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case r == '"':
			quote = !quote
		case quote:
		case r == '(':
			stack = append(stack, frame{open: i})
		case r == ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case r == ',':
			if len(stack) > 0 {
				stack[len(stack)-1].arg++
			}
		}

		i += size
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]

	// Walk backward from the '(' collecting identifier characters.
	nameEnd := top.open
	for nameEnd > 0 && input[nameEnd-1] == ' ' {
		nameEnd--
	}

	nameStart := nameEnd

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if isWordBoundary(r) {
			break
		}

		nameStart -= size
	}

	name := input[nameStart:nameEnd]
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.arg, inCall: true}
}

// getSignature returns the call form and parameter names of the built-in
// function name. It returns an empty signature for unknown names.
func getSignature(name string) (signature string, params []string) {
	b, ok := lang.LookupBuiltin(name)
	if !ok {
		return "", nil
	}

	params = make([]string, len(b.Params))

	for i, p := range b.Params {
		switch {
		case b.MaxArgs == lang.Variadic && i == len(b.Params)-1:
			params[i] = "..." + p
		case i >= b.MinArgs:
			params[i] = "[" + p + "]"
		default:
			params[i] = p
		}
	}

	return b.Signature(), params
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// A variadic parameter stays highlighted for every argument from its
		// position onward.
		variadic := strings.HasPrefix(param, "...")
		if (variadic && currentArgIdx >= i) || (!variadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
