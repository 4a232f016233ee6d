package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/vscript/lang"
	"github.com/ardnew/vscript/log"
)

// editStoreMsg is sent when store editing completes successfully.
type editStoreMsg struct{ store lang.MapStore }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a decode
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-decode error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help         Print this cruft
  vars         List bound variables
  funcs        List built-in functions
  unset NAME   Remove variable bindings
  edit         Edit variable bindings as YAML in $EDITOR
  clear        Clear screen
  quit         Exit REPL

Usage:
  Type an expression to evaluate it; assignments (x = 1) persist
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Option configures a REPL session.
type Option func(*config)

type config struct {
	eval   []lang.Option
	decode Decoder
}

// WithEvalOptions sets the options every line is evaluated with.
func WithEvalOptions(opts ...lang.Option) Option {
	return func(c *config) { c.eval = append(c.eval, opts...) }
}

// WithDecoder sets the decoder used by the edit command to read the edited
// bindings back. Without one, edit reports [ErrNoDecoder].
func WithDecoder(d Decoder) Option {
	return func(c *config) { c.decode = d }
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	store            lang.MapStore
	config           config
	logger           log.Logger
	history          *History
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
}

// Run starts an interactive session evaluating lines against store. Bindings
// made by assignments, unset and edit are applied to store in place, so the
// caller observes the final bindings after Run returns. History is kept in
// cacheDir; an empty cacheDir disables persistence.
func Run(
	ctx context.Context,
	store lang.MapStore,
	cacheDir string,
	logger log.Logger,
	opts ...Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if store == nil {
		store = make(lang.MapStore)
	}

	logger = logger.With(slog.String("session_id", uuid.NewString()))

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("binding_count", store.Len()),
	)

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath), slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	m := newModel(ctx, store, cfg, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	store lang.MapStore,
	cfg config,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	// Evaluation logs carry the session logger.
	cfg.eval = append(cfg.eval, lang.WithLogger(logger))

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		store:      store,
		config:     cfg,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editStoreMsg:
		clear(m.store)
		maps.Copy(m.store, msg.store)
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("binding_count", m.store.Len()),
		)

		return m, tea.Println(resultStyle.Render("✔ bindings updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine renders the line below the input: a history position, a usage
// hint, a signature hint, or the completion bar.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render(
			"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && (len(m.matches) == 0 || !m.tabActive) {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if sig, params := getSignature(call.name); sig != "" {
				return renderSignatureHint(sig, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNavActive = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycleCandidate(1), nil

	case tea.KeyShiftTab:
		return m.cycleCandidate(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		return m.historyStep(-1), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(1), nil
		}

		return m.historyStep(1), nil

	case tea.KeyShiftUp:
		return m.historyInMode(-1), nil

	case tea.KeyShiftDown:
		return m.historyInMode(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode()

	case tea.KeyRunes:
		// Space is a "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycleCandidate selects the next (dir > 0) or previous (dir < 0) completion
// candidate and substitutes it for the current word. A sole candidate is
// accepted immediately.
func (m model) cycleCandidate(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n
	case dir > 0:
		m.suggIdx = 0
	default:
		m.suggIdx = n - 1
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	if m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echoCmd := tea.Println(formatCommand(input))

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	result, err := m.evaluate(input)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result_type", "error"),
			slog.Any("error", err),
		)

		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render(lang.FormatSyntaxError(input, err))),
		)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.String("result_type", result.Kind().String()),
	)

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(formatPreview(result)) + " " +
			hintStyle.Render(result.Kind().String())),
	)
}

// evaluate parses and evaluates one line against the session store.
func (m model) evaluate(input string) (lang.Value, error) {
	return lang.Eval(m.ctxFunc(), input, m.store, m.config.eval...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd, args := parts[0], parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echoCmd, tea.Println(m.listVars()))

	case "f", "funcs":
		return m, tea.Sequence(echoCmd, tea.Println(listFuncs()))

	case "u", "unset":
		return m, tea.Sequence(echoCmd, tea.Println(m.unset(args)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.editStore())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) editStore() tea.Cmd {
	cmd := &editStoreCommand{
		store:   m.store,
		decode:  m.config.decode,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.newStore == nil {
			return editCancelledMsg{}
		}

		return editStoreMsg{store: cmd.newStore}
	})
}

func (m model) listVars() string {
	if m.store.Len() == 0 {
		return hintStyle.Render("  (no variables bound)")
	}

	var b strings.Builder

	for _, key := range m.store.Keys() {
		v, _ := m.store.Get(key)
		fmt.Fprintf(&b, "  %s %s\n", key, hintStyle.Render(formatPreview(v)))
	}

	return b.String()
}

func listFuncs() string {
	var b strings.Builder

	for f := range lang.Builtins() {
		fmt.Fprintf(&b, "  %s %s\n",
			signatureNameStyle.Render(f.Signature()), hintStyle.Render(f.Doc))
	}

	return b.String()
}

// unset removes the named bindings and reports what was removed.
func (m model) unset(names []string) string {
	if len(names) == 0 {
		return errorStyle.Render("usage: unset NAME...")
	}

	var removed, missing []string

	for _, name := range names {
		if _, ok := m.store.Get(name); ok {
			m.store.Delete(name)
			removed = append(removed, name)
		} else {
			missing = append(missing, name)
		}
	}

	var b strings.Builder

	if len(removed) > 0 {
		b.WriteString(resultStyle.Render("removed: " + strings.Join(removed, ", ")))
	}

	if len(missing) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}

		b.WriteString(errorStyle.Render("not bound: " + strings.Join(missing, ", ")))
	}

	return b.String()
}

// recall loads history entry i into the input, switching to its mode.
func (m model) recall(i int, switchMode bool) model {
	entry, err := m.history.GetEntry(i)
	if err != nil {
		return m
	}

	if switchMode && m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// resetHistory leaves history navigation with text in the input.
func (m model) resetHistory(text string, cursor int) model {
	m.historyIdx = m.history.Len()
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	refreshMatches(&m, false)

	return m
}

// historyStep moves through all history entries, switching modes as needed.
func (m model) historyStep(dir int) model {
	next := m.historyIdx + dir

	switch {
	case next < 0:
		return m
	case next >= m.history.Len():
		if m.historyIdx < m.history.Len() {
			return m.resetHistory("", 0)
		}

		return m
	}

	return m.recall(next, true)
}

// seekHistory returns the index of the nearest entry in mode from the current
// position in direction dir, or -1.
func (m model) seekHistory(dir int, mode inputMode) int {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == mode {
			return i
		}
	}

	return -1
}

// historyInMode moves through the history entries of the current mode only.
func (m model) historyInMode(dir int) model {
	if i := m.seekHistory(dir, m.mode); i >= 0 {
		return m.recall(i, false)
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		return m.resetHistory("", 0)
	}

	return m
}

// historyCtrl switches to command mode and moves through command history. On
// running off either end it restores the mode and input that were active
// before navigation began.
func (m model) historyCtrl(dir int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	if i := m.seekHistory(dir, modeCtrl); i >= 0 {
		return m.recall(i, false)
	}

	m.altNavActive = false

	if m.altNavOrigMode != m.mode {
		m, _ = m.switchToMode(m.altNavOrigMode)
	}

	return m.resetHistory(m.altNavOrigText, m.altNavOrigCursor)
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
