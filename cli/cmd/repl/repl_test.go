package repl

import (
	"strings"
	"testing"

	"github.com/ardnew/vscript/lang"
	"github.com/ardnew/vscript/log"
)

var zeroLogger log.Logger

func testModel(t *testing.T, store lang.MapStore) model {
	t.Helper()

	if store == nil {
		store = make(lang.MapStore)
	}

	return newModel(t.Context(), store, config{}, NewHistory(""), zeroLogger)
}

func benchStore() lang.MapStore {
	return lang.MapStore{
		"movie.price":    lang.Number(12.5),
		"movie.title":    lang.Text("Alien"),
		"movie.released": lang.Bool(true),
		"ticket.count":   lang.Int(3),
		"ticket.total":   lang.Number(37.5),
	}
}

func typed(m model, input string) model {
	m.input.SetValue(input)
	m.input.SetCursor(len(input))
	refreshMatches(&m, false)

	return m
}

func TestExecuteInputEval(t *testing.T) {
	store := lang.MapStore{}
	m := testModel(t, store)

	m, cmd := typed(m, "x = 2 * 3").executeInput()
	if cmd == nil {
		t.Fatal("executeInput returned no command")
	}

	if v, ok := store.Get("x"); !ok || !v.Equal(lang.Number(6)) {
		t.Errorf("x = %v (bound %t), want 6", v, ok)
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	m, _ = typed(m, "y = nope + 1").executeInput()
	if _, ok := store.Get("y"); ok {
		t.Error("failed assignment bound y")
	}

	got := m.history.Entries()
	if len(got) != 2 || got[0].Line != "x = 2 * 3" || got[1].Mode != modeEval {
		t.Errorf("history = %+v", got)
	}
}

func TestEvaluate(t *testing.T) {
	m := testModel(t, lang.MapStore{"movie.price": lang.Number(4)})

	v, err := m.evaluate("movie.price * 2")
	if err != nil {
		t.Fatal(err)
	}

	if !v.Equal(lang.Number(8)) {
		t.Errorf("got %v, want 8", v)
	}

	if _, err := m.evaluate("1 +"); err == nil {
		t.Error("expected syntax error")
	}
}

func TestExecuteCommand(t *testing.T) {
	store := lang.MapStore{"a": lang.Int(1), "b": lang.Text("two")}
	m := testModel(t, store)

	if out := m.listVars(); !strings.Contains(out, "a") || !strings.Contains(out, `"two"`) {
		t.Errorf("listVars() = %q", out)
	}

	out := m.unset([]string{"a", "missing"})
	if !strings.Contains(out, "removed: a") || !strings.Contains(out, "not bound: missing") {
		t.Errorf("unset() = %q", out)
	}

	if _, ok := store.Get("a"); ok {
		t.Error("a still bound after unset")
	}

	if out := m.unset(nil); !strings.Contains(out, "usage") {
		t.Errorf("unset(nil) = %q", out)
	}

	m.mode = modeCtrl
	m, _ = typed(m, "unset b").executeInput()

	if store.Len() != 0 {
		t.Errorf("store = %v, want empty", store)
	}

	if e, _ := m.history.GetEntry(0); e.Mode != modeCtrl {
		t.Errorf("history entry mode = %v, want command", e.Mode)
	}

	m, _ = typed(m, "quit").executeInput()
	if !m.quitting {
		t.Error("quit did not end the session")
	}

	if m.View() != "" {
		t.Errorf("View() after quit = %q", m.View())
	}
}

func TestListFuncs(t *testing.T) {
	out := listFuncs()

	for f := range lang.Builtins() {
		if !strings.Contains(out, f.Name) {
			t.Errorf("listFuncs() lacks %q", f.Name)
		}
	}
}

func TestToggleMode(t *testing.T) {
	m := typed(testModel(t, nil), "1 + ")

	m, _ = m.toggleMode()
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after toggle: mode %v input %q", m.mode, m.input.Value())
	}

	m.input.SetValue("vars")

	m, _ = m.toggleMode()
	if m.mode != modeEval || m.input.Value() != "1 + " {
		t.Errorf("after toggle back: mode %v input %q", m.mode, m.input.Value())
	}

	if m.ctrlText != "vars" {
		t.Errorf("command text = %q, want vars", m.ctrlText)
	}
}

func TestCycleCandidate(t *testing.T) {
	m := typed(testModel(t, benchStore()), "2 * movie.")
	if len(m.matches) < 2 {
		t.Fatalf("matches = %v, want several", m.matches)
	}

	first := m.matches[0].Str
	second := m.matches[1].Str

	m = m.cycleCandidate(1)
	if !m.tabActive || m.input.Value() != "2 * "+first {
		t.Errorf("first cycle: input %q", m.input.Value())
	}

	m = m.cycleCandidate(1)
	if m.input.Value() != "2 * "+second {
		t.Errorf("second cycle: input %q", m.input.Value())
	}

	m = m.cycleCandidate(-1)
	if m.input.Value() != "2 * "+first {
		t.Errorf("backward cycle: input %q", m.input.Value())
	}

	if m.preTabText != "2 * movie." {
		t.Errorf("preTabText = %q", m.preTabText)
	}
}

func TestCycleSoleCandidate(t *testing.T) {
	m := typed(testModel(t, lang.MapStore{"alpha.beta": lang.Int(1)}), "alpha.b")
	if len(m.matches) != 1 {
		t.Fatalf("matches = %v, want one", m.matches)
	}

	m = m.cycleCandidate(1)
	if m.input.Value() != "alpha.beta" || m.tabActive || m.matches != nil {
		t.Errorf("input %q tab %t matches %v", m.input.Value(), m.tabActive, m.matches)
	}
}

func historyModel(t *testing.T) model {
	t.Helper()

	m := testModel(t, nil)

	for _, e := range []HistoryEntry{
		{"1 + 1", modeEval},
		{"vars", modeCtrl},
		{"2 * 3", modeEval},
	} {
		if _, err := m.history.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	return m
}

func TestHistoryStep(t *testing.T) {
	m := historyModel(t)

	steps := []struct {
		dir   int
		input string
		mode  inputMode
	}{
		{-1, "2 * 3", modeEval},
		{-1, "vars", modeCtrl},
		{-1, "1 + 1", modeEval},
		{-1, "1 + 1", modeEval},
		{1, "vars", modeCtrl},
		{1, "2 * 3", modeEval},
		{1, "", modeEval},
	}

	for i, s := range steps {
		m = m.historyStep(s.dir)
		if m.input.Value() != s.input || m.mode != s.mode {
			t.Errorf("step %d: input %q mode %v, want %q mode %v",
				i, m.input.Value(), m.mode, s.input, s.mode)
		}
	}

	if m.historyIdx != m.history.Len() {
		t.Errorf("historyIdx = %d, want %d", m.historyIdx, m.history.Len())
	}
}

func TestHistoryInMode(t *testing.T) {
	m := historyModel(t)

	m = m.historyInMode(-1)
	if m.input.Value() != "2 * 3" {
		t.Errorf("first = %q", m.input.Value())
	}

	m = m.historyInMode(-1)
	if m.input.Value() != "1 + 1" || m.mode != modeEval {
		t.Errorf("second = %q mode %v", m.input.Value(), m.mode)
	}

	m = m.historyInMode(1)
	m = m.historyInMode(1)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("past end = %q idx %d", m.input.Value(), m.historyIdx)
	}
}

func TestHistoryCtrl(t *testing.T) {
	m := typed(historyModel(t), "abc")

	m = m.historyCtrl(-1)
	if m.mode != modeCtrl || m.input.Value() != "vars" {
		t.Fatalf("mode %v input %q", m.mode, m.input.Value())
	}

	m = m.historyCtrl(-1)
	if m.mode != modeEval || m.input.Value() != "abc" || m.altNavActive {
		t.Errorf("restored mode %v input %q active %t",
			m.mode, m.input.Value(), m.altNavActive)
	}
}

func TestUpdateEditStore(t *testing.T) {
	store := lang.MapStore{"old": lang.Int(1)}
	m := testModel(t, store)

	next, cmd := m.Update(editStoreMsg{store: lang.MapStore{"new": lang.Text("v")}})
	if cmd == nil {
		t.Error("no confirmation printed")
	}

	if _, ok := next.(model); !ok {
		t.Fatalf("Update returned %T", next)
	}

	if _, ok := store.Get("old"); ok {
		t.Error("old binding survived edit")
	}

	if v, ok := store.Get("new"); !ok || !v.Equal(lang.Text("v")) {
		t.Errorf("new = %v (bound %t)", v, ok)
	}

	next, _ = m.Update(editDeclinedMsg{})
	if !next.(model).quitting {
		t.Error("declined edit did not quit")
	}
}

func TestHintLine(t *testing.T) {
	m := testModel(t, nil)

	if got := m.hintLine(); !strings.Contains(got, "Esc") {
		t.Errorf("empty eval hint = %q", got)
	}

	m = typed(m, "pow(2, ")
	if got := m.hintLine(); !strings.Contains(got, "pow") {
		t.Errorf("call hint = %q, want signature of pow", got)
	}

	m = historyModel(t).historyStep(-1)
	if got := m.hintLine(); !strings.Contains(got, "/3") {
		t.Errorf("history hint = %q", got)
	}
}
