package tui

import (
	"testing"
	"time"
)

func newTestModel() Model {
	return NewModel(NewClient("http://localhost:8080", time.Second))
}

func TestDebounceSupersede(t *testing.T) {
	t.Run("timer with stale snapshot is discarded", func(t *testing.T) {
		m := newTestModel()
		m.inputs[fieldName] = "lam"

		updated, cmd := m.Update(debounceFiredMsg{text: "la"})
		m = updated.(Model)
		if cmd != nil {
			t.Fatal("expected stale timer to be dropped without a request")
		}
		if m.suggesting {
			t.Fatal("expected no in-flight suggestion")
		}
	})

	t.Run("timer matching the current input fires a request", func(t *testing.T) {
		m := newTestModel()
		m.inputs[fieldName] = "lam"

		updated, cmd := m.Update(debounceFiredMsg{text: "lam"})
		m = updated.(Model)
		if cmd == nil {
			t.Fatal("expected a suggestion request command")
		}
		if !m.suggesting {
			t.Fatal("expected suggestion to be marked in flight")
		}
	})

	t.Run("blank snapshot never fires", func(t *testing.T) {
		m := newTestModel()
		m.inputs[fieldName] = "   "

		_, cmd := m.Update(debounceFiredMsg{text: "   "})
		if cmd != nil {
			t.Fatal("expected blank input to be ignored")
		}
	})

	t.Run("stale results are discarded", func(t *testing.T) {
		m := newTestModel()
		m.inputs[fieldName] = "lampara"
		m.suggestions = []string{"Luz Andina"}

		updated, _ := m.Update(suggestionsMsg{forText: "lam", suggestions: []string{"Otra Cosa"}})
		m = updated.(Model)
		if len(m.suggestions) != 1 || m.suggestions[0] != "Luz Andina" {
			t.Fatalf("expected stale result to be dropped, got %v", m.suggestions)
		}
	})

	t.Run("matching results replace the chips", func(t *testing.T) {
		m := newTestModel()
		m.inputs[fieldName] = "lam"

		updated, _ := m.Update(suggestionsMsg{forText: "lam", suggestions: []string{"Luz Andina", "Foco Sur"}})
		m = updated.(Model)
		if len(m.suggestions) != 2 {
			t.Fatalf("expected 2 suggestions, got %v", m.suggestions)
		}
	})
}

func TestAnswerStripsBoldMarkers(t *testing.T) {
	m := newTestModel()
	m.view = viewQuery

	updated, _ := m.Update(answerMsg{answer: "Hay **5** unidades de **Silla**."})
	m = updated.(Model)
	if m.answer != "Hay 5 unidades de Silla." {
		t.Fatalf("expected bold markers stripped, got %q", m.answer)
	}
}

func TestSubmitRequiresName(t *testing.T) {
	m := newTestModel()
	m.inputs[fieldName] = "   "

	updated, cmd := m.submitForm()
	m = updated.(Model)
	if cmd != nil {
		t.Fatal("expected no request for blank name")
	}
	if m.errMsg == "" {
		t.Fatal("expected an error message")
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"4":     4,
		" 3.5 ": 3.5,
		"abc":   0,
		"":      0,
	}
	for input, expected := range cases {
		if got := parseNumber(input); got != expected {
			t.Fatalf("parseNumber(%q) = %v, expected %v", input, got, expected)
		}
	}
}
