package main

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"qtermtikz/qasm"
	"qtermtikz/quantikz"
)

// TestSnippetsTranslate inserts every menu statement into the starter
// program and checks that the result still translates.
func TestSnippetsTranslate(t *testing.T) {
	for _, cat := range snippetMenu {
		for _, item := range cat.items {
			params := ""
			if item.needsParams() {
				list, err := parseParams(item.paramHint.example, item.paramHint.count)
				if err != nil {
					t.Errorf("%s: example %q: %v", item.name, item.paramHint.example, err)
					continue
				}
				params = formatParams(list)
			}
			stmt := item.statement(params)

			src := starterProgram + stmt + "\n"
			if cat.name == "Registers" {
				// Declarations would collide with the starter registers.
				src = stmt + "\n"
			}
			prog, err := qasm.Parse(src)
			if err != nil {
				t.Errorf("%s: Parse(%q): %v", item.name, stmt, err)
				continue
			}
			if _, err := quantikz.Translate(prog, quantikz.Options{Logger: zap.NewNop()}); err != nil {
				t.Errorf("%s: Translate(%q): %v", item.name, stmt, err)
			}
		}
	}
}

func TestSnippetStatement(t *testing.T) {
	item := menuItem{template: "rx(%s) q[0];", paramHint: parameterHint{1, "pi/2"}}
	if got := item.statement("pi/4"); got != "rx(pi/4) q[0];" {
		t.Errorf("statement = %q", got)
	}
	plain := menuItem{template: "h q[0];"}
	if plain.needsParams() {
		t.Error("h needs no parameters")
	}
	if got := plain.statement("ignored"); got != "h q[0];" {
		t.Errorf("statement = %q", got)
	}
}

func TestRenderMenu(t *testing.T) {
	m := newModel("circuit.qasm", starterProgram, &Config{}, zap.NewNop())
	m.menuCat = 2
	m.menuItem = 1
	out := m.renderMenu()
	for _, want := range []string{"Insert Statement", "Rotation", "Rotate Y", "ry(…) q[0];"} {
		if !strings.Contains(out, want) {
			t.Errorf("menu does not contain %q:\n%s", want, out)
		}
	}
}
