package session

import (
	"testing"

	"golang.org/x/text/language"
)

func TestPoolReusesSessions(t *testing.T) {
	p := NewPool()
	en := p.Get(language.English)
	if p.Get(language.English) != en {
		t.Error("Get(en) built a second session")
	}
	de := p.Get(language.German)
	if de == en {
		t.Fatal("Get(de) returned the English session")
	}
	if got := de.Evaluate("1 / 0").Lines[0].ErrorMessage(); got != "Division durch null" {
		t.Errorf("de error = %q", got)
	}
	if got := en.Evaluate("1 / 0").Lines[0].ErrorMessage(); got != "Division by zero" {
		t.Errorf("en error = %q", got)
	}
	if p.Get(language.German) != de {
		t.Error("Get(de) built a second session")
	}
}
