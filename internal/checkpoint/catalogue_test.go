package checkpoint

import "testing"

func TestDefault_Loads(t *testing.T) {
	c := Default()
	if len(c.Stations()) != 14 {
		t.Errorf("expected 14 stations, got %d", len(c.Stations()))
	}
	if len(c.Extras()) != 7 {
		t.Errorf("expected 7 extra stations, got %d", len(c.Extras()))
	}
}

func TestLookup(t *testing.T) {
	s, ok := Default().Lookup("8_cde_exit")
	if !ok {
		t.Fatal("expected 8_cde_exit to exist")
	}
	if s.Number != 8 || !s.Extra || s.Required {
		t.Errorf("unexpected station %+v", s)
	}
	if _, ok := Default().Lookup("nope"); ok {
		t.Error("unknown station must not resolve")
	}
}

func TestMissing(t *testing.T) {
	c := Default()
	seen := map[string]bool{}
	for _, s := range c.Stations() {
		seen[s.Name] = true
	}
	if m := c.Missing(seen); len(m) != 0 {
		t.Errorf("expected complete, missing %v", m)
	}

	delete(seen, "ab_exit")
	delete(seen, "9_transport") // optional
	m := c.Missing(seen)
	if len(m) != 1 || m[0] != "ab_exit" {
		t.Errorf("expected [ab_exit], got %v", m)
	}
}

func TestParse_RejectsDuplicates(t *testing.T) {
	data := []byte("stations:\n  - {name: a, number: 1}\n  - {name: a, number: 2}\n")
	if _, err := Parse(data); err == nil {
		t.Error("expected duplicate station error")
	}
}

func TestParse_RejectsEmpty(t *testing.T) {
	if _, err := Parse([]byte("stations: []\n")); err == nil {
		t.Error("expected empty catalogue error")
	}
	if _, err := Parse([]byte("stations:\n  - {name: x}\n")); err == nil {
		t.Error("expected missing number error")
	}
}
