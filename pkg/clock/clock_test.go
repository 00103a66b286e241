package clock

import (
	"testing"
	"time"
)

func TestNew_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	c := New(loc)
	if c.Now().Location() != loc {
		t.Errorf("expected %s, got %s", loc, c.Now().Location())
	}
}

func TestNew_NilFallsBackToUTC(t *testing.T) {
	if New(nil).Location() != time.UTC {
		t.Error("expected UTC fallback")
	}
}

func TestFixed_Advance(t *testing.T) {
	f := &Fixed{T: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	f.Advance(90 * time.Minute)
	if got := f.Now(); got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("expected 09:30, got %s", got.Format("15:04"))
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2025, 3, 1, 17, 45, 12, 9, time.UTC)
	got := StartOfDay(in)
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}
