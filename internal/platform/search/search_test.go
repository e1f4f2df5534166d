package search

import "testing"

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Martínez":       "martinez",
		"GARCÍA PÉREZ":   "garcia perez",
		"Español":        "espanol",
		"Clean Code":     "clean code",
		"":               "",
		"administración": "administracion",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}
