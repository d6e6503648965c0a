package cli

import "testing"

func TestDash(t *testing.T) {
	if got := Dash(""); got != "-" {
		t.Errorf("Dash(\"\") = %q, want \"-\"", got)
	}
	if got := Dash("inet6"); got != "inet6" {
		t.Errorf("Dash(\"inet6\") = %q", got)
	}
}

func TestColorsRoundTrip(t *testing.T) {
	// Regardless of NO_COLOR, the original text must survive.
	for name, fn := range map[string]func(string) string{
		"Green": Green, "Yellow": Yellow, "Red": Red, "Bold": Bold, "Dim": Dim,
	} {
		out := fn("MISMATCH")
		if out != "MISMATCH" && !contains(out, "MISMATCH") {
			t.Errorf("%s lost its input: %q", name, out)
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
