package clientid

import (
	"errors"
	"path/filepath"
	"testing"

	"mechanicflow/internal/services"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Juan Pérez", "Juan Pérez"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"Juan Pérez", `x/y\z`, "a_b_c", " trailing? "}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	raw := Build("Juan Pérez", "2024-01-15", 1705312800000)
	id, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.Name != "Juan Pérez" || id.Date != "2024-01-15" || id.Timestamp != "1705312800000" {
		t.Fatalf("unexpected decode: %+v", id)
	}
	if id.String() != raw {
		t.Fatalf("String() = %q, want %q", id.String(), raw)
	}
}

func TestParseNameWithUnderscores(t *testing.T) {
	// The name segment may contain underscores; date and timestamp are always
	// the last two tokens.
	raw := Build("Taller_Los_Pinos", "2024-03-02", 1709380800000)
	id, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.Name != "Taller_Los_Pinos" {
		t.Fatalf("name = %q, want Taller_Los_Pinos", id.Name)
	}
	if id.Date != "2024-03-02" {
		t.Fatalf("date = %q", id.Date)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{"", "justname", "name_only"} {
		if _, err := Parse(raw); !errors.Is(err, services.ErrMalformedID) {
			t.Errorf("Parse(%q): expected ErrMalformedID, got %v", raw, err)
		}
	}
}

func TestResolvePath(t *testing.T) {
	raw := Build("Juan Pérez", "2024-01-15", 1705312800000)
	got, err := ResolvePath("/base", raw)
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	want := filepath.Join("/base", "Juan Pérez", "2024-01-15")
	if got != want {
		t.Fatalf("ResolvePath = %q, want %q", got, want)
	}
}
