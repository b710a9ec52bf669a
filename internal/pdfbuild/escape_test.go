package pdfbuild

import (
	"testing"
	"time"
)

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	cases := []string{
		`plain text`,
		`back\slash`,
		`(parens)`,
		"line\nbreak",
		"carriage\rreturn",
		"a\ttab",
		"mixed \\ ( ) \n \r \t all at once",
	}
	for _, want := range cases {
		escaped := EscapeString(want)
		// strip the surrounding parens EscapeString adds
		inner := escaped[1 : len(escaped)-1]
		got := UnescapeString(inner)
		if got != want {
			t.Errorf("round trip %q -> %q -> %q", want, escaped, got)
		}
	}
}

func TestFormatDateTimeShape(t *testing.T) {
	t0, err := time.Parse(time.RFC3339, "2026-07-31T10:20:30Z")
	if err != nil {
		t.Fatalf("time.Parse: %v", err)
	}
	got := FormatDateTime(t0)
	want := "(D:20260731102030+00'00')"
	if got != want {
		t.Errorf("FormatDateTime = %q, want %q", got, want)
	}
}
