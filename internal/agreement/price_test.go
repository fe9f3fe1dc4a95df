package agreement

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"10000", 10000, true},
		{"  9500 ", 9500, true},
		{"9500.50", 9500.5, true},
		{"0", 0, true},
		{"-500", -500, true},
		{"", 0, false},
		{"   ", 0, false},
		{"ten grand", 0, false},
	}
	for _, c := range cases {
		got, ok := ParsePrice(c.input)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParsePrice(%q) = %f, %t; want %f, %t", c.input, got, ok, c.want, c.ok)
		}
	}
}

func TestDeviationLabels(t *testing.T) {
	cases := []struct {
		proposed float64
		original float64
		label    string
		text     string
	}{
		{10500, 10000, "above", "+$500 above asking price"},
		{9500, 10000, "below", "-$500 below asking price"},
		{10000, 10000, "", ""},
		{10000.5, 10000, "above", "+$0.5 above asking price"},
	}
	for _, c := range cases {
		d := DeviationFrom(c.proposed, c.original)
		if d.Label != c.label {
			t.Fatalf("DeviationFrom(%f, %f) label = %q, want %q", c.proposed, c.original, d.Label, c.label)
		}
		if d.String() != c.text {
			t.Fatalf("DeviationFrom(%f, %f) text = %q, want %q", c.proposed, c.original, d.String(), c.text)
		}
	}
}

func TestDeviationDeltaIsSigned(t *testing.T) {
	if d := DeviationFrom(9500, 10000); d.Delta != -500 {
		t.Fatalf("expected -500 delta, got %f", d.Delta)
	}
	if d := DeviationFrom(11000, 10000); d.Delta != 1000 {
		t.Fatalf("expected 1000 delta, got %f", d.Delta)
	}
}
