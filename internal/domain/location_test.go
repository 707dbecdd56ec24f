package domain

import "testing"

func TestNormalizeLocation(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Tel Aviv", "tel aviv"},
		{"  Tel   Aviv  ", "tel aviv"},
		{"HAIFA", "haifa"},
		{"32.07, 34.79", "32.07, 34.79"},
	}
	for _, tc := range cases {
		if got := NormalizeLocation(tc.in); got != tc.want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsCoordinateString(t *testing.T) {
	coords := []string{
		"32.07,34.79",
		"32.07, 34.79",
		"-35.281,149.128",
		"+40.713,-74.006",
		"  32.07,34.79  ",
	}
	for _, s := range coords {
		if !IsCoordinateString(s) {
			t.Errorf("IsCoordinateString(%q) = false, want true", s)
		}
	}

	addresses := []string{
		"Tel Aviv",
		"Haifa, Israel",
		"123 Main Street",
		"32,34", // integer latitude lacks the decimal part
	}
	for _, s := range addresses {
		if IsCoordinateString(s) {
			t.Errorf("IsCoordinateString(%q) = true, want false", s)
		}
	}
}

func TestLegKeyNormalizesBothEnds(t *testing.T) {
	if got, want := LegKey("Tel  Aviv", "HAIFA"), "tel aviv -> haifa"; got != want {
		t.Fatalf("LegKey = %q, want %q", got, want)
	}
}
