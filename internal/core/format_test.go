package core

import "testing"

func TestFormatAED(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "AED 0"},
		{999.4, "AED 999"},
		{1_200_000, "AED 1,200,000"},
		{2_963_400.5, "AED 2,963,401"},
		{-15_000, "AED -15,000"},
	}
	for _, tc := range cases {
		if got := FormatAED(tc.in); got != tc.want {
			t.Fatalf("FormatAED(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := map[int]string{
		-5:              "00:00:00",
		0:               "00:00:00",
		59:              "00:00:59",
		3661:            "01:01:01",
		ReservationHold: "48:00:00",
	}
	for in, want := range cases {
		if got := FormatCountdown(in); got != want {
			t.Fatalf("FormatCountdown(%d) = %q, want %q", in, got, want)
		}
	}
}
