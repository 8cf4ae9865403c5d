package core

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAED renders an amount as whole dirhams with thousands separators,
// e.g. "AED 1,200,000".
func FormatAED(amount float64) string {
	return amountPrinter.Sprintf("AED %d", int64(math.Round(amount)))
}

// FormatCountdown renders remaining seconds as HH:MM:SS.
func FormatCountdown(seconds int) string {
	if seconds <= 0 {
		return "00:00:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
