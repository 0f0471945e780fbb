package display

import "fmt"

var byteSuffixes = [...]string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes returns a human-readable size with a binary-unit suffix,
// whole bytes below 1 KiB and one decimal place above.
func FormatBytes(n int64) string {
	v := float64(n)
	exp := 0
	for v >= 1024 && exp < len(byteSuffixes)-1 {
		v /= 1024
		exp++
	}
	if exp == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", v, byteSuffixes[exp])
}

// FormatSavings renders a space-saved total for the batch summary. A
// negative value means the outputs are larger than the inputs overall and
// is rendered with a leading minus.
func FormatSavings(n int64) string {
	if n < 0 {
		return "-" + FormatBytes(-n)
	}
	return FormatBytes(n)
}
