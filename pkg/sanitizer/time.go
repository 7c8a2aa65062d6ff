package sanitizer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const endOfDay = "00:00+"

// NormalizeTimeInput turns loosely typed time input ("9", "930", "9.30",
// "0930", "24") into "HH:MM". Midnight at the end of the day becomes "00:00+".
// Input that cannot be read as a time of day yields "".
func NormalizeTimeInput(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)

	switch digits {
	case "":
		return ""
	case "24", "240", "2400":
		return endOfDay
	}

	var hhPart, mmPart string
	if len(digits) <= 2 {
		hhPart, mmPart = digits, "0"
	} else {
		hhPart, mmPart = digits[:len(digits)-2], digits[len(digits)-2:]
	}

	hh, err := strconv.Atoi(hhPart)
	if err != nil {
		return ""
	}
	mm, err := strconv.Atoi(mmPart)
	if err != nil {
		return ""
	}

	if hh == 24 && mm == 0 {
		return endOfDay
	}
	if hh > 23 || mm > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hh, mm)
}
