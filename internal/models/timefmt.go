package models

import (
	"fmt"
	"time"
)

// FormatDisplay форматирует время для отображения: "October 16th 2026, 3:04:05 pm".
func FormatDisplay(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%s %d%s %s", t.Format("January"), day, ordinalSuffix(day), t.Format("2006, 3:04:05 pm"))
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}

	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
