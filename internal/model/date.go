package model

import (
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the stored timestamp format (dd.mm.yyyy, HH:MM:SS)
const DateLayout = "02.01.2006, 15:04:05"

var dateRe = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4}),?\s+(\d{2}):(\d{2}):(\d{2})$`)

// FormatDate renders t in local time using DateLayout
func FormatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ParseDate reads a stored timestamp as Unix milliseconds. It never fails
// loudly: an empty or malformed value yields 0 and false.
func ParseDate(s string) (int64, bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n := make([]int, 6)
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}
	day, month, year, hour, minute, second := n[0], n[1], n[2], n[3], n[4], n[5]
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
	return t.UnixMilli(), true
}
