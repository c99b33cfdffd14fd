package ingest

import (
	"fmt"
	"strconv"
)

// ParseDate rewrites the first M/D/YYYY date found in s as YYYY-MM-DD.
// Strings without such a date are returned unchanged.
func ParseDate(s string) string {
	m := usDate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}
