package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/minjae-ko/gyomucal/internal/datekey"
)

// Date-range patterns, most specific first. Two canonical forms — a
// same-month range and a cross-month range — each in Korean unit and
// numeric notation. The first matching pattern wins.
var windowPatterns = []struct {
	re *regexp.Regexp
	// index into the submatches: startMonth, startDay, endMonth, endDay.
	// endMonth -1 means the end shares the start's month.
	sm, sd, em, ed int
}{
	// 12월 20일~1월 10일
	{regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일?\s*[~∼〜-]\s*(\d{1,2})월\s*(\d{1,2})일?`), 1, 2, 3, 4},
	// 12/20~1/10, 12.20~1.10
	{regexp.MustCompile(`(\d{1,2})[./](\d{1,2})\s*[~∼〜-]\s*(\d{1,2})[./](\d{1,2})`), 1, 2, 3, 4},
	// 12월 20~24일, 12월 20일~24일
	{regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일?\s*[~∼〜-]\s*(\d{1,2})일?`), 1, 2, -1, 3},
	// 12/20~24
	{regexp.MustCompile(`(\d{1,2})[./](\d{1,2})\s*[~∼〜-]\s*(\d{1,2})`), 1, 2, -1, 3},
}

// InferExecutionWindow extracts a start–end execution window from free
// text. The start is assumed to fall on its nearest future occurrence
// relative to today; an end (month, day) earlier than the start rolls
// into the following year. Returns nil when no pattern matches or the
// reconstructed dates are not real calendar dates.
func InferExecutionWindow(text string, today time.Time) *ExecutionWindow {
	for _, p := range windowPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		startMonth := atoi(m[p.sm])
		startDay := atoi(m[p.sd])
		endMonth := startMonth
		if p.em != -1 {
			endMonth = atoi(m[p.em])
		}
		endDay := atoi(m[p.ed])

		if !plausible(startMonth, startDay) || !plausible(endMonth, endDay) {
			return nil
		}

		year := today.Year()
		start := key(year, startMonth, startDay)
		if start < datekey.Format(today) {
			year++
			start = key(year, startMonth, startDay)
		}

		endYear := year
		if endMonth < startMonth || (endMonth == startMonth && endDay < startDay) {
			endYear++
		}
		end := key(endYear, endMonth, endDay)

		if !datekey.IsValid(start) || !datekey.IsValid(end) {
			return nil
		}
		return &ExecutionWindow{Start: start, End: end}
	}
	return nil
}

func plausible(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// key formats components without normalizing, so impossible dates like
// 02-30 survive long enough for the round-trip validity check to reject
// them.
func key(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
