// Package schedule parses the static school-administration schedule table
// into builtin calendar events. The table is plain text, one record per
// line:
//
//	M월 ; D일 ; [category ;] title[,title...]
//
// The category token is optional (3-part vs 4-part records). Each
// comma-separated title becomes its own event instance, and every record
// is replicated across each year from the base year through EndYear.
// Generation is deterministic: reparsing the same text always yields the
// same ids, so builtin events carry no persisted identity of their own.
package schedule

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minjae-ko/gyomucal/internal/datekey"
	"github.com/minjae-ko/gyomucal/internal/domain"
)

// EndYear is the last year the schedule table is replicated into.
const EndYear = 2029

// Parser generates builtin events from schedule table text. Malformed
// lines are skipped with a warning on Warn; they never abort the parse.
type Parser struct {
	BaseYear int
	Warn     io.Writer
}

// NewParser returns a Parser replicating records from baseYear through
// EndYear.
func NewParser(baseYear int, warn io.Writer) *Parser {
	if warn == nil {
		warn = io.Discard
	}
	return &Parser{BaseYear: baseYear, Warn: warn}
}

// Parse reads the whole table and returns the generated builtin events,
// ordered by year, then input line order.
func (p *Parser) Parse(text string) []domain.Event {
	type record struct {
		month, day int
		category   domain.EventCategory
		titles     []string
	}

	var records []record
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ";")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) != 3 && len(parts) != 4 {
			fmt.Fprintf(p.Warn, "schedule: line %d: expected 3 or 4 fields, got %d\n", lineNo+1, len(parts))
			continue
		}

		month, ok := parseUnit(parts[0], "월")
		if !ok || month < 1 || month > 12 {
			fmt.Fprintf(p.Warn, "schedule: line %d: bad month %q\n", lineNo+1, parts[0])
			continue
		}
		day, ok := parseUnit(parts[1], "일")
		if !ok || day < 1 || day > 31 {
			fmt.Fprintf(p.Warn, "schedule: line %d: bad day %q\n", lineNo+1, parts[1])
			continue
		}

		category := domain.CategoryOther
		titleField := parts[2]
		if len(parts) == 4 {
			category = domain.ParseCategory(parts[2])
			titleField = parts[3]
		}

		var titles []string
		for _, t := range strings.Split(titleField, ",") {
			if t = strings.TrimSpace(t); t != "" {
				titles = append(titles, t)
			}
		}
		if len(titles) == 0 {
			fmt.Fprintf(p.Warn, "schedule: line %d: empty title\n", lineNo+1)
			continue
		}

		records = append(records, record{month: month, day: day, category: category, titles: titles})
	}

	var events []domain.Event
	for year := p.BaseYear; year <= EndYear; year++ {
		counters := make(map[string]int)
		for _, rec := range records {
			for _, title := range rec.titles {
				date := fmt.Sprintf("%04d-%02d-%02d", year, rec.month, rec.day)
				if !datekey.IsValid(date) {
					fmt.Fprintf(p.Warn, "schedule: %d월 %d일 does not exist in %d\n", rec.month, rec.day, year)
					continue
				}
				slug := slugify(title)
				idBase := fmt.Sprintf("event-%d-%d-%d-%s", year, rec.month, rec.day, slug)
				n := counters[idBase]
				counters[idBase] = n + 1

				events = append(events, domain.Event{
					ID:       fmt.Sprintf("%s-%d", idBase, n),
					Date:     date,
					Title:    title,
					Kind:     domain.KindBuiltin,
					Category: rec.category,
					Source:   domain.SourceManual,
				})
			}
		}
	}
	return events
}

// parseUnit strips an optional Korean unit suffix ("월", "일") and parses
// the remaining digits.
func parseUnit(s, unit string) (int, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(s, unit))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// slugify collapses a title into an id-safe fragment. Korean titles are
// kept as-is apart from whitespace and separator characters.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r == ' ' || r == '\t' || r == ';' || r == ',' || r == '-':
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
