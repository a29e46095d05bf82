package schedule

import (
	_ "embed"
	"io"

	"github.com/minjae-ko/gyomucal/internal/domain"
)

// defaultTable is the built-in yearly school administration schedule.
// Records are "M월 ; D일 ; [분류 ;] 제목[,제목...]" per line.
//
//go:embed table.txt
var defaultTable string

// Builtin parses the embedded schedule table replicated from baseYear
// through the fixed end year. Malformed rows are warned to warn and
// skipped.
func Builtin(baseYear int, warn io.Writer) []domain.Event {
	return NewParser(baseYear, warn).Parse(defaultTable)
}
