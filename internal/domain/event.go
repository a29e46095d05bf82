// Package domain defines the calendar event model shared across gyomucal:
// builtin events generated from the static school schedule table, user
// events created by hand or by the AI proposal flow, and the sparse
// override patches layered onto builtin events at read time.
package domain

type EventKind string

const (
	KindBuiltin EventKind = "builtin"
	KindUser    EventKind = "user"
)

type EventSource string

const (
	SourceManual EventSource = "manual"
	SourceAI     EventSource = "ai"
)

// EventCategory is the closed set of school administrative domains.
type EventCategory string

const (
	CategoryBudget        EventCategory = "예산"
	CategoryPayroll       EventCategory = "급여"
	CategoryExpenditure   EventCategory = "지출"
	CategoryContract      EventCategory = "계약"
	CategoryFacilities    EventCategory = "시설"
	CategoryComplaints    EventCategory = "민원"
	CategoryMeetings      EventCategory = "회의"
	CategorySchoolCouncil EventCategory = "학교운영위원회"
	CategorySharedAsset   EventCategory = "공유재산"
	CategoryRevenue       EventCategory = "세입"
	CategoryGoods         EventCategory = "물품"
	CategoryPersonnel     EventCategory = "인사"
	CategoryOther         EventCategory = "기타"
)

// AllCategories lists every category in display order.
var AllCategories = []EventCategory{
	CategoryBudget, CategoryPayroll, CategoryExpenditure, CategoryContract,
	CategoryFacilities, CategoryComplaints, CategoryMeetings,
	CategorySchoolCouncil, CategorySharedAsset, CategoryRevenue,
	CategoryGoods, CategoryPersonnel, CategoryOther,
}

var validCategories = func() map[EventCategory]bool {
	m := make(map[EventCategory]bool, len(AllCategories))
	for _, c := range AllCategories {
		m[c] = true
	}
	return m
}()

// ParseCategory coerces an arbitrary string into the closed category set.
// Unrecognized values fall back to CategoryOther.
func ParseCategory(s string) EventCategory {
	c := EventCategory(s)
	if validCategories[c] {
		return c
	}
	return CategoryOther
}

// Event is the display-unified calendar entry. Builtin events are
// regenerated deterministically from the schedule table and never mutated
// directly; user events are freely mutable.
type Event struct {
	ID       string        `json:"id"`
	Date     string        `json:"date"` // YYYY-MM-DD
	Title    string        `json:"title"`
	Kind     EventKind     `json:"kind"`
	Category EventCategory `json:"category"`
	Source   EventSource   `json:"source"`
}

// BuiltinOverride is a sparse per-field patch keyed by builtin event id.
// A nil field means "keep the builtin value". An override with every
// field nil carries no information and must be pruned from storage.
type BuiltinOverride struct {
	Date     *string        `json:"date,omitempty"`
	Title    *string        `json:"title,omitempty"`
	Category *EventCategory `json:"category,omitempty"`
}

// Empty reports whether the override patches nothing.
func (o BuiltinOverride) Empty() bool {
	return o.Date == nil && o.Title == nil && o.Category == nil
}

// Apply layers the override onto a builtin base event and returns the
// effective displayed event. The base is not modified.
func (o BuiltinOverride) Apply(base Event) Event {
	out := base
	if o.Date != nil {
		out.Date = *o.Date
	}
	if o.Title != nil {
		out.Title = *o.Title
	}
	if o.Category != nil {
		out.Category = *o.Category
	}
	return out
}

// FilterSelection holds the persisted event filter: a conjunction of
// category membership and source membership.
type FilterSelection struct {
	Categories []EventCategory `json:"categories"`
	Sources    []EventSource   `json:"sources"`
}

// DefaultFilterSelection selects every category and every source.
func DefaultFilterSelection() FilterSelection {
	return FilterSelection{
		Categories: append([]EventCategory(nil), AllCategories...),
		Sources:    []EventSource{SourceManual, SourceAI},
	}
}
