package events

import (
	"strings"
	"testing"

	"github.com/minjae-ko/gyomucal/internal/domain"
	"github.com/minjae-ko/gyomucal/internal/schedule"
	"github.com/minjae-ko/gyomucal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	ids []string
}

func (r *recordingInvalidator) Invalidate(id string) { r.ids = append(r.ids, id) }

func newTestService(t *testing.T) (*Service, *store.Store, *recordingInvalidator) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	builtins := schedule.NewParser(2025, nil).Parse("3월 ; 2일 ; 예산 ; 예산편성 기본계획 수립")
	inv := &recordingInvalidator{}
	return NewService(s, builtins, inv), s, inv
}

func builtinID(t *testing.T, svc *Service) string {
	t.Helper()
	for _, e := range svc.ListEffective() {
		if e.Kind == domain.KindBuiltin && strings.HasPrefix(e.Date, "2025-") {
			return e.ID
		}
	}
	t.Fatal("no builtin event found")
	return ""
}

func TestListEffective_MergesBuiltinsAndUserEvents(t *testing.T) {
	svc, _, _ := newTestService(t)

	created := svc.CreateUserEvent("2025-06-10", "교직원 회의", domain.CategoryMeetings, domain.SourceManual)
	assert.True(t, strings.HasPrefix(created.ID, "user-"))

	all := svc.ListEffective()
	assert.Len(t, all, 6) // 5 replicated builtins + 1 user event
}

func TestMoveEvent_BuiltinCreatesOverride(t *testing.T) {
	svc, st, inv := newTestService(t)
	id := builtinID(t, svc)

	require.True(t, svc.MoveEvent(id, "2025-03-10"))

	overrides := st.Overrides()
	require.Contains(t, overrides, id)
	require.NotNil(t, overrides[id].Date)
	assert.Equal(t, "2025-03-10", *overrides[id].Date)
	assert.Contains(t, inv.ids, id)

	// The effective view reflects the override; the builtin base does not change.
	for _, e := range svc.ListEffective() {
		if e.ID == id {
			assert.Equal(t, "2025-03-10", e.Date)
		}
	}
}

func TestMoveEvent_BackToBaseDatePrunesOverride(t *testing.T) {
	svc, st, _ := newTestService(t)
	id := builtinID(t, svc)

	require.True(t, svc.MoveEvent(id, "2025-03-10"))
	require.True(t, svc.MoveEvent(id, "2025-03-02")) // back to base

	assert.NotContains(t, st.Overrides(), id, "no-op override must not be persisted")
}

func TestMoveEvent_BackToBaseKeepsOtherOverrideFields(t *testing.T) {
	svc, st, _ := newTestService(t)
	id := builtinID(t, svc)

	title := "수정된 제목"
	require.True(t, svc.OverrideBuiltin(id, Patch{Title: &title}))
	require.True(t, svc.MoveEvent(id, "2025-03-10"))
	require.True(t, svc.MoveEvent(id, "2025-03-02"))

	o, ok := st.Overrides()[id]
	require.True(t, ok)
	assert.Nil(t, o.Date)
	require.NotNil(t, o.Title)
	assert.Equal(t, "수정된 제목", *o.Title)
}

func TestMoveEvent_RejectsInvalidDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.False(t, svc.MoveEvent(builtinID(t, svc), "2025-02-30"))
}

func TestOverrideBuiltin_FieldEqualToBaseIsNotStored(t *testing.T) {
	svc, st, _ := newTestService(t)
	id := builtinID(t, svc)

	sameTitle := "예산편성 기본계획 수립"
	require.True(t, svc.OverrideBuiltin(id, Patch{Title: &sameTitle}))
	assert.NotContains(t, st.Overrides(), id)
}

func TestUpdateUserEvent_OnlyTouchesUserEvents(t *testing.T) {
	svc, _, inv := newTestService(t)
	e := svc.CreateUserEvent("2025-06-10", "회의", domain.CategoryMeetings, domain.SourceManual)

	title := "전체 회의"
	require.True(t, svc.UpdateUserEvent(e.ID, Patch{Title: &title}))
	assert.Contains(t, inv.ids, e.ID)

	assert.False(t, svc.UpdateUserEvent(builtinID(t, svc), Patch{Title: &title}))
	assert.False(t, svc.UpdateUserEvent("user-missing", Patch{Title: &title}))
}

func TestDeleteUserEvent(t *testing.T) {
	svc, _, _ := newTestService(t)
	e := svc.CreateUserEvent("2025-06-10", "회의", domain.CategoryMeetings, domain.SourceManual)

	require.True(t, svc.DeleteUserEvent(e.ID))
	assert.False(t, svc.DeleteUserEvent(e.ID))
	assert.Len(t, svc.ListEffective(), 5)
}

func TestResetBuiltinOverride(t *testing.T) {
	svc, st, _ := newTestService(t)
	id := builtinID(t, svc)

	require.True(t, svc.MoveEvent(id, "2025-03-20"))
	require.True(t, svc.ResetBuiltinOverride(id))
	assert.False(t, svc.ResetBuiltinOverride(id))
	assert.Empty(t, st.Overrides())

	for _, e := range svc.ListEffective() {
		if e.ID == id {
			assert.Equal(t, "2025-03-02", e.Date, "builtin default restored")
		}
	}
}

func TestFilter_ConjunctionOfBothDimensions(t *testing.T) {
	events := []domain.Event{
		{ID: "a", Category: domain.CategoryBudget, Source: domain.SourceManual},
		{ID: "b", Category: domain.CategoryBudget, Source: domain.SourceAI},
		{ID: "c", Category: domain.CategoryGoods, Source: domain.SourceAI},
	}

	got := FilterBySelection(events, domain.FilterSelection{
		Categories: []domain.EventCategory{domain.CategoryBudget},
		Sources:    []domain.EventSource{domain.SourceAI},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestFilter_EmptySelectionMatchesNothing(t *testing.T) {
	events := []domain.Event{
		{ID: "a", Category: domain.CategoryBudget, Source: domain.SourceManual},
	}
	assert.Empty(t, FilterBySelection(events, domain.FilterSelection{}))
	assert.Empty(t, FilterBySelection(events, domain.FilterSelection{
		Categories: []domain.EventCategory{domain.CategoryBudget},
	}))
}
