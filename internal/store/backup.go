package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minjae-ko/gyomucal/internal/domain"
)

// ExportBackup bundles one calendar year's user events and builtin
// overrides into a versioned backup document.
func (s *Store) ExportBackup(year int) domain.Backup {
	prefix := fmt.Sprintf("%04d-", year)
	idPrefix := fmt.Sprintf("event-%d-", year)

	var events []domain.Event
	for _, e := range s.UserEvents() {
		if strings.HasPrefix(e.Date, prefix) {
			events = append(events, e)
		}
	}

	overrides := map[string]domain.BuiltinOverride{}
	for id, o := range s.Overrides() {
		if strings.HasPrefix(id, idPrefix) {
			overrides[id] = o
		}
	}

	return domain.Backup{
		Version:               domain.BackupVersion,
		Year:                  year,
		UserEvents:            events,
		BuiltinEventOverrides: overrides,
	}
}

// ImportBackup merge-replaces the declared year's slice of user events
// and overrides, leaving every other year's stored data untouched.
// Entries in the file that belong to a different year are dropped.
func (s *Store) ImportBackup(b domain.Backup) error {
	if err := b.Validate(); err != nil {
		return err
	}

	prefix := fmt.Sprintf("%04d-", b.Year)
	idPrefix := fmt.Sprintf("event-%d-", b.Year)

	merged := make([]domain.Event, 0)
	for _, e := range s.UserEvents() {
		if !strings.HasPrefix(e.Date, prefix) {
			merged = append(merged, e)
		}
	}
	for _, e := range b.UserEvents {
		if strings.HasPrefix(e.Date, prefix) {
			merged = append(merged, e)
		}
	}
	if err := s.SaveUserEvents(merged); err != nil {
		return err
	}

	overrides := map[string]domain.BuiltinOverride{}
	for id, o := range s.Overrides() {
		if !strings.HasPrefix(id, idPrefix) {
			overrides[id] = o
		}
	}
	for id, o := range b.BuiltinEventOverrides {
		if strings.HasPrefix(id, idPrefix) {
			overrides[id] = o
		}
	}
	return s.SaveOverrides(overrides)
}

// DecodeBackup parses backup file bytes.
func DecodeBackup(data []byte) (domain.Backup, error) {
	var b domain.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Backup{}, fmt.Errorf("store: decode backup: %w", err)
	}
	return b, nil
}

// EncodeBackup renders a backup document as indented JSON.
func EncodeBackup(b domain.Backup) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}
