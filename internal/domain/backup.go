package domain

import (
	"errors"
	"fmt"
)

// BackupVersion is the current backup file schema version.
const BackupVersion = 1

// ErrBackupVersion is returned when a backup file declares an
// incompatible schema version.
var ErrBackupVersion = errors.New("unsupported backup file version")

// Backup bundles one calendar year's user events and builtin overrides
// for export and import. Version zero is treated as a legacy file and
// accepted; any other mismatch is rejected.
type Backup struct {
	Version               int                        `json:"version"`
	Year                  int                        `json:"year"`
	UserEvents            []Event                    `json:"userEvents"`
	BuiltinEventOverrides map[string]BuiltinOverride `json:"builtinEventOverrides"`
}

// Validate checks the version and year fields before import.
func (b Backup) Validate() error {
	if b.Version != 0 && b.Version != BackupVersion {
		return fmt.Errorf("%w: %d", ErrBackupVersion, b.Version)
	}
	if b.Year < 2000 || b.Year > 2100 {
		return fmt.Errorf("backup declares implausible year %d", b.Year)
	}
	return nil
}
