package config

import (
	"fmt"
	"sort"

	"github.com/dshills/prefs/internal/config/store"
)

// VersionKey is the store key holding the schema version of persisted
// preferences.
const VersionKey = "PrefsSchemaVersion"

// absent is a fallback no persisted value can equal.
const absent = "\x00"

// Version represents a persisted schema version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String returns the version as a string.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpInt(v.Minor, other.Minor)
	default:
		return cmpInt(v.Patch, other.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ParseVersion parses "major.minor.patch". Anything else is 0.0.0.
func ParseVersion(s string) Version {
	var v Version
	if _, err := fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch); err != nil {
		return Version{}
	}
	return v
}

// Migration rewrites persisted entries from one schema version to the next.
type Migration struct {
	// FromVersion is the source version.
	FromVersion Version

	// ToVersion is the target version.
	ToVersion Version

	// Description describes what the migration does.
	Description string

	// Migrate rewrites entries in the store.
	Migrate func(st store.Store) error
}

// MigrationResult contains the result of a single migration.
type MigrationResult struct {
	FromVersion Version
	ToVersion   Version
	Description string
	Success     bool
	Error       error
}

// Migrator brings a store up to the current schema version.
type Migrator struct {
	migrations []Migration
	current    Version
}

// NewMigrator creates a Migrator targeting current.
func NewMigrator(current Version) *Migrator {
	return &Migrator{current: current}
}

// CurrentVersion returns the target schema version.
func (m *Migrator) CurrentVersion() Version {
	return m.current
}

// Register adds a migration. Migrations run in source version order.
func (m *Migrator) Register(migration Migration) {
	m.migrations = append(m.migrations, migration)
	sort.SliceStable(m.migrations, func(i, j int) bool {
		return m.migrations[i].FromVersion.Compare(m.migrations[j].FromVersion) < 0
	})
}

// StoredVersion returns the schema version recorded in the store. A store
// without one is at 0.0.0.
func (m *Migrator) StoredVersion(st store.Store) Version {
	return ParseVersion(st.GetString(VersionKey, ""))
}

// NeedsMigration reports whether the store is behind the current version.
func (m *Migrator) NeedsMigration(st store.Store) bool {
	return m.StoredVersion(st).Compare(m.current) < 0
}

// Migrate runs every applicable migration and records the current
// version. It stops at the first failing migration without recording a
// version.
func (m *Migrator) Migrate(st store.Store) ([]MigrationResult, error) {
	from := m.StoredVersion(st)
	if from.Compare(m.current) >= 0 {
		return nil, nil
	}

	var results []MigrationResult
	for _, mig := range m.migrations {
		if mig.FromVersion.Compare(from) < 0 || mig.ToVersion.Compare(m.current) > 0 {
			continue
		}

		result := MigrationResult{
			FromVersion: mig.FromVersion,
			ToVersion:   mig.ToVersion,
			Description: mig.Description,
		}
		if err := mig.Migrate(st); err != nil {
			result.Error = err
			results = append(results, result)
			return results, fmt.Errorf("migration from %s to %s failed: %w",
				mig.FromVersion, mig.ToVersion, err)
		}
		result.Success = true
		results = append(results, result)
		from = mig.ToVersion
	}

	if err := st.PutString(VersionKey, m.current.String()); err != nil {
		return results, fmt.Errorf("recording schema version: %w", err)
	}
	return results, st.Flush()
}

// MigrationRename creates a migration that moves a persisted entry to a
// new key. An entry already present at the new key is kept.
func MigrationRename(from, to Version, oldKey, newKey, description string) Migration {
	return Migration{
		FromVersion: from,
		ToVersion:   to,
		Description: description,
		Migrate: func(st store.Store) error {
			v := st.GetString(oldKey, absent)
			if v == absent {
				return nil
			}
			if st.GetString(newKey, absent) == absent {
				if err := st.PutString(newKey, v); err != nil {
					return err
				}
			}
			return st.Remove(oldKey)
		},
	}
}

// MigrationDelete creates a migration that removes a persisted entry.
func MigrationDelete(from, to Version, key, description string) Migration {
	return Migration{
		FromVersion: from,
		ToVersion:   to,
		Description: description,
		Migrate: func(st store.Store) error {
			return st.Remove(key)
		},
	}
}

// DefaultMigrator returns the migrator for the built-in registry.
func DefaultMigrator() *Migrator {
	v1 := Version{Major: 1}
	m := NewMigrator(v1)

	// Older releases stored this font under keys with a leading space.
	var renames []Migration
	for _, part := range []string{"Family", "Style", "Size"} {
		key := "TextSegmentHighlightFont" + part
		renames = append(renames, MigrationRename(Version{}, v1, " "+key, key, ""))
	}
	m.Register(Migration{
		FromVersion: Version{},
		ToVersion:   v1,
		Description: "drop leading space from text segment highlight font keys",
		Migrate: func(st store.Store) error {
			for _, r := range renames {
				if err := r.Migrate(st); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return m
}
