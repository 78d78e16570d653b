package reconcile

import "time"

// Config holds configuration for the tracked sources.
type Config struct {
	// IntervalSeconds is the polling interval for background reconciliation.
	// Zero disables polling in the server.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"30"`

	// StoragePrefix is the prefix under which storage objects are tracked.
	StoragePrefix string `mapstructure:"storage_prefix" default:""`

	// StorageExtension filters tracked storage objects by file extension.
	StorageExtension string `mapstructure:"storage_extension" default:""`

	// Table is the database table whose rows are tracked. Empty disables the table source.
	Table string `mapstructure:"table" default:""`

	// TableKey is the column holding each row's identity.
	TableKey string `mapstructure:"table_key" default:"id"`
}

// Interval returns the polling interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Report describes the outcome of one reconciliation of a source.
type Report struct {
	// Source is the name of the reconciled source.
	Source string `json:"source"`

	// Version counts the reconciliations performed by the tracker.
	Version uint64 `json:"version"`

	// Entered lists identities new in this version, in source order.
	Entered []string `json:"entered"`

	// Updated lists identities present in this and the previous version.
	Updated []string `json:"updated"`

	// Changed lists updated identities whose raw value differs from the previous version.
	Changed []string `json:"changed"`

	// Exited lists identities missing from this version, in previous order.
	Exited []string `json:"exited"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// SyncedAt is when the reconciliation completed.
	SyncedAt time.Time `json:"synced_at"`
}

// Summary provides aggregate statistics for a report.
type Summary struct {
	// Total is the number of items in the current version.
	Total int `json:"total"`

	// Entered counts entering identities.
	Entered int `json:"entered"`

	// Updated counts persisting identities.
	Updated int `json:"updated"`

	// Changed counts persisting identities with a new raw value.
	Changed int `json:"changed"`

	// Exited counts exiting identities.
	Exited int `json:"exited"`
}

// HasChanges reports whether anything entered, exited, or changed.
func (s Summary) HasChanges() bool {
	return s.Entered > 0 || s.Exited > 0 || s.Changed > 0
}
