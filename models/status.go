package models

import "time"

// SyncStatus is the outcome of the last successful synchronization of one
// mirrored channel or event guild.
type SyncStatus struct {
	Kind       string    `json:"kind"` // "channel" or "events"
	ID         string    `json:"id"`
	Table      string    `json:"table"`
	LastSynced time.Time `json:"last_synced"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Deleted    int       `json:"deleted"`
}

// DBStatus is the content of the status file.
type DBStatus struct {
	Targets     map[string]*SyncStatus `json:"targets"`
	LastUpdated time.Time              `json:"last_updated"`
}
