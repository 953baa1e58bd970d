package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"discord-mirror/models"
)

// StatusManager keeps the last synchronization of every mirrored target and
// persists it as a JSON status file.
type StatusManager struct {
	statusFile string
	mutex      sync.Mutex
	status     *models.DBStatus
	dirty      bool
}

// NewStatusManager creates a new status manager.
func NewStatusManager(statusFile string) *StatusManager {
	return &StatusManager{
		statusFile: statusFile,
		status: &models.DBStatus{
			Targets: make(map[string]*models.SyncStatus),
		},
	}
}

// Record stores the outcome of a synchronization, replacing the previous one
// of the same target.
func (sm *StatusManager) Record(s models.SyncStatus) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if s.LastSynced.IsZero() {
		s.LastSynced = time.Now().UTC()
	}
	sm.status.Targets[s.Kind+":"+s.ID] = &s
	sm.dirty = true
}

// Save commits the current status to the JSON file. Nothing is written when
// no synchronization was recorded since the last save.
func (sm *StatusManager) Save() error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if !sm.dirty {
		return nil
	}
	sm.status.LastUpdated = time.Now().UTC()

	// Ensure the directory exists.
	dir := filepath.Dir(sm.statusFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	data, err := json.MarshalIndent(sm.status, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	// Write the file, overwriting it if it exists.
	if err := os.WriteFile(sm.statusFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}

	sm.dirty = false
	return nil
}
