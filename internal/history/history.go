// Package history persists past optimization runs to a capped JSON log
// under the config directory, newest first.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/ShipPack/internal/model"
)

// maxEntries caps the persisted log; older runs fall off the end.
const maxEntries = 50

// Entry is one recorded optimization run.
type Entry struct {
	Timestamp    time.Time      `json:"timestamp"`
	Zone         string         `json:"zone"`
	Order        map[string]int `json:"order,omitempty"`
	Items        int            `json:"items"`
	Boxes        []string       `json:"boxes"`
	Carrier      string         `json:"carrier"`
	Total        string         `json:"total"`
	DeliveryDays int            `json:"delivery_days"`
	Partial      bool           `json:"partial,omitempty"`
}

// NewEntry records the interesting facts of a finished run.
func NewEntry(order map[string]int, zone string, result model.BestResult) Entry {
	return Entry{
		Timestamp:    time.Now().UTC(),
		Zone:         zone,
		Order:        order,
		Items:        result.ItemCount(),
		Boxes:        result.BoxIDs(),
		Carrier:      result.Quote.Carrier,
		Total:        result.Quote.Total.StringFixed(0),
		DeliveryDays: result.Quote.DeliveryDays,
		Partial:      result.Partial,
	}
}

// DefaultPath returns the history file path inside the config directory.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "history.json")
}

// Load reads the run log. A missing file is an empty log, not an error.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Save writes the run log, creating parent directories if they do not
// exist.
func Save(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Append loads the log, prepends the entry, trims to the cap, and saves.
func Append(path string, entry Entry) error {
	entries, err := Load(path)
	if err != nil {
		return err
	}
	entries = append([]Entry{entry}, entries...)
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	return Save(path, entries)
}

// Clear removes the run log. A missing file is fine.
func Clear(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
