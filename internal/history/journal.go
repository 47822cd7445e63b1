// Package history keeps a journal of configuration documents the bot
// confirmed, so an operator can see what changed and when. Stored as one
// zstd-compressed JSON file, rewritten on every successful save.
package history

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"feedboard/internal/models"
	"feedboard/internal/providers"
	"feedboard/internal/structures"
)

type Entry struct {
	SavedAt  time.Time       `json:"savedAt"`
	Document models.Document `json:"document"`
}

type Journal struct {
	mu         sync.Mutex
	entries    []Entry
	path       string
	maxEntries int
	enabled    bool

	compressor CompressorInterface
	logger     providers.Logger
}

func NewJournal(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) *Journal {
	return &Journal{
		path:       conf.History.FilePath,
		maxEntries: conf.History.MaxEntries,
		enabled:    conf.History.Enabled,
		compressor: compressor,
		logger:     logger,
	}
}

// Record appends the confirmed document and persists the journal.
// Best-effort: a persistence failure is logged, never surfaced, so a full
// disk cannot block a config save.
func (j *Journal) Record(doc models.Document) {
	if !j.enabled {
		return
	}
	j.mu.Lock()
	j.entries = append(j.entries, Entry{SavedAt: time.Now().UTC(), Document: doc.Clone()})
	if j.maxEntries > 0 && len(j.entries) > j.maxEntries {
		j.entries = j.entries[len(j.entries)-j.maxEntries:]
	}
	err := j.saveLocked()
	j.mu.Unlock()

	if err != nil {
		j.logger.Errorf(providers.TypeApp, "Error while persisting save history: %s", err)
	}
}

// Entries returns a copy, newest last.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Restore loads the journal from disk. A missing file is a fresh start.
func (j *Journal) Restore() error {
	if !j.enabled {
		return nil
	}
	raw, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	jsonData, err := j.compressor.Decompress(raw)
	if err != nil {
		return err
	}

	var entries []Entry
	if err = json.Unmarshal(jsonData, &entries); err != nil {
		return err
	}

	j.mu.Lock()
	j.entries = entries
	j.mu.Unlock()
	return nil
}

func (j *Journal) saveLocked() error {
	jsonData, err := json.Marshal(j.entries)
	if err != nil {
		return err
	}
	data, err := j.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return err
	}

	tmpFile := j.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, j.path)
}
