// Package state persists pipeline outputs as plain JSON files: project
// metadata, a bounded status history, and validation reports.
//
// Files are read-modify-written without locking; concurrent pipeline runs
// against the same paths must be serialized by the caller.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/lingua/config"
	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/metadata"
	"github.com/teranos/lingua/validation"
)

// maxStatusEntries bounds the status log ring buffer.
const maxStatusEntries = 100

// statusSummaryWindow is how many recent entries the summary aggregates.
const statusSummaryWindow = 10

// StatusEntry is one pipeline run record in the status log.
type StatusEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	RunID     string                 `json:"run_id,omitempty"`
	Operation string                 `json:"operation"` // metadata, validate, generate
	Status    string                 `json:"status"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// StatusSummary aggregates recent pipeline activity.
type StatusSummary struct {
	Latest  *StatusEntry   `json:"latest,omitempty"`
	Recent  int            `json:"recent"` // entries in the window
	Counts  map[string]int `json:"counts"` // status -> count over the window
	Total   int            `json:"total"`  // entries currently retained
	Updated time.Time      `json:"updated,omitempty"`
}

// Store reads and writes lingua's JSON state files.
type Store struct {
	metadataPath      string
	statusLogPath     string
	validationLogPath string
	logger            *zap.SugaredLogger
}

// NewStore creates a store using the configured output paths.
func NewStore(cfg config.MetadataConfig) *Store {
	return &Store{
		metadataPath:      cfg.OutputPath,
		statusLogPath:     cfg.StatusLogPath,
		validationLogPath: "validation_log.json",
		logger:            logger.ComponentLogger("state"),
	}
}

// SaveMetadata writes project metadata to the configured path.
func (s *Store) SaveMetadata(meta *metadata.ProjectMetadata) error {
	return s.writeJSON(s.metadataPath, meta)
}

// LoadMetadata reads the persisted project metadata. A missing file
// returns (nil, nil); defaults apply for absent keys.
func (s *Store) LoadMetadata() (*metadata.ProjectMetadata, error) {
	var meta metadata.ProjectMetadata
	found, err := s.readJSON(s.metadataPath, &meta)
	if err != nil || !found {
		return nil, err
	}
	return &meta, nil
}

// AppendStatus appends an entry to the status log and trims the log to
// the most recent entries.
func (s *Store) AppendStatus(entry StatusEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	var entries []StatusEntry
	if _, err := s.readJSON(s.statusLogPath, &entries); err != nil {
		s.logger.Warnw("status log unreadable, starting fresh",
			logger.FieldFile, s.statusLogPath,
			logger.FieldError, err.Error())
		entries = nil
	}

	entries = append(entries, entry)
	if len(entries) > maxStatusEntries {
		entries = entries[len(entries)-maxStatusEntries:]
	}
	return s.writeJSON(s.statusLogPath, entries)
}

// LoadStatusLog reads the full retained status history, oldest first.
// A missing file is an empty history.
func (s *Store) LoadStatusLog() ([]StatusEntry, error) {
	var entries []StatusEntry
	if _, err := s.readJSON(s.statusLogPath, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Summary builds the latest-plus-recent-window view of the status log.
func (s *Store) Summary() (*StatusSummary, error) {
	entries, err := s.LoadStatusLog()
	if err != nil {
		return nil, err
	}

	summary := &StatusSummary{
		Total:  len(entries),
		Counts: make(map[string]int),
	}
	if len(entries) == 0 {
		return summary, nil
	}

	latest := entries[len(entries)-1]
	summary.Latest = &latest
	summary.Updated = latest.Timestamp

	window := entries
	if len(window) > statusSummaryWindow {
		window = window[len(window)-statusSummaryWindow:]
	}
	summary.Recent = len(window)
	for _, e := range window {
		summary.Counts[e.Status]++
	}
	return summary, nil
}

// SaveValidationReport writes the validation report JSON.
func (s *Store) SaveValidationReport(report *validation.Report) error {
	return s.writeJSON(s.validationLogPath, report)
}

// LoadValidationReport reads the last validation report. A missing file
// returns (nil, nil).
func (s *Store) LoadValidationReport() (*validation.Report, error) {
	var report validation.Report
	found, err := s.readJSON(s.validationLogPath, &report)
	if err != nil || !found {
		return nil, err
	}
	return &report, nil
}

// SetValidationLogPath overrides the default report path.
func (s *Store) SetValidationLogPath(path string) {
	s.validationLogPath = path
}

func (s *Store) writeJSON(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	s.logger.Debugw("wrote state file", logger.FieldFile, path, logger.FieldSize, len(data))
	return nil
}

// readJSON decodes path into v. Returns found=false without error when
// the file does not exist.
func (s *Store) readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Wrapf(err, "decoding %s", path)
	}
	return true, nil
}
