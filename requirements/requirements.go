// Package requirements loads development requirements from CSV or YAML and
// selects the ones that still need work.
package requirements

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/logger"
)

// Statuses that mark a requirement as still needing implementation.
var actionableStatuses = map[string]bool{
	"new":     true,
	"pending": true,
	"active":  true,
}

// Requirement is a single unit of work for generation or logic validation.
type Requirement struct {
	ID                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	Priority           string   `yaml:"priority"`
	Status             string   `yaml:"status"`
	AcceptanceCriteria []string `yaml:"acceptance_criteria"`
}

// Actionable reports whether the requirement still needs implementation.
func (r Requirement) Actionable() bool {
	return actionableStatuses[strings.ToLower(strings.TrimSpace(r.Status))]
}

// Loader reads requirement files.
type Loader struct {
	logger *zap.SugaredLogger
}

// NewLoader creates a requirements loader.
func NewLoader() *Loader {
	return &Loader{
		logger: logger.ComponentLogger("requirements"),
	}
}

// Load reads requirements from path, dispatching on the file extension
// (.csv, .yaml, .yml).
func (l *Loader) Load(path string) ([]Requirement, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.LoadCSV(path)
	case ".yaml", ".yml":
		return l.LoadYAML(path)
	default:
		return nil, errors.Newf("unsupported requirements format %q (use .csv or .yaml)", filepath.Ext(path))
	}
}

// LoadCSV reads a requirements CSV. Expected columns: id, name (or title),
// description, priority, status, and optionally acceptance_criteria with
// ';'-separated entries. Header matching is case-insensitive; missing
// optional columns default to empty.
func (l *Loader) LoadCSV(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open requirements file %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Newf("requirements file %s is empty", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read header of %s", path)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := cols["id"]
	if !ok {
		return nil, errors.Newf("requirements file %s has no 'id' column", path)
	}
	descCol, ok := cols["description"]
	if !ok {
		return nil, errors.Newf("requirements file %s has no 'description' column", path)
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var reqs []Requirement
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.logger.Warnw("skipping malformed requirements row",
				logger.FieldFile, path,
				logger.FieldLine, line,
				logger.FieldError, err.Error())
			continue
		}

		id := ""
		if idCol < len(row) {
			id = strings.TrimSpace(row[idCol])
		}
		desc := ""
		if descCol < len(row) {
			desc = strings.TrimSpace(row[descCol])
		}
		if id == "" || desc == "" {
			l.logger.Warnw("skipping requirement without id or description",
				logger.FieldFile, path,
				logger.FieldLine, line)
			continue
		}

		name := field(row, "name")
		if name == "" {
			name = field(row, "title")
		}

		req := Requirement{
			ID:          id,
			Name:        name,
			Description: desc,
			Priority:    field(row, "priority"),
			Status:      field(row, "status"),
		}
		if ac := field(row, "acceptance_criteria"); ac != "" {
			for _, c := range strings.Split(ac, ";") {
				if c = strings.TrimSpace(c); c != "" {
					req.AcceptanceCriteria = append(req.AcceptanceCriteria, c)
				}
			}
		}
		reqs = append(reqs, req)
	}

	l.logger.Infow("loaded requirements", logger.FieldFile, path, logger.FieldCount, len(reqs))
	return reqs, nil
}

// LoadYAML reads requirements from a YAML list.
func (l *Loader) LoadYAML(path string) ([]Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read requirements file %s", path)
	}

	var reqs []Requirement
	if err := yaml.Unmarshal(data, &reqs); err != nil {
		return nil, errors.Wrapf(err, "failed to parse requirements YAML %s", path)
	}

	kept := reqs[:0]
	for _, r := range reqs {
		if r.ID == "" || r.Description == "" {
			l.logger.Warnw("skipping requirement without id or description", logger.FieldFile, path)
			continue
		}
		kept = append(kept, r)
	}

	l.logger.Infow("loaded requirements", logger.FieldFile, path, logger.FieldCount, len(kept))
	return kept, nil
}

// Filter returns the actionable requirements, excluding any whose ID appears
// in implemented. Order is preserved.
func Filter(reqs []Requirement, implemented []string) []Requirement {
	done := make(map[string]bool, len(implemented))
	for _, id := range implemented {
		done[strings.TrimSpace(id)] = true
	}

	var out []Requirement
	for _, r := range reqs {
		if !r.Actionable() {
			continue
		}
		if done[r.ID] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// LoadImplementedIDs reads a one-column CSV (or plain list) of requirement IDs
// that already have implementations.
func (l *Loader) LoadImplementedIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open implemented-ids file %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var ids []string
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" {
			continue
		}
		// Tolerate a header row
		if first && strings.EqualFold(id, "id") {
			first = false
			continue
		}
		first = false
		ids = append(ids, id)
	}
	return ids, nil
}
