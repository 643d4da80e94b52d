package io

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samudraneel05/TDSProject1/internal/model"
)

// RosterRepository loads the participant roster from YAML or CSV files.
type RosterRepository struct {
	fs fs.FS
}

// NewRosterRepository creates a new roster repository.
func NewRosterRepository(filesystem fs.FS) *RosterRepository {
	return &RosterRepository{fs: filesystem}
}

// GetParticipants loads the participants of a roster file. Files ending in `.csv` are
// read as CSV with `email`, `endpoint` and `secret` columns, anything else as YAML.
func (r *RosterRepository) GetParticipants(ctx context.Context, path string) ([]model.Participant, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var participants []model.Participant
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		participants, err = parseRosterCSV(data)
	} else {
		participants, err = parseRosterYAML(data)
	}
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, p := range participants {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid participant %q: %w", p.Identity, err)
		}
		if seen[p.Identity] {
			return nil, fmt.Errorf("duplicated participant %q: %w", p.Identity, model.ErrNotValid)
		}
		seen[p.Identity] = true
	}

	return participants, nil
}

// Roster represents the YAML structure of a participant roster.
type Roster struct {
	Participants []Participant `yaml:"participants"`
}

// Participant represents the YAML structure of a roster entry.
type Participant struct {
	Email    string `yaml:"email"`
	Endpoint string `yaml:"endpoint"`
	Secret   string `yaml:"secret"`
}

func parseRosterYAML(data []byte) ([]model.Participant, error) {
	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	participants := make([]model.Participant, 0, len(roster.Participants))
	for _, p := range roster.Participants {
		participants = append(participants, model.Participant{
			Identity: strings.TrimSpace(p.Email),
			Endpoint: strings.TrimSpace(p.Endpoint),
			Secret:   p.Secret,
		})
	}
	return participants, nil
}

func parseRosterCSV(data []byte) ([]model.Participant, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"email", "endpoint", "secret"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing %q CSV column: %w", required, model.ErrNotValid)
		}
	}

	field := func(record []string, name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var participants []model.Participant
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}
		participants = append(participants, model.Participant{
			Identity: field(record, "email"),
			Endpoint: field(record, "endpoint"),
			Secret:   field(record, "secret"),
		})
	}
	return participants, nil
}
