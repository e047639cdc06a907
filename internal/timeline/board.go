package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/naranjo-adr-assessor/internal/domain"
)

// ExposureInput is the raw form of a drug exposure entry.
type ExposureInput struct {
	DrugName string `json:"drug_name"`
	Reaction string `json:"reaction,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
}

// NoteInput is the raw form of a SOAP note entry.
type NoteInput struct {
	Timestamp  string `json:"timestamp"`
	Subjective string `json:"subjective,omitempty"`
	Objective  string `json:"objective,omitempty"`
	Assessment string `json:"assessment,omitempty"`
	Plan       string `json:"plan,omitempty"`
}

// Board holds the two ordered event collections of one session. It is not safe for
// concurrent use.
type Board struct {
	loc       *time.Location
	exposures []domain.DrugExposure
	notes     []domain.ClinicalNote
}

// NewBoard creates an empty board that reads zone-less timestamps in loc.
func NewBoard(loc *time.Location) *Board {
	if loc == nil {
		loc = time.Local
	}
	return &Board{loc: loc}
}

// Location returns the zone used for parsing and labels.
func (b *Board) Location() *time.Location {
	return b.loc
}

// AddExposure validates and appends an exposure. The end defaults to the start, and the
// reaction, when given, is folded into the label.
func (b *Board) AddExposure(in ExposureInput) (domain.DrugExposure, error) {
	name := strings.TrimSpace(in.DrugName)
	if name == "" {
		return domain.DrugExposure{}, domain.NewValidationError("drug_name", "drug name is required", in.DrugName)
	}

	start, err := ParseTimestamp(in.Start, b.loc)
	if err != nil {
		return domain.DrugExposure{}, domain.NewValidationError("start", err.Error(), in.Start)
	}
	end := start
	if strings.TrimSpace(in.End) != "" {
		if end, err = ParseTimestamp(in.End, b.loc); err != nil {
			return domain.DrugExposure{}, domain.NewValidationError("end", err.Error(), in.End)
		}
	}

	label := name
	if reaction := strings.TrimSpace(in.Reaction); reaction != "" {
		label = fmt.Sprintf("%s (%s)", name, reaction)
	}

	exposure := domain.DrugExposure{ID: uuid.New().String(), Label: label, Start: start, End: end}
	b.exposures = append(b.exposures, exposure)
	return exposure, nil
}

// AddNote validates and appends a SOAP note. Only the timestamp is required.
func (b *Board) AddNote(in NoteInput) (domain.ClinicalNote, error) {
	ts, err := ParseTimestamp(in.Timestamp, b.loc)
	if err != nil {
		return domain.ClinicalNote{}, domain.NewValidationError("timestamp", err.Error(), in.Timestamp)
	}

	note := domain.ClinicalNote{
		ID:        uuid.New().String(),
		Timestamp: ts,
		Fields:    []string{in.Subjective, in.Objective, in.Assessment, in.Plan},
	}
	b.notes = append(b.notes, note)
	return note, nil
}

// RemoveExposure deletes an exposure by ID.
func (b *Board) RemoveExposure(id string) error {
	for i, e := range b.exposures {
		if e.ID == id {
			b.exposures = append(b.exposures[:i], b.exposures[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("exposure %s: %w", id, domain.ErrNotFound)
}

// RemoveNote deletes a note by ID.
func (b *Board) RemoveNote(id string) error {
	for i, n := range b.notes {
		if n.ID == id {
			b.notes = append(b.notes[:i], b.notes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
}

// Exposures returns a copy of the exposures in insertion order.
func (b *Board) Exposures() []domain.DrugExposure {
	return append([]domain.DrugExposure(nil), b.exposures...)
}

// Notes returns a copy of the notes in insertion order.
func (b *Board) Notes() []domain.ClinicalNote {
	out := make([]domain.ClinicalNote, len(b.notes))
	for i, n := range b.notes {
		n.Fields = append([]string(nil), n.Fields...)
		out[i] = n
	}
	return out
}

// Layout lays out the board's current events.
func (b *Board) Layout(now time.Time) Layout {
	return Compute(b.exposures, b.notes, now, b.loc)
}
