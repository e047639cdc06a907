// Package timeline maps drug exposures and clinical notes onto a normalized horizontal
// axis, expressed as percentages of the buffered time window.
package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/naranjo-adr-assessor/internal/domain"
)

const (
	// Buffer pads the window on both sides of the earliest and latest event.
	Buffer = 12 * time.Hour
	// MinExposureDuration is the smallest visual width an exposure bar gets.
	MinExposureDuration = time.Hour
)

// gridFractions are the axis gridline positions in percent.
var gridFractions = []float64{0, 25, 50, 75, 100}

// Position is an event's placement in percent of the window width.
type Position struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Gridline is one labelled vertical axis line.
type Gridline struct {
	Percent float64   `json:"percent"`
	Time    time.Time `json:"time"`
	Label   string    `json:"label"`
}

// Layout is the rendered form of a timeline. When Empty is set nothing else is populated.
type Layout struct {
	Empty     bool                `json:"empty"`
	Window    domain.TimeWindow   `json:"window"`
	Positions map[string]Position `json:"positions,omitempty"`
	Gridlines []Gridline          `json:"gridlines,omitempty"`
	Now       *float64            `json:"now,omitempty"`
}

// Window computes the buffered window over every exposure start/end and note timestamp.
// The boolean is false when there is nothing to place.
func Window(exposures []domain.DrugExposure, notes []domain.ClinicalNote) (domain.TimeWindow, bool) {
	var minT, maxT time.Time
	seen := false
	observe := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if !seen || t.Before(minT) {
			minT = t
		}
		if !seen || t.After(maxT) {
			maxT = t
		}
		seen = true
	}

	for _, e := range exposures {
		observe(e.Start)
		observe(e.End)
	}
	for _, n := range notes {
		observe(n.Timestamp)
	}
	if !seen {
		return domain.TimeWindow{}, false
	}

	start := minT.Add(-Buffer)
	end := maxT.Add(Buffer)
	return domain.TimeWindow{Start: start, End: end, Seconds: secondsBetween(start, end)}, true
}

// secondsBetween is b-a in seconds. Unlike time.Time.Sub it does not saturate at
// roughly 292 years.
func secondsBetween(a, b time.Time) float64 {
	return float64(b.Unix()-a.Unix()) + float64(b.Nanosecond()-a.Nanosecond())/1e9
}

// addSeconds is the inverse of secondsBetween.
func addSeconds(t time.Time, s float64) time.Time {
	whole := math.Floor(s)
	return time.Unix(t.Unix()+int64(whole), int64(t.Nanosecond())+int64(math.Round((s-whole)*1e9)))
}

// PositionOf maps an instant to its percentage offset from the window start.
// Every coordinate on the axis goes through this transform.
func PositionOf(w domain.TimeWindow, t time.Time) float64 {
	span := secondsBetween(w.Start, w.End)
	if span <= 0 {
		return 0
	}
	return secondsBetween(w.Start, t) / span * 100
}

// WidthOf returns an exposure bar's width, clamping its duration to MinExposureDuration.
func WidthOf(w domain.TimeWindow, start, end time.Time) float64 {
	span := secondsBetween(w.Start, w.End)
	if span <= 0 {
		return 0
	}
	d := math.Max(secondsBetween(start, end), MinExposureDuration.Seconds())
	return d / span * 100
}

// Gridlines returns the axis lines at 0, 25, 50, 75 and 100 percent, labelled in loc.
func Gridlines(w domain.TimeWindow, loc *time.Location) []Gridline {
	if loc == nil {
		loc = time.Local
	}
	span := secondsBetween(w.Start, w.End)
	lines := make([]Gridline, 0, len(gridFractions))
	for _, pct := range gridFractions {
		t := addSeconds(w.Start, span*pct/100).In(loc)
		lines = append(lines, Gridline{Percent: pct, Time: t, Label: gridLabel(t)})
	}
	return lines
}

func gridLabel(t time.Time) string {
	return fmt.Sprintf("%d/%d %d:00", t.Day(), int(t.Month()), t.Hour())
}

// Compute lays out exposures and notes. Notes get zero width. now is placed as a marker
// only when it falls inside the window.
func Compute(exposures []domain.DrugExposure, notes []domain.ClinicalNote, now time.Time, loc *time.Location) Layout {
	w, ok := Window(exposures, notes)
	if !ok {
		return Layout{Empty: true}
	}

	positions := make(map[string]Position, len(exposures)+len(notes))
	for _, e := range exposures {
		positions[e.ID] = Position{Left: PositionOf(w, e.Start), Width: WidthOf(w, e.Start, e.End)}
	}
	for _, n := range notes {
		positions[n.ID] = Position{Left: PositionOf(w, n.Timestamp)}
	}

	layout := Layout{
		Window:    w,
		Positions: positions,
		Gridlines: Gridlines(w, loc),
	}
	if !now.IsZero() {
		if pct := PositionOf(w, now); pct >= 0 && pct <= 100 {
			layout.Now = &pct
		}
	}
	return layout
}
