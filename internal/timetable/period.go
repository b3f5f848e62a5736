package timetable

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPeriod is returned when a period string cannot be decoded
var ErrMalformedPeriod = errors.New("malformed period")

// PeriodKind tags the variant stored in a Period
type PeriodKind int

const (
	PeriodEmpty PeriodKind = iota
	PeriodSingle
	PeriodDouble
	PeriodDayOff
)

// Wire codes used in the data file
const (
	kindSingle = "1"
	kindDouble = "2"
	kindDayOff = "3"
)

// String returns a readable name for the kind
func (k PeriodKind) String() string {
	switch k {
	case PeriodEmpty:
		return "empty"
	case PeriodSingle:
		return "single"
	case PeriodDouble:
		return "double"
	case PeriodDayOff:
		return "day-off"
	default:
		return fmt.Sprintf("PeriodKind(%d)", int(k))
	}
}

// Period is one slot of a weekly timetable.
//
// Encoded in the data file as "kind:subject[:extra...]" where kind is
// "1" (single), "2" (double) or "3" (day off, "3:description").
// A subject of "x" or "-" marks a free slot.
type Period struct {
	Kind        PeriodKind
	Subject     string   // subject code, Single and Double only
	Notes       []string // extra lines (room, teacher), Single and Double only
	Description string   // DayOff only

	raw string
}

// Empty returns an empty period
func Empty() Period {
	return Period{Kind: PeriodEmpty}
}

// Single returns a one-slot period
func Single(subject string, notes ...string) Period {
	return Period{Kind: PeriodSingle, Subject: subject, Notes: notes}
}

// Double returns a two-slot period
func Double(subject string, notes ...string) Period {
	return Period{Kind: PeriodDouble, Subject: subject, Notes: notes}
}

// DayOff returns a whole-day marker period
func DayOff(description string) Period {
	return Period{Kind: PeriodDayOff, Description: description}
}

// ParsePeriod decodes a period string from the data file
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Empty(), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return Period{}, fmt.Errorf("%w: %q has no subject", ErrMalformedPeriod, s)
	}

	switch parts[0] {
	case kindDayOff:
		// The description may itself contain colons
		p := DayOff(strings.TrimSpace(strings.Join(parts[1:], ":")))
		p.raw = s
		return p, nil
	case kindSingle, kindDouble:
	default:
		return Period{}, fmt.Errorf("%w: %q has unknown kind %q", ErrMalformedPeriod, s, parts[0])
	}

	subject := strings.TrimSpace(parts[1])
	if isPlaceholder(subject) {
		p := Empty()
		p.raw = s
		return p, nil
	}

	var notes []string
	for _, n := range parts[2:] {
		notes = append(notes, strings.TrimSpace(n))
	}

	var p Period
	if parts[0] == kindDouble {
		p = Double(subject, notes...)
	} else {
		p = Single(subject, notes...)
	}
	p.raw = s
	return p, nil
}

func isPlaceholder(subject string) bool {
	return subject == "" || subject == "x" || subject == "-"
}

// IsEmpty reports whether the period produces no cell content
func (p Period) IsEmpty() bool {
	return p.Kind == PeriodEmpty
}

// Span returns how many period rows the period occupies
func (p Period) Span() int {
	if p.Kind == PeriodDouble {
		return 2
	}
	return 1
}

// String encodes the period back to the data file format.
// Decoded periods keep their original text.
func (p Period) String() string {
	if p.raw != "" {
		return p.raw
	}

	switch p.Kind {
	case PeriodSingle, PeriodDouble:
		code := kindSingle
		if p.Kind == PeriodDouble {
			code = kindDouble
		}
		return strings.Join(append([]string{code, p.Subject}, p.Notes...), ":")
	case PeriodDayOff:
		return kindDayOff + ":" + p.Description
	default:
		return kindSingle + ":-"
	}
}

// Equal compares two periods ignoring their original encoding
func (p Period) Equal(o Period) bool {
	if p.Kind != o.Kind || p.Subject != o.Subject || p.Description != o.Description {
		return false
	}
	if len(p.Notes) != len(o.Notes) {
		return false
	}
	for i := range p.Notes {
		if p.Notes[i] != o.Notes[i] {
			return false
		}
	}
	return true
}
