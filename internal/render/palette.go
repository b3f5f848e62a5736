package render

import (
	"errors"
	"fmt"
)

// ErrUnknownSubjectCode is returned for a subject code missing from the palette
var ErrUnknownSubjectCode = errors.New("unknown subject code")

// Colors is a text/background color pair ("#RRGGBB")
type Colors struct {
	Text       string
	Background string
}

// Palette maps subject codes to display names and display names to colors
type Palette struct {
	Subjects map[string]string // code -> display name
	Colors   map[string]Colors // display name -> colors
	Holiday  Colors
	Accent   Colors
}

// Resolve returns the display name and colors of a subject code
func (p Palette) Resolve(code string) (string, Colors, error) {
	name, ok := p.Subjects[code]
	if !ok {
		return "", Colors{}, fmt.Errorf("%w: %q", ErrUnknownSubjectCode, code)
	}

	colors, ok := p.Colors[name]
	if !ok {
		return "", Colors{}, fmt.Errorf("%w: %q (%s) has no colors", ErrUnknownSubjectCode, code, name)
	}

	return name, colors, nil
}

// CheckCodes returns an error listing every code the palette cannot resolve
func (p Palette) CheckCodes(codes []string) error {
	var errs []error
	for _, code := range codes {
		if _, _, err := p.Resolve(code); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
