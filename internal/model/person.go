package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxPassportIDLen is the longest passport id accepted by Validate.
const MaxPassportIDLen = 40

// ErrInvalidPerson is returned (wrapped) by Validate.
var ErrInvalidPerson = errors.New("invalid person")

// Coordinates is the mandatory value entity of a Person.
type Coordinates struct {
	ID int64 `json:"id,omitempty" yaml:"-"`
	X  int64 `json:"x" yaml:"x"`
	Y  int32 `json:"y" yaml:"y"`
}

// Location is the optional value entity of a Person.
type Location struct {
	ID   int64   `json:"id,omitempty" yaml:"-"`
	X    float64 `json:"x" yaml:"x"`
	Y    int64   `json:"y" yaml:"y"`
	Z    int32   `json:"z" yaml:"z"`
	Name string  `json:"name" yaml:"name"`
}

// User is the caller identity supplied by the request layer.
type User struct {
	ID    int32  `json:"id"`
	Login string `json:"login,omitempty"`
}

// Person is the aggregate root.
type Person struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Coordinates  Coordinates `json:"coordinates"`
	Location     *Location   `json:"location,omitempty"`
	CreationDate time.Time   `json:"creation_date"`
	Height       int32       `json:"height"`
	Birthday     time.Time   `json:"birthday"`
	PassportID   string      `json:"passport_id"`
	HairColor    *HairColor  `json:"hair_color,omitempty"`
	OwnerID      int32       `json:"owner_id"`
}

// Normalize rewrites the free-text fields to Unicode NFC so that visually
// identical names compare equal once stored.
func (p *Person) Normalize() {
	p.Name = norm.NFC.String(strings.TrimSpace(p.Name))
	p.PassportID = norm.NFC.String(strings.TrimSpace(p.PassportID))
	if p.Location != nil {
		p.Location.Name = norm.NFC.String(strings.TrimSpace(p.Location.Name))
	}
}

// Validate checks the domain constraints on a Person. It does not touch
// ID, OwnerID or CreationDate, which are assigned by the caller or the store.
func (p *Person) Validate() error {
	var problems []string

	if p.Name == "" {
		problems = append(problems, "name must not be empty")
	}
	if p.Height <= 0 {
		problems = append(problems, "height must be positive")
	}
	if p.PassportID == "" {
		problems = append(problems, "passport id must not be empty")
	} else if len([]rune(p.PassportID)) > MaxPassportIDLen {
		problems = append(problems, fmt.Sprintf("passport id longer than %d characters", MaxPassportIDLen))
	}
	if p.Birthday.IsZero() {
		problems = append(problems, "birthday must be set")
	}
	if p.HairColor != nil && !p.HairColor.Valid() {
		problems = append(problems, fmt.Sprintf("unknown hair color %q", string(*p.HairColor)))
	}
	if p.Location != nil && p.Location.Name == "" {
		problems = append(problems, "location name must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPerson, strings.Join(problems, "; "))
	}
	return nil
}

// HairColor is a closed set of colors stored by label.
type HairColor string

const (
	HairGreen  HairColor = "green"
	HairBlack  HairColor = "black"
	HairBlue   HairColor = "blue"
	HairYellow HairColor = "yellow"
	HairBrown  HairColor = "brown"
)

// HairColors lists every valid color in declaration order.
var HairColors = []HairColor{HairGreen, HairBlack, HairBlue, HairYellow, HairBrown}

var hairFolder = cases.Fold()

// ParseHairColor resolves a label case-insensitively.
func ParseHairColor(label string) (HairColor, error) {
	folded := hairFolder.String(strings.TrimSpace(label))
	for _, c := range HairColors {
		if string(c) == folded {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown hair color %q", label)
}

// Label returns the stored representation of the color.
func (c HairColor) Label() string {
	return string(c)
}

// Valid reports whether c is one of HairColors.
func (c HairColor) Valid() bool {
	for _, known := range HairColors {
		if c == known {
			return true
		}
	}
	return false
}

// HairColorPtr is a convenience for building a Person literal.
func HairColorPtr(c HairColor) *HairColor {
	return &c
}
