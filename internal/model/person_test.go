package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPerson() Person {
	return Person{
		Name:        "Ada",
		Coordinates: Coordinates{X: 10, Y: 20},
		Height:      170,
		Birthday:    time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		PassportID:  "P-1",
		HairColor:   HairColorPtr(HairBrown),
	}
}

func TestValidate_Valid(t *testing.T) {
	p := validPerson()
	assert.NoError(t, p.Validate())
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	p := Person{}
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPerson))
	assert.Contains(t, err.Error(), "name must not be empty")
	assert.Contains(t, err.Error(), "height must be positive")
	assert.Contains(t, err.Error(), "passport id must not be empty")
	assert.Contains(t, err.Error(), "birthday must be set")
}

func TestValidate_PassportTooLong(t *testing.T) {
	p := validPerson()
	p.PassportID = strings.Repeat("x", MaxPassportIDLen+1)
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passport id longer than")
}

func TestValidate_LocationNeedsName(t *testing.T) {
	p := validPerson()
	p.Location = &Location{X: 1.5}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location name")
}

func TestValidate_UnknownHairColor(t *testing.T) {
	p := validPerson()
	bad := HairColor("purple")
	p.HairColor = &bad
	assert.ErrorIs(t, p.Validate(), ErrInvalidPerson)
}

func TestNormalize_NFC(t *testing.T) {
	p := validPerson()
	// "e" followed by a combining acute accent.
	p.Name = "  Ade\u0301le "
	p.Location = &Location{Name: "Cafe\u0301"}
	p.Normalize()

	assert.Equal(t, "Ad\u00e9le", p.Name)
	assert.Equal(t, "Caf\u00e9", p.Location.Name)
}

func TestParseHairColor(t *testing.T) {
	tests := []struct {
		in      string
		want    HairColor
		wantErr bool
	}{
		{"green", HairGreen, false},
		{"BLACK", HairBlack, false},
		{" Brown ", HairBrown, false},
		{"purple", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHairColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, string(tt.want), got.Label())
		})
	}
}
