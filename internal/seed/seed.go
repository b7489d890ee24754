// Package seed decodes person documents from YAML (or JSON) and validates
// them against an embedded CUE schema before they reach the store.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/personvault/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// BirthdayLayout is the date format used in documents.
const BirthdayLayout = "2006-01-02"

// PersonDoc is the document form of a Person.
type PersonDoc struct {
	Name        string            `yaml:"name"`
	Coordinates model.Coordinates `yaml:"coordinates"`
	Location    *model.Location   `yaml:"location,omitempty"`
	Height      int32             `yaml:"height"`
	Birthday    string            `yaml:"birthday"`
	PassportID  string            `yaml:"passport_id"`
	HairColor   string            `yaml:"hair_color,omitempty"`
}

// Seed is a batch of persons created on behalf of one owner.
type Seed struct {
	Owner   int32       `yaml:"owner"`
	Persons []PersonDoc `yaml:"persons"`
}

// ToPerson converts the document into a model.Person. ID, OwnerID and
// CreationDate are left zero.
func (d PersonDoc) ToPerson() (model.Person, error) {
	birthday, err := time.Parse(BirthdayLayout, d.Birthday)
	if err != nil {
		return model.Person{}, fmt.Errorf("birthday: %w", err)
	}

	p := model.Person{
		Name:        d.Name,
		Coordinates: d.Coordinates,
		Height:      d.Height,
		Birthday:    birthday,
		PassportID:  d.PassportID,
	}
	if d.Location != nil {
		loc := *d.Location
		p.Location = &loc
	}
	if d.HairColor != "" {
		c, err := model.ParseHairColor(d.HairColor)
		if err != nil {
			return model.Person{}, err
		}
		p.HairColor = &c
	}
	return p, nil
}

// Load reads and validates a seed file.
func Load(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	s, err := ParseSeed(data)
	if err != nil {
		return Seed{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSeed validates data against #Seed and decodes it.
func ParseSeed(data []byte) (Seed, error) {
	if err := validate(data, "#Seed"); err != nil {
		return Seed{}, err
	}
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return s, nil
}

// ParsePerson validates data against #Person and converts it.
func ParsePerson(data []byte) (model.Person, error) {
	if err := validate(data, "#Person"); err != nil {
		return model.Person{}, err
	}
	var doc PersonDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Person{}, fmt.Errorf("decode person: %w", err)
	}
	return doc.ToPerson()
}

// ToPersons converts every document in the seed.
func (s Seed) ToPersons() ([]model.Person, error) {
	persons := make([]model.Person, 0, len(s.Persons))
	for i, doc := range s.Persons {
		p, err := doc.ToPerson()
		if err != nil {
			return nil, fmt.Errorf("persons[%d]: %w", i, err)
		}
		persons = append(persons, p)
	}
	return persons, nil
}

// validate checks a YAML document against the named schema definition.
func validate(data []byte, definition string) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("empty document")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return fmt.Errorf("schema definition %s not found", definition)
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	return nil
}
