package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/personvault/internal/model"
)

// personView renders one person. It marshals to JSON exactly like
// model.Person.
type personView struct {
	model.Person
}

func (v personView) Text() string {
	p := v.Person
	var b strings.Builder
	fmt.Fprintf(&b, "Person #%d (owner %d)\n", p.ID, p.OwnerID)
	fmt.Fprintf(&b, "  name:        %s\n", p.Name)
	fmt.Fprintf(&b, "  passport:    %s\n", p.PassportID)
	fmt.Fprintf(&b, "  height:      %d\n", p.Height)
	fmt.Fprintf(&b, "  birthday:    %s\n", p.Birthday.Format("2006-01-02"))
	fmt.Fprintf(&b, "  created:     %s\n", p.CreationDate.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "  coordinates: (%d, %d)\n", p.Coordinates.X, p.Coordinates.Y)
	if p.Location != nil {
		fmt.Fprintf(&b, "  location:    %s (%g, %d, %d)\n", p.Location.Name, p.Location.X, p.Location.Y, p.Location.Z)
	} else {
		b.WriteString("  location:    -\n")
	}
	if p.HairColor != nil {
		fmt.Fprintf(&b, "  hair color:  %s\n", p.HairColor.Label())
	} else {
		b.WriteString("  hair color:  -\n")
	}
	return b.String()
}

// personList renders several persons, one line each.
type personList []model.Person

func (l personList) Text() string {
	if len(l) == 0 {
		return "No persons.\n"
	}
	var b strings.Builder
	for _, p := range l {
		fmt.Fprintf(&b, "%d\t%s\t%s\towner=%d\n", p.ID, p.Name, p.PassportID, p.OwnerID)
	}
	return b.String()
}

// actionResult reports the outcome of a write.
type actionResult struct {
	Action   string `json:"action"`
	PersonID int64  `json:"person_id"`
	Owner    int32  `json:"owner"`
}

func (r actionResult) Text() string {
	return fmt.Sprintf("%s person %d\n", r.Action, r.PersonID)
}

// accessResult reports a guard check.
type accessResult struct {
	PersonID int64 `json:"person_id"`
	Owner    int32 `json:"owner"`
	Allowed  bool  `json:"allowed"`
}

func (r accessResult) Text() string {
	verdict := "denied"
	if r.Allowed {
		verdict = "allowed"
	}
	return fmt.Sprintf("owner %d on person %d: %s\n", r.Owner, r.PersonID, verdict)
}

// seedResult lists the ids created by a seed run.
type seedResult struct {
	Owner int32   `json:"owner"`
	Added []int64 `json:"added"`
}

func (r seedResult) Text() string {
	return fmt.Sprintf("Seeded %d person(s) for owner %d\n", len(r.Added), r.Owner)
}
