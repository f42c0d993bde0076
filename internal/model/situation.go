// Package model holds the value types exchanged between the engine, the
// mutation handlers, and the response assembler.
package model

import "github.com/shopspring/decimal"

// Role values for Person.Role.
const RolePersonParticipant = "PARTICIPANT"

// Status values for Dossier.Status.
const (
	DossierStatusActive  = "ACTIVE"
	DossierStatusRetired = "RETIRED"
)

// Situation is the mutable state transformed by a request's mutations.
// It owns at most one Dossier.
type Situation struct {
	Dossier *Dossier `json:"dossier"`
}

// Clone returns a deep copy, used to snapshot the end state independently
// of further mutation.
func (s Situation) Clone() Situation {
	if s.Dossier == nil {
		return Situation{}
	}
	return Situation{Dossier: s.Dossier.Clone()}
}

// Dossier is the pension case: one participant plus an append-only list of
// employment policies.
type Dossier struct {
	DossierID      string   `json:"dossier_id"`
	Status         string   `json:"status"`
	RetirementDate *string  `json:"retirement_date"`
	Persons        []Person `json:"persons"`
	Policies       []Policy `json:"policies"`
	PolicySeq      int      `json:"-"` // internal: sequence number of the most recently added policy
}

func (d *Dossier) Clone() *Dossier {
	if d == nil {
		return nil
	}
	clone := *d
	if d.RetirementDate != nil {
		rd := *d.RetirementDate
		clone.RetirementDate = &rd
	}
	clone.Persons = append([]Person(nil), d.Persons...)
	clone.Policies = make([]Policy, len(d.Policies))
	for i, p := range d.Policies {
		clone.Policies[i] = p.Clone()
	}
	return &clone
}

// Participant returns the dossier's single PARTICIPANT person, if present.
func (d *Dossier) Participant() *Person {
	for i := range d.Persons {
		if d.Persons[i].Role == RolePersonParticipant {
			return &d.Persons[i]
		}
	}
	return nil
}

// Person is a party attached to a dossier.
type Person struct {
	PersonID  string `json:"person_id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

// Policy is a single employment record.
type Policy struct {
	PolicyID            string           `json:"policy_id"`
	SchemeID            string           `json:"scheme_id"`
	EmploymentStartDate string           `json:"employment_start_date"`
	Salary              decimal.Decimal  `json:"salary"`
	PartTimeFactor      decimal.Decimal  `json:"part_time_factor"`
	AttainablePension   *decimal.Decimal `json:"attainable_pension"`
	Projections         []Projection     `json:"projections"`
}

func (p Policy) Clone() Policy {
	clone := p
	if p.AttainablePension != nil {
		v := *p.AttainablePension
		clone.AttainablePension = &v
	}
	clone.Projections = append([]Projection(nil), p.Projections...)
	return clone
}

// Projection is one point on a policy's benefit-projection curve. Written
// only by project_future_benefits.
type Projection struct {
	Date             string          `json:"date"`
	ProjectedPension decimal.Decimal `json:"projected_pension"`
}
