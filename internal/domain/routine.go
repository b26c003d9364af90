package domain

import (
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the calendar-date format routines are stored and exchanged in.
const DateLayout = "2006-01-02"

// RoutineSet is one line of a routine: how many series of how many repetitions,
// with an optional load, duration and rest. Weight keeps its unit embedded ("50kg").
type RoutineSet struct {
	Series      int     `bson:"series" json:"series"`
	Repetitions int     `bson:"repetitions" json:"repetitions"`
	Weight      *string `bson:"weight,omitempty" json:"weight,omitempty"`
	Time        *string `bson:"time,omitempty" json:"time,omitempty"`
	Rest        *string `bson:"rest,omitempty" json:"rest,omitempty"`
}

// Routine is a logged (or template) workout owned by exactly one user.
type Routine struct {
	ID                string       `bson:"_id" json:"id"`
	OwnerUserID       string       `bson:"ownerUserId" json:"ownerUserId"`
	Category          string       `bson:"category" json:"category"`
	Name              string       `bson:"name" json:"name"`
	Description       *string      `bson:"description,omitempty" json:"description,omitempty"`
	Date              string       `bson:"date" json:"date"` // YYYY-MM-DD
	Sets              []RoutineSet `bson:"sets" json:"sets"` // Order is display order
	Observations      *string      `bson:"observations,omitempty" json:"observations,omitempty"`
	IsTemplate        bool         `bson:"isTemplate" json:"isTemplate"`
	OriginalRoutineID *string      `bson:"originalRoutineId,omitempty" json:"originalRoutineId,omitempty"` // Lookup only, never used for access control
	ProgramID         *string      `bson:"programId,omitempty" json:"programId,omitempty"`
	VideoURLs         []string     `bson:"videoUrls" json:"videoUrls"`
	CreatedAt         time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// RoutinePatch holds the fields of a partial update. Nil means "leave unchanged";
// an empty Description or Observations clears the field.
type RoutinePatch struct {
	Category     *string
	Name         *string
	Description  *string
	Date         *string
	Sets         *[]RoutineSet
	Observations *string
	VideoURLs    *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p RoutinePatch) IsEmpty() bool {
	return p.Category == nil && p.Name == nil && p.Description == nil && p.Date == nil &&
		p.Sets == nil && p.Observations == nil && p.VideoURLs == nil
}

// Apply merges the present fields of p into r.
func (p RoutinePatch) Apply(r *Routine) {
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = optional(*p.Description)
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Sets != nil {
		r.Sets = append([]RoutineSet(nil), (*p.Sets)...)
	}
	if p.Observations != nil {
		r.Observations = optional(*p.Observations)
	}
	if p.VideoURLs != nil {
		r.VideoURLs = append([]string(nil), (*p.VideoURLs)...)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Validate returns field-level problems, keyed by JSON field path. Empty means valid.
func (r *Routine) Validate() map[string]string {
	problems := map[string]string{}
	if r.Category == "" {
		problems["category"] = "category is required"
	}
	if r.Name == "" {
		problems["name"] = "name is required"
	}
	if r.Date == "" {
		problems["date"] = "date is required"
	} else if _, err := time.Parse(DateLayout, r.Date); err != nil {
		problems["date"] = "date must be formatted as YYYY-MM-DD"
	}
	if len(r.Sets) == 0 {
		problems["sets"] = "at least one set is required"
	}
	for i, s := range r.Sets {
		if s.Series < 1 {
			problems["sets["+strconv.Itoa(i)+"].series"] = "series must be at least 1"
		}
		if s.Repetitions < 1 {
			problems["sets["+strconv.Itoa(i)+"].repetitions"] = "repetitions must be at least 1"
		}
	}
	return problems
}

// CloneFor copies a template routine into a new routine owned by userID.
func (r *Routine) CloneFor(userID, programID string) Routine {
	originalID := r.ID
	pid := programID
	return Routine{
		OwnerUserID:       userID,
		Category:          r.Category,
		Name:              r.Name,
		Description:       r.Description,
		Date:              r.Date,
		Sets:              append([]RoutineSet(nil), r.Sets...),
		Observations:      r.Observations,
		IsTemplate:        false,
		OriginalRoutineID: &originalID,
		ProgramID:         &pid,
		VideoURLs:         append([]string{}, r.VideoURLs...),
	}
}

var weightNumber = regexp.MustCompile(`(\d+(\.\d+)?)`)

// ParseWeight extracts the first decimal number from a weight such as "52.5kg".
// A missing or number-less weight counts as 0.
func ParseWeight(w *string) float64 {
	if w == nil {
		return 0
	}
	m := weightNumber.FindString(*w)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// Volume is the sum of repetitions times weight over all sets.
func (r *Routine) Volume() float64 {
	var total float64
	for _, s := range r.Sets {
		total += float64(s.Repetitions) * ParseWeight(s.Weight)
	}
	return total
}

// MaxWeight is the heaviest load across the routine's sets.
func (r *Routine) MaxWeight() float64 {
	var max float64
	for _, s := range r.Sets {
		if w := ParseWeight(s.Weight); w > max {
			max = w
		}
	}
	return max
}
