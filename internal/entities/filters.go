package entities

import (
	"github.com/go-playground/validator/v10"
)

// DefaultMaxAgeDays bounds how old a posting may be when the caller supplies
// filters without an explicit age limit.
const DefaultMaxAgeDays = 30

// SearchFilters narrows the candidate set before any embedding happens.
// Every field is optional; an absent field means no constraint.
type SearchFilters struct {
	MinSalary        *float64          `validate:"omitempty,gte=0"`
	MaxSalary        *float64          `validate:"omitempty,gte=0"`
	JobTypes         []JobType         `validate:"dive,oneof=full_time part_time contract freelance internship temporary"`
	RemoteTypes      []RemoteType      `validate:"dive,oneof=on_site remote hybrid"`
	ExperienceLevels []ExperienceLevel `validate:"dive,oneof=entry_level associate mid_level senior_level director executive"`
	Locations        []string
	Companies        []string
	RequiredSkills   []string
	ExcludedSkills   []string
	MaxAgeDays       *int `validate:"omitempty,gte=1"`
}

var filtersValidator = validator.New()

func (f *SearchFilters) Validate() error {
	return filtersValidator.Struct(f)
}

// MaxAge returns the posting-age cutoff in days, falling back to the default
// when filters are present but no explicit limit was given.
func (f *SearchFilters) MaxAge() int {
	if f.MaxAgeDays != nil {
		return *f.MaxAgeDays
	}
	return DefaultMaxAgeDays
}
