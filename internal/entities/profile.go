package entities

import "github.com/samber/lo"

// UserProfile describes the searching user. It is a value object that may live
// only for the duration of a single request; the core never mutates it.
type UserProfile struct {
	Skills             []string
	CurrentTitle       string
	ExperienceYears    int
	PreferredTitles    []string
	PreferredLocations []string
	DesiredSalaryMin   *float64
	DesiredSalaryMax   *float64
	Industry           string
}

// SkillSet returns the profile skills lowercased and deduplicated.
func (p *UserProfile) SkillSet() []string {
	return lo.Uniq(lo.Map(p.Skills, toLower))
}

func (p *UserProfile) HasDesiredSalary() bool {
	return p.DesiredSalaryMin != nil || p.DesiredSalaryMax != nil
}
