package entities

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type RemoteType string

const (
	OnSite RemoteType = "on_site"
	Remote RemoteType = "remote"
	Hybrid RemoteType = "hybrid"
)

type JobType string

const (
	FullTime  JobType = "full_time"
	PartTime  JobType = "part_time"
	Contract  JobType = "contract"
	Freelance JobType = "freelance"
	Internship JobType = "internship"
	Temporary  JobType = "temporary"
)

type ExperienceLevel string

const (
	EntryLevel  ExperienceLevel = "entry_level"
	Associate   ExperienceLevel = "associate"
	MidLevel    ExperienceLevel = "mid_level"
	SeniorLevel ExperienceLevel = "senior_level"
	Director    ExperienceLevel = "director"
	Executive   ExperienceLevel = "executive"
)

// JobListing is a posting as stored by the listing store. The matching core
// only ever reads it; once embedded its text fields are treated as immutable.
type JobListing struct {
	ID              string `gorm:"primaryKey"`
	Title           string
	Company         string
	Location        string
	RemoteType      RemoteType
	JobType         JobType
	ExperienceLevel ExperienceLevel

	Description      string   `gorm:"type:text"`
	Requirements     []string `gorm:"serializer:json"`
	Responsibilities []string `gorm:"serializer:json"`
	Benefits         []string `gorm:"serializer:json"`

	SalaryMin *float64
	SalaryMax *float64

	PostedDate  time.Time
	ExpiresDate *time.Time

	SkillsRequired  []string `gorm:"serializer:json"`
	SkillsPreferred []string `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Skills returns the union of required and preferred skills, lowercased and
// deduplicated. Skill comparison is case-insensitive everywhere.
func (j *JobListing) Skills() []string {
	all := append(lo.Map(j.SkillsRequired, toLower), lo.Map(j.SkillsPreferred, toLower)...)
	return lo.Uniq(all)
}

func (j *JobListing) HasSalary() bool {
	return j.SalaryMin != nil || j.SalaryMax != nil
}

func toLower(s string, _ int) string {
	return strings.ToLower(strings.TrimSpace(s))
}
