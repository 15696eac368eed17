package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/maxaizer/jobmatch/internal/entities"
	"github.com/samber/lo"
)

// neutralScore is returned by every sub-scorer when the data needed for a
// real signal is absent. Lack of signal must not penalize or favor a job.
const neutralScore = 0.5

// Sub-score weights of the overall score. Location weighs least because
// remote work makes it the weakest signal.
const (
	semanticWeight   = 0.35
	skillsWeight     = 0.25
	experienceWeight = 0.20
	salaryWeight     = 0.15
	locationWeight   = 0.05
)

type subScores struct {
	Semantic   float64
	Skills     float64
	Experience float64
	Salary     float64
	Location   float64
}

// experienceBands maps each level to the inclusive years range it expects.
var experienceBands = map[entities.ExperienceLevel][2]float64{
	entities.EntryLevel:  {0, 2},
	entities.Associate:   {1, 3},
	entities.MidLevel:    {3, 7},
	entities.SeniorLevel: {5, 12},
	entities.Director:    {8, 20},
	entities.Executive:   {10, 30},
}

// skillsMatchScore is the share of the job's listed skills the user has,
// case-insensitive. Neutral when either side lists no skills.
func skillsMatchScore(job *entities.JobListing, profile *entities.UserProfile) float64 {

	if profile == nil || len(profile.Skills) == 0 {
		return neutralScore
	}

	jobSkills := job.Skills()
	if len(jobSkills) == 0 {
		return neutralScore
	}

	overlap := lo.Intersect(profile.SkillSet(), jobSkills)
	return math.Min(float64(len(overlap))/float64(len(jobSkills)), 1.0)
}

// experienceMatchScore compares the user's years against the band the job
// level expects: 1.0 inside the band, a steep penalty below it and a mild,
// floored penalty above it.
func experienceMatchScore(job *entities.JobListing, profile *entities.UserProfile) float64 {

	if profile == nil || profile.ExperienceYears <= 0 {
		return neutralScore
	}

	band, ok := experienceBands[job.ExperienceLevel]
	if !ok {
		return neutralScore
	}

	years := float64(profile.ExperienceYears)
	minYears, maxYears := band[0], band[1]

	switch {
	case years >= minYears && years <= maxYears:
		return 1.0
	case years < minYears:
		gap := minYears - years
		return math.Max(0, 1.0-gap/5.0)
	default:
		gap := years - maxYears
		return math.Max(0.6, 1.0-gap/10.0)
	}
}

// salaryMatchScore treats both salary ranges as intervals. Overlapping
// intervals score by overlap share; disjoint intervals score by gap size
// relative to the mean of every stated bound. A bound of zero counts as
// unstated.
func salaryMatchScore(job *entities.JobListing, profile *entities.UserProfile) float64 {

	if profile == nil {
		return neutralScore
	}

	jobMin := salaryBound(job.SalaryMin)
	jobMax := salaryBound(job.SalaryMax)
	userMin := salaryBound(profile.DesiredSalaryMin)
	userMax := salaryBound(profile.DesiredSalaryMax)

	if jobMin == 0 && jobMax == 0 && userMin == 0 && userMax == 0 {
		return neutralScore
	}
	if jobMin == 0 && jobMax == 0 {
		return 0.4 // job is silent about pay
	}
	if userMin == 0 && userMax == 0 {
		return neutralScore
	}

	jobLow, jobHigh := interval(jobMin, jobMax)
	userLow, userHigh := interval(userMin, userMax)

	overlapStart := math.Max(jobLow, userLow)
	overlapEnd := math.Min(jobHigh, userHigh)

	if overlapStart <= overlapEnd {
		jobSize := jobHigh - jobLow
		userSize := userHigh - userLow
		if jobSize == 0 || userSize == 0 {
			return 1.0 // point ranges that touch coincide
		}
		overlapSize := overlapEnd - overlapStart
		if math.IsInf(overlapSize, 1) {
			return 1.0
		}
		avgSize := (jobSize + userSize) / 2
		return math.Min(overlapSize/avgSize, 1.0)
	}

	gap := overlapStart - overlapEnd
	known := lo.Filter([]float64{jobMin, jobMax, userMin, userMax}, func(v float64, _ int) bool {
		return v > 0
	})
	avg := lo.Sum(known) / float64(len(known))
	if avg <= 0 {
		return 0
	}
	return math.Max(0, 1.0-gap/avg)
}

func salaryBound(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func interval(min, max float64) (float64, float64) {
	if max == 0 {
		max = math.Inf(1)
	}
	return min, max
}

// locationMatchScore favors remote jobs for remote-preferring users and
// substring matches between the job location and any preferred location.
func locationMatchScore(job *entities.JobListing, profile *entities.UserProfile) float64 {

	if profile == nil || len(profile.PreferredLocations) == 0 {
		return neutralScore
	}

	userLocations := lo.Map(profile.PreferredLocations, toLowerTrim)
	jobLocation := strings.ToLower(job.Location)

	remoteJob := job.RemoteType == entities.Remote || job.RemoteType == entities.Hybrid
	if lo.Contains(userLocations, "remote") && remoteJob {
		return 1.0
	}

	for _, location := range userLocations {
		if location == "" {
			continue
		}
		if strings.Contains(jobLocation, location) || strings.Contains(location, jobLocation) {
			return 1.0
		}
	}

	if job.RemoteType == entities.Hybrid {
		return 0.7
	}
	return 0.2
}

// overallScore is the fixed weighted sum of the five sub-scores, rounded to
// three decimals.
func overallScore(s subScores) float64 {
	overall := s.Semantic*semanticWeight +
		s.Skills*skillsWeight +
		s.Experience*experienceWeight +
		s.Salary*salaryWeight +
		s.Location*locationWeight
	return math.Round(overall*1000) / 1000
}

// matchReasons builds up to five human-readable explanations, ordered by the
// rule that produced them, deduplicated, never sorted by score.
func matchReasons(job *entities.JobListing, profile *entities.UserProfile, s subScores) []string {

	var reasons []string

	if s.Semantic > 0.7 {
		reasons = append(reasons, "Excellent match with your search query and interests")
	} else if s.Semantic > 0.5 {
		reasons = append(reasons, "Good alignment with your search criteria")
	}

	if s.Skills > 0.7 && profile != nil && len(profile.Skills) > 0 {
		required := lo.Map(job.SkillsRequired, toLowerTrim)
		matching := lo.Intersect(profile.SkillSet(), required)
		if len(matching) > 0 {
			shown := matching
			if len(shown) > 3 {
				shown = shown[:3]
			}
			reasons = append(reasons, fmt.Sprintf("Strong skills match: %v", strings.Join(shown, ", ")))
		}
	}

	if s.Experience > 0.8 {
		reasons = append(reasons, "Perfect experience level match")
	} else if s.Experience > 0.6 {
		reasons = append(reasons, "Good experience level alignment")
	} else if s.Experience < 0.4 && job.ExperienceLevel != "" {
		reasons = append(reasons, fmt.Sprintf("Consider this %v opportunity for growth",
			levelTitle(job.ExperienceLevel)))
	}

	if s.Salary > 0.7 {
		reasons = append(reasons, "Salary range aligns with your expectations")
	} else if s.Salary < 0.3 && job.SalaryMin != nil {
		reasons = append(reasons, "Salary may be below expectations")
	}

	if s.Location > 0.8 {
		if job.RemoteType == entities.Remote {
			reasons = append(reasons, "Fully remote position")
		} else {
			reasons = append(reasons, "Location matches your preferences")
		}
	} else if job.RemoteType == entities.Hybrid {
		reasons = append(reasons, "Hybrid work arrangement available")
	}

	if job.Company != "" {
		reasons = append(reasons, fmt.Sprintf("Opportunity at %v", job.Company))
	}

	reasons = lo.Uniq(reasons)
	if len(reasons) > 5 {
		reasons = reasons[:5]
	}
	return reasons
}

func toLowerTrim(s string, _ int) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func levelTitle(level entities.ExperienceLevel) string {
	words := strings.Split(string(level), "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
