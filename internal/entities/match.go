package entities

// JobMatch is the ranked result of scoring one job against a query and an
// optional profile. All scores are in [0,1]. Matches are computed per search
// invocation and never persisted.
type JobMatch struct {
	JobID                string     `json:"job_id"`
	JobTitle             string     `json:"job_title"`
	Company              string     `json:"company"`
	Location             string     `json:"location"`
	SemanticScore        float64    `json:"semantic_score"`
	SkillsMatchScore     float64    `json:"skills_match_score"`
	ExperienceMatchScore float64    `json:"experience_match_score"`
	SalaryMatchScore     float64    `json:"salary_match_score"`
	LocationMatchScore   float64    `json:"location_match_score"`
	OverallScore         float64    `json:"overall_score"`
	MatchReasons         []string   `json:"match_reasons"`
	Job                  JobListing `json:"raw_job_data"`
}
