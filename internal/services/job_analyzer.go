package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maxaizer/jobmatch/internal/clients/llm"
	"github.com/maxaizer/jobmatch/internal/entities"
	"github.com/maxaizer/jobmatch/internal/logger"
	"github.com/maxaizer/jobmatch/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type JobAnalysis struct {
	RequiredSkills      []string `json:"required_skills"`
	SoftSkills          []string `json:"soft_skills"`
	ExperienceLevel     string   `json:"experience_level"`
	KeyResponsibilities []string `json:"key_responsibilities"`
	GrowthOpportunities []string `json:"growth_opportunities"`
	CultureIndicators   []string `json:"culture_indicators"`
	NiceToHave          []string `json:"nice_to_have"`
	DifficultyLevel     int      `json:"difficulty_level"`
}

type SkillGapReport struct {
	MissingSkills       []string          `json:"missing_skills"`
	MatchingSkills      []string          `json:"matching_skills"`
	LearningPriorities  []string          `json:"learning_priorities"`
	TimeEstimates       map[string]string `json:"time_estimates"`
	LearningSuggestions map[string]string `json:"learning_suggestions"`
	TransferableSkills  []string          `json:"transferable_skills"`
}

type ApplicationStrategy struct {
	KeySellingPoints   []string `json:"key_selling_points"`
	ConcernsToAddress  []string `json:"concerns_to_address"`
	ResumeHighlights   []string `json:"resume_highlights"`
	CoverLetterThemes  []string `json:"cover_letter_themes"`
	InterviewPrep      []string `json:"interview_prep"`
	CompanyResearch    []string `json:"company_research"`
	ApplicationTiming  string   `json:"application_timing"`
}

type ProviderInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

const analyzeJobPrompt = `You are an expert job market analyst. Analyze job postings and extract structured insights.
Respond with a single JSON object with these keys:
"required_skills" (list of strings), "soft_skills" (list of strings),
"experience_level" (string like "3-5 years"), "key_responsibilities" (list of strings),
"growth_opportunities" (list of strings), "culture_indicators" (list of strings),
"nice_to_have" (list of strings), "difficulty_level" (integer 1-10).
Respond with JSON only, no extra text.`

const explainMatchPrompt = `You are a friendly career advisor. Explain in 2-3 sentences why a job matches a candidate,
referencing their strongest signals. Be specific, encouraging and honest about weak spots. Respond with plain text.`

const skillGapsPrompt = `You are a career development coach. Compare a candidate's skills to a job's requirements.
Respond with a single JSON object with these keys:
"missing_skills" (list), "matching_skills" (list), "learning_priorities" (list ordered by importance),
"time_estimates" (object mapping skill to estimate like "2-3 months"),
"learning_suggestions" (object mapping skill to a concrete way to learn it),
"transferable_skills" (list). Respond with JSON only, no extra text.`

const applicationStrategyPrompt = `You are an expert career coach. Build an application strategy for a candidate applying to a job.
Respond with a single JSON object with these keys:
"key_selling_points" (list), "concerns_to_address" (list), "resume_highlights" (list),
"cover_letter_themes" (list), "interview_prep" (list), "company_research" (list),
"application_timing" (string). Respond with JSON only, no extra text.`

// JobAnalyzer produces natural-language analysis of jobs and matches. Every
// operation degrades to a deterministic rule-based result when no LLM is
// configured or a call fails, so callers always get a usable answer.
type JobAnalyzer struct {
	llm llm.Client
}

func NewJobAnalyzer(client llm.Client) *JobAnalyzer {
	return &JobAnalyzer{llm: client}
}

func (a *JobAnalyzer) IsAvailable() bool {
	return a.llm.Provider() != ""
}

func (a *JobAnalyzer) ProviderInfo() ProviderInfo {
	return ProviderInfo{Provider: a.llm.Provider(), Model: a.llm.Model()}
}

func (a *JobAnalyzer) AnalyzeJob(ctx context.Context, job *entities.JobListing) JobAnalysis {

	raw, err := a.generate(ctx, analyzeJobPrompt, prepareJobText(job))
	if err == nil {
		var analysis JobAnalysis
		if parseErr := parseJSONResponse(raw, &analysis); parseErr == nil {
			return analysis
		}
		log.Warnf("failed to parse job analysis response: %v", raw)
	}

	metrics.LlmFallbacksCounter.WithLabelValues("analyze_job").Inc()
	return fallbackJobAnalysis(job)
}

func (a *JobAnalyzer) ExplainMatch(ctx context.Context, match *entities.JobMatch,
	profile *entities.UserProfile) string {

	user := fmt.Sprintf("Candidate:\n%s\n\nJob:\n%s\n\nMatch scores:\n%s",
		prepareProfileText(profile), prepareJobText(&match.Job), prepareScoresText(match))

	raw, err := a.generate(ctx, explainMatchPrompt, user)
	if err == nil && strings.TrimSpace(raw) != "" {
		return strings.TrimSpace(raw)
	}

	metrics.LlmFallbacksCounter.WithLabelValues("explain_match").Inc()
	return fallbackMatchExplanation(match)
}

func (a *JobAnalyzer) SkillGaps(ctx context.Context, job *entities.JobListing,
	profile *entities.UserProfile) SkillGapReport {

	user := fmt.Sprintf("Candidate skills: %s\n\nJob:\n%s",
		strings.Join(profile.Skills, ", "), prepareJobText(job))

	raw, err := a.generate(ctx, skillGapsPrompt, user)
	if err == nil {
		var report SkillGapReport
		if parseErr := parseJSONResponse(raw, &report); parseErr == nil {
			return report
		}
		log.Warnf("failed to parse skill gaps response: %v", raw)
	}

	metrics.LlmFallbacksCounter.WithLabelValues("skill_gaps").Inc()
	return fallbackSkillGaps(job, profile)
}

func (a *JobAnalyzer) BuildApplicationStrategy(ctx context.Context, job *entities.JobListing,
	profile *entities.UserProfile) ApplicationStrategy {

	user := fmt.Sprintf("Candidate:\n%s\n\nJob:\n%s", prepareProfileText(profile), prepareJobText(job))

	raw, err := a.generate(ctx, applicationStrategyPrompt, user)
	if err == nil {
		var strategy ApplicationStrategy
		if parseErr := parseJSONResponse(raw, &strategy); parseErr == nil {
			return strategy
		}
		log.Warnf("failed to parse application strategy response: %v", raw)
	}

	metrics.LlmFallbacksCounter.WithLabelValues("application_strategy").Inc()
	return fallbackApplicationStrategy(job, profile)
}

func (a *JobAnalyzer) generate(ctx context.Context, system, user string) (string, error) {

	if !a.IsAvailable() {
		return "", llm.ErrUnavailable
	}

	metrics.LlmRequestsCounter.WithLabelValues(a.llm.Provider()).Inc()

	response, err := a.llm.Generate(ctx, system, user)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeLlmApi).
			Errorf("llm request to %v failed: %v", a.llm.Provider(), err)
		return "", err
	}
	return response, nil
}

// parseJSONResponse tolerates markdown code fences around the JSON body.
func parseJSONResponse(raw string, out any) error {

	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return json.Unmarshal([]byte(cleaned), out)
}

func fallbackJobAnalysis(job *entities.JobListing) JobAnalysis {

	skills := job.SkillsRequired
	if len(skills) > 5 {
		skills = skills[:5]
	}
	responsibilities := job.Responsibilities
	if len(responsibilities) > 3 {
		responsibilities = responsibilities[:3]
	}

	return JobAnalysis{
		RequiredSkills:      skills,
		SoftSkills:          []string{"Communication", "Problem Solving", "Teamwork"},
		ExperienceLevel:     "3-5 years",
		KeyResponsibilities: responsibilities,
		GrowthOpportunities: []string{"Career advancement opportunities"},
		CultureIndicators:   []string{"Professional environment"},
		NiceToHave:          job.SkillsPreferred,
		DifficultyLevel:     5,
	}
}

func fallbackMatchExplanation(match *entities.JobMatch) string {

	switch {
	case match.OverallScore >= 0.7:
		return fmt.Sprintf("This %v position at %v is an excellent match for your skills and experience. "+
			"Your background aligns well with their requirements.", match.JobTitle, match.Company)
	case match.OverallScore >= 0.5:
		return fmt.Sprintf("This %v role at %v is a good potential match. "+
			"While not perfect, it offers solid alignment with your profile.", match.JobTitle, match.Company)
	default:
		return fmt.Sprintf("This %v position at %v could be a growth opportunity, "+
			"though it may require developing some new skills.", match.JobTitle, match.Company)
	}
}

func fallbackSkillGaps(job *entities.JobListing, profile *entities.UserProfile) SkillGapReport {

	userSkills := lo.Map(profile.Skills, toLowerTrim)
	jobSkills := lo.Map(job.SkillsRequired, toLowerTrim)

	missing := lo.Without(jobSkills, userSkills...)
	matching := lo.Intersect(jobSkills, userSkills)

	priorities := missing
	if len(priorities) > 3 {
		priorities = priorities[:3]
	}

	estimates := make(map[string]string, len(missing))
	suggestions := make(map[string]string, len(missing))
	for _, skill := range missing {
		estimates[skill] = "2-3 months"
		suggestions[skill] = "Online courses and practice projects"
	}

	return SkillGapReport{
		MissingSkills:       missing,
		MatchingSkills:      matching,
		LearningPriorities:  priorities,
		TimeEstimates:       estimates,
		LearningSuggestions: suggestions,
		TransferableSkills:  matching,
	}
}

func fallbackApplicationStrategy(job *entities.JobListing, profile *entities.UserProfile) ApplicationStrategy {

	sellingPoints := []string{"Relevant experience", "Strong skill set"}
	if profile.CurrentTitle != "" {
		sellingPoints = append(sellingPoints, fmt.Sprintf("Background as %v", profile.CurrentTitle))
	}

	return ApplicationStrategy{
		KeySellingPoints:  sellingPoints,
		ConcernsToAddress: []string{"Address any skill gaps in your cover letter"},
		ResumeHighlights:  []string{"Highlight matching skills", "Quantify achievements"},
		CoverLetterThemes: []string{"Enthusiasm for the role", "Cultural fit"},
		InterviewPrep: []string{
			"Research common interview questions",
			fmt.Sprintf("Prepare examples relevant to %v", job.Title),
		},
		CompanyResearch:   []string{fmt.Sprintf("Research %v's products and recent news", job.Company)},
		ApplicationTiming: "Apply within the next few days",
	}
}

func prepareJobText(job *entities.JobListing) string {

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %v\nCompany: %v\nLocation: %v\n", job.Title, job.Company, job.Location)
	if job.Description != "" {
		fmt.Fprintf(&b, "Description: %v\n", truncate(job.Description, 1500))
	}
	if len(job.Requirements) > 0 {
		fmt.Fprintf(&b, "Requirements: %v\n", strings.Join(job.Requirements, "; "))
	}
	if len(job.Responsibilities) > 0 {
		fmt.Fprintf(&b, "Responsibilities: %v\n", strings.Join(job.Responsibilities, "; "))
	}
	if len(job.SkillsRequired) > 0 {
		fmt.Fprintf(&b, "Required skills: %v\n", strings.Join(job.SkillsRequired, ", "))
	}
	if len(job.SkillsPreferred) > 0 {
		fmt.Fprintf(&b, "Preferred skills: %v\n", strings.Join(job.SkillsPreferred, ", "))
	}
	return b.String()
}

func prepareProfileText(profile *entities.UserProfile) string {

	if profile == nil {
		return "No profile provided"
	}

	var b strings.Builder
	if profile.CurrentTitle != "" {
		fmt.Fprintf(&b, "Current title: %v\n", profile.CurrentTitle)
	}
	if profile.ExperienceYears > 0 {
		fmt.Fprintf(&b, "Years of experience: %v\n", profile.ExperienceYears)
	}
	if len(profile.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %v\n", strings.Join(profile.Skills, ", "))
	}
	if len(profile.PreferredTitles) > 0 {
		fmt.Fprintf(&b, "Preferred titles: %v\n", strings.Join(profile.PreferredTitles, ", "))
	}
	if profile.Industry != "" {
		fmt.Fprintf(&b, "Industry: %v\n", profile.Industry)
	}
	return b.String()
}

func prepareScoresText(match *entities.JobMatch) string {
	return fmt.Sprintf("overall: %.2f, semantic: %.2f, skills: %.2f, experience: %.2f, salary: %.2f, location: %.2f",
		match.OverallScore, match.SemanticScore, match.SkillsMatchScore,
		match.ExperienceMatchScore, match.SalaryMatchScore, match.LocationMatchScore)
}
