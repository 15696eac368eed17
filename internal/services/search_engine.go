package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobmatch/internal/entities"
	"github.com/maxaizer/jobmatch/internal/events"
	"github.com/maxaizer/jobmatch/internal/logger"
	"github.com/maxaizer/jobmatch/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// similarityFloor is the minimum cosine similarity for a job to count as
// "similar" in FindSimilarJobs.
const similarityFloor = 0.30

type jobRepository interface {
	GetByID(ctx context.Context, id string) (*entities.JobListing, error)
	GetFiltered(ctx context.Context, filters *entities.SearchFilters) ([]entities.JobListing, error)
	Count(ctx context.Context) (int64, error)
}

type SearchStats struct {
	TotalJobs          int64  `json:"total_jobs"`
	EmbeddingModel     string `json:"embedding_model"`
	EmbeddingDimension int    `json:"embedding_dimension"`
	CachedVectors      int    `json:"cached_vectors"`
}

// SearchEngine ranks job listings against a query and an optional profile.
// Filters narrow the candidate set before anything is embedded; filtered-out
// jobs never cost a model call. Search and FindSimilarJobs always return a
// (possibly empty) list: input errors and collaborator failures are logged
// and degraded, never surfaced to the web layer.
type SearchEngine struct {
	jobs         jobRepository
	embeddings   *EmbeddingService
	defaultLimit int
}

func NewSearchEngine(bus EventBus.Bus, embeddings *EmbeddingService, jobs jobRepository,
	defaultLimit int) (*SearchEngine, error) {

	if defaultLimit <= 0 {
		defaultLimit = 20
	}

	e := &SearchEngine{
		jobs:         jobs,
		embeddings:   embeddings,
		defaultLimit: defaultLimit,
	}

	err := bus.Subscribe(events.ListingsExpiredTopic, e.onListingsExpired)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// Search embeds the query and profile once, scores every candidate surviving
// the filters and returns the top matches by overall score.
func (e *SearchEngine) Search(ctx context.Context, query string, profile *entities.UserProfile,
	filters *entities.SearchFilters, limit int) []entities.JobMatch {

	start := time.Now()
	metrics.SearchesCounter.Inc()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		limit = e.defaultLimit
	}

	if filters != nil {
		if err := filters.Validate(); err != nil {
			log.Errorf("invalid search filters: %v", err)
			return []entities.JobMatch{}
		}
	}

	candidates, err := e.jobs.GetFiltered(ctx, filters)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get candidate jobs: %v", err)
		return []entities.JobMatch{}
	}
	if len(candidates) == 0 {
		log.Info("no jobs found matching filters")
		return []entities.JobMatch{}
	}
	log.Infof("found %v jobs matching filters", len(candidates))

	embedStart := time.Now()
	queryVector := e.embeddings.Embed(ctx, query)
	if isZeroVector(queryVector) && profile != nil {
		// Blank query: fall back to the profile as the semantic anchor.
		queryVector = e.embeddings.EmbedProfile(ctx, profile)
	}
	metrics.SearchStepDuration.WithLabelValues("query_embedding").Observe(time.Since(embedStart).Seconds())

	scoreStart := time.Now()
	matches := make([]entities.JobMatch, 0, len(candidates))
	for i := range candidates {
		match, err := e.matchJob(ctx, &candidates[i], queryVector, profile)
		if err != nil {
			metrics.SkippedCandidatesCounter.Inc()
			log.Errorf("failed to score job %v: %v", candidates[i].ID, err)
			continue
		}
		matches = append(matches, match)
	}
	metrics.SearchStepDuration.WithLabelValues("scoring").Observe(time.Since(scoreStart).Seconds())

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].OverallScore > matches[j].OverallScore
	})

	log.Infof("generated %v job matches", len(matches))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// FindSimilarJobs ranks every other listing by cosine similarity to the
// reference job. Profile-dependent sub-scores stay zero here and the overall
// score equals the semantic one.
func (e *SearchEngine) FindSimilarJobs(ctx context.Context, jobID string, limit int) []entities.JobMatch {

	if limit <= 0 {
		limit = e.defaultLimit
	}

	reference, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get job %v: %v", jobID, err)
		return []entities.JobMatch{}
	}
	if reference == nil {
		log.Warnf("job %v not found", jobID)
		return []entities.JobMatch{}
	}

	referenceVector := e.embeddings.EmbedJob(ctx, reference)

	candidates, err := e.jobs.GetFiltered(ctx, nil)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get candidate jobs: %v", err)
		return []entities.JobMatch{}
	}

	var matches []entities.JobMatch
	for i := range candidates {
		job := &candidates[i]
		if job.ID == jobID {
			continue
		}

		similarity := e.embeddings.Similarity(referenceVector, e.embeddings.EmbedJob(ctx, job))
		if similarity <= similarityFloor {
			continue
		}

		matches = append(matches, entities.JobMatch{
			JobID:         job.ID,
			JobTitle:      job.Title,
			Company:       job.Company,
			Location:      displayLocation(job),
			SemanticScore: similarity,
			OverallScore:  similarity,
			MatchReasons:  []string{fmt.Sprintf("Similar to %v at %v", reference.Title, reference.Company)},
			Job:           *job,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SemanticScore > matches[j].SemanticScore
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []entities.JobMatch{}
	}
	return matches
}

// Stats reports aggregate numbers the web layer shows on its dashboard.
func (e *SearchEngine) Stats(ctx context.Context) SearchStats {

	total, err := e.jobs.Count(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to count jobs: %v", err)
	}

	info := e.embeddings.ModelInfo()
	return SearchStats{
		TotalJobs:          total,
		EmbeddingModel:     info.Name,
		EmbeddingDimension: info.Dimension,
		CachedVectors:      e.embeddings.CachedVectors(),
	}
}

func (e *SearchEngine) matchJob(ctx context.Context, job *entities.JobListing,
	queryVector []float32, profile *entities.UserProfile) (match entities.JobMatch, err error) {

	// A single bad candidate must not abort the whole search.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()

	jobVector := e.embeddings.EmbedJob(ctx, job)

	scores := subScores{
		Semantic:   e.embeddings.Similarity(queryVector, jobVector),
		Skills:     skillsMatchScore(job, profile),
		Experience: experienceMatchScore(job, profile),
		Salary:     salaryMatchScore(job, profile),
		Location:   locationMatchScore(job, profile),
	}

	return entities.JobMatch{
		JobID:                job.ID,
		JobTitle:             job.Title,
		Company:              job.Company,
		Location:             displayLocation(job),
		SemanticScore:        scores.Semantic,
		SkillsMatchScore:     scores.Skills,
		ExperienceMatchScore: scores.Experience,
		SalaryMatchScore:     scores.Salary,
		LocationMatchScore:   scores.Location,
		OverallScore:         overallScore(scores),
		MatchReasons:         matchReasons(job, profile, scores),
		Job:                  *job,
	}, nil
}

func (e *SearchEngine) onListingsExpired(event events.ListingsExpired) {
	if event.Removed > 0 {
		log.Infof("%v listings expired, flushing embedding cache", event.Removed)
		e.embeddings.ClearCache()
	}
}

func displayLocation(job *entities.JobListing) string {
	if job.Location == "" {
		return "Not specified"
	}
	return job.Location
}
