package tests

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobmatch/internal/entities"
	"github.com/maxaizer/jobmatch/internal/repositories"
	"github.com/maxaizer/jobmatch/internal/services"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func newEngine(t *testing.T) *services.SearchEngine {
	t.Helper()
	jobs := repositories.NewJobsRepository(dbCtx.DB)
	embeddings := services.NewEmbeddingService(hashEmbedder{})
	engine, err := services.NewSearchEngine(EventBus.New(), embeddings, jobs, 20)
	assert.NoError(t, err)
	return engine
}

func Test_Search_WithSkillFilter_ShouldOnlyReturnMatchingJobs(t *testing.T) {

	engine := newEngine(t)

	filters := &entities.SearchFilters{RequiredSkills: []string{"go"}}
	matches := engine.Search(context.Background(), "golang services", nil, filters, 10)

	ids := lo.Map(matches, func(m entities.JobMatch, _ int) string { return m.JobID })
	assert.ElementsMatch(t, []string{"go-backend-1", "go-platform-1"}, ids)
}

func Test_Search_WithSalaryFilter_ShouldRequireStatedSalaryInRange(t *testing.T) {

	engine := newEngine(t)

	filters := &entities.SearchFilters{MinSalary: lo.ToPtr(80_000.0)}
	matches := engine.Search(context.Background(), "golang services", nil, filters, 10)

	assert.Len(t, matches, 1)
	assert.Equal(t, "go-backend-1", matches[0].JobID)
}

func Test_Search_WithRemoteFilter_ShouldReturnRemoteJobsRanked(t *testing.T) {

	engine := newEngine(t)

	filters := &entities.SearchFilters{RemoteTypes: []entities.RemoteType{entities.Remote}}
	matches := engine.Search(context.Background(), "backend development", nil, filters, 10)

	assert.NotEmpty(t, matches)
	for _, match := range matches {
		assert.Equal(t, entities.Remote, match.Job.RemoteType)
	}
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].OverallScore, matches[i-1].OverallScore)
	}
}

func Test_Search_WithProfile_ShouldScoreEverySignal(t *testing.T) {

	engine := newEngine(t)

	profile := &entities.UserProfile{
		CurrentTitle:       "Backend Developer",
		Skills:             []string{"go", "postgresql", "docker"},
		ExperienceYears:    5,
		PreferredLocations: []string{"Berlin"},
		DesiredSalaryMin:   lo.ToPtr(70_000.0),
		DesiredSalaryMax:   lo.ToPtr(100_000.0),
	}

	matches := engine.Search(context.Background(), "golang backend developer", profile, nil, 10)

	match, found := lo.Find(matches, func(m entities.JobMatch) bool { return m.JobID == "go-backend-1" })
	assert.True(t, found)
	assert.Equal(t, 1.0, match.SkillsMatchScore)
	assert.Equal(t, 1.0, match.ExperienceMatchScore)
	assert.Greater(t, match.SalaryMatchScore, 0.7)
	assert.Equal(t, 1.0, match.LocationMatchScore)
	assert.NotEmpty(t, match.MatchReasons)
}

func Test_FindSimilarJobs_ShouldRankOtherJobsWithoutReference(t *testing.T) {

	engine := newEngine(t)

	matches := engine.FindSimilarJobs(context.Background(), "go-backend-1", 10)

	for _, match := range matches {
		assert.NotEqual(t, "go-backend-1", match.JobID)
		assert.Greater(t, match.SemanticScore, 0.30)
		assert.Equal(t, match.SemanticScore, match.OverallScore)
	}
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].SemanticScore, matches[i-1].SemanticScore)
	}
}

func Test_Stats_ShouldCountSeededJobs(t *testing.T) {

	engine := newEngine(t)

	stats := engine.Stats(context.Background())

	assert.Equal(t, int64(len(seedJobs)), stats.TotalJobs)
	assert.Equal(t, "hash-embedder", stats.EmbeddingModel)
	assert.Equal(t, embedderDimension, stats.EmbeddingDimension)
}

func Test_RemoveExpired_ShouldDeleteOnlyExpiredListings(t *testing.T) {

	jobs := repositories.NewJobsRepository(dbCtx.DB)

	now := time.Now()
	removed, err := jobs.RemoveExpired(context.Background(), now, now.Add(-60*24*time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := jobs.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(len(seedJobs)-1), remaining)
}
