package services

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/maxaizer/jobmatch/internal/entities"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const mockDimension = 8

// mockEmbedder produces deterministic pseudo-vectors from a hash of the text,
// so the same text always maps to the same vector and different texts almost
// never collide.
type mockEmbedder struct {
	singleCalls int
	batchCalls  int
	failWith    error
}

func (m *mockEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	m.singleCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	return hashVector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors, nil
}

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

func (m *mockEmbedder) Dimension() int { return mockDimension }

func hashVector(text string) []float32 {
	hash := sha256.Sum256([]byte(text))
	vector := make([]float32, mockDimension)
	for i := range vector {
		vector[i] = float32(hash[i])/255.0 + 0.01
	}
	return vector
}

func Test_Embed_WhenTextBlank_ShouldReturnZeroVectorWithoutModelCall(t *testing.T) {

	embedder := &mockEmbedder{}
	service := NewEmbeddingService(embedder)

	for _, text := range []string{"", "   ", "\n\t"} {
		vector := service.Embed(context.Background(), text)
		assert.Len(t, vector, mockDimension)
		assert.True(t, isZeroVector(vector))
	}
	assert.Equal(t, 0, embedder.singleCalls)
}

func Test_Embed_WhenCalledTwiceWithSameText_ShouldUseCache(t *testing.T) {

	embedder := &mockEmbedder{}
	service := NewEmbeddingService(embedder)

	first := service.Embed(context.Background(), "golang developer")
	second := service.Embed(context.Background(), "golang developer")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, embedder.singleCalls)
	assert.Equal(t, 1, service.CachedVectors())
}

func Test_Embed_WhenModelFails_ShouldReturnZeroVector(t *testing.T) {

	embedder := &mockEmbedder{failWith: errors.New("api down")}
	service := NewEmbeddingService(embedder)

	vector := service.Embed(context.Background(), "golang developer")

	assert.Len(t, vector, mockDimension)
	assert.True(t, isZeroVector(vector))
	assert.Equal(t, 0, service.CachedVectors())
}

func Test_EmbedBatch_ShouldPreserveInputOrder(t *testing.T) {

	embedder := &mockEmbedder{}
	service := NewEmbeddingService(embedder)

	cached := service.Embed(context.Background(), "already cached")

	texts := []string{"first", "", "already cached", "second"}
	vectors := service.EmbedBatch(context.Background(), texts)

	assert.Len(t, vectors, 4)
	assert.Equal(t, hashVector("first"), vectors[0])
	assert.True(t, isZeroVector(vectors[1]))
	assert.Equal(t, cached, vectors[2])
	assert.Equal(t, hashVector("second"), vectors[3])
	assert.Equal(t, 1, embedder.batchCalls)
}

func Test_EmbedBatch_WhenModelFails_ShouldZeroFillUncachedEntries(t *testing.T) {

	embedder := &mockEmbedder{}
	service := NewEmbeddingService(embedder)

	cached := service.Embed(context.Background(), "already cached")
	embedder.failWith = errors.New("api down")

	vectors := service.EmbedBatch(context.Background(), []string{"new text", "already cached"})

	assert.True(t, isZeroVector(vectors[0]))
	assert.Equal(t, cached, vectors[1])
}

func Test_Similarity_WhenVectorsIdentical_ShouldBeOne(t *testing.T) {

	service := NewEmbeddingService(&mockEmbedder{})
	vector := hashVector("some text")

	assert.InDelta(t, 1.0, service.Similarity(vector, vector), 0.0001)
}

func Test_Similarity_ShouldBeSymmetric(t *testing.T) {

	service := NewEmbeddingService(&mockEmbedder{})
	a, b := hashVector("text a"), hashVector("text b")

	assert.Equal(t, service.Similarity(a, b), service.Similarity(b, a))
}

func Test_Similarity_WhenVectorDegenerate_ShouldBeZero(t *testing.T) {

	service := NewEmbeddingService(&mockEmbedder{})
	vector := hashVector("some text")

	assert.Equal(t, 0.0, service.Similarity(vector, make([]float32, mockDimension)))
	assert.Equal(t, 0.0, service.Similarity(vector, nil))
	assert.Equal(t, 0.0, service.Similarity(vector, make([]float32, mockDimension+1)))
}

func Test_FindMostSimilar_ShouldRankDescendingAndTruncate(t *testing.T) {

	service := NewEmbeddingService(&mockEmbedder{})
	query := hashVector("golang backend developer")

	candidates := [][]float32{
		hashVector("senior golang backend developer"),
		nil,
		query,
		hashVector("pastry chef"),
	}

	hits := service.FindMostSimilar(query, candidates, 3)

	assert.Len(t, hits, 3)
	assert.Equal(t, 2, hits[0].Index)
	assert.InDelta(t, 1.0, hits[0].Score, 0.0001)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Score, hits[i-1].Score)
	}
}

func Test_FindMostSimilar_WhenNoCandidates_ShouldReturnNil(t *testing.T) {

	service := NewEmbeddingService(&mockEmbedder{})

	assert.Nil(t, service.FindMostSimilar(hashVector("query"), nil, 5))
	assert.Nil(t, service.FindMostSimilar(hashVector("query"), [][]float32{hashVector("a")}, 0))
}

func Test_ClearCache_ShouldDropAllCachedVectors(t *testing.T) {

	embedder := &mockEmbedder{}
	service := NewEmbeddingService(embedder)

	service.Embed(context.Background(), "one")
	service.Embed(context.Background(), "two")
	assert.Equal(t, 2, service.CachedVectors())

	service.ClearCache()

	assert.Equal(t, 0, service.CachedVectors())
	service.Embed(context.Background(), "one")
	assert.Equal(t, 3, embedder.singleCalls)
}

func Test_JobText_ShouldTripleTitleAndSkipEmptyParts(t *testing.T) {

	job := &entities.JobListing{
		Title:          "Go Developer",
		Description:    "Build services",
		SkillsRequired: []string{"go", "sql"},
	}

	text := JobText(job)

	assert.Equal(t, "Go Developer Go Developer Go Developer Build services go, sql", text)
}

func Test_ProfileText_ShouldDoubleCurrentTitle(t *testing.T) {

	profile := &entities.UserProfile{
		CurrentTitle:    "Backend Engineer",
		PreferredTitles: []string{"Platform Engineer"},
		Skills:          []string{"go", "kafka"},
		Industry:        "fintech",
	}

	text := ProfileText(profile)

	assert.Equal(t, "Backend Engineer Backend Engineer Platform Engineer go, kafka fintech", text)
}
