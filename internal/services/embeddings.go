package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strings"

	"github.com/maxaizer/jobmatch/internal/entities"
	"github.com/maxaizer/jobmatch/internal/logger"
	"github.com/maxaizer/jobmatch/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

type embeddingClient interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
	Dimension() int
}

type ModelInfo struct {
	Name      string
	Dimension int
}

// SimilarityHit is one entry of a top-k ranking: the candidate's position in
// the input slice and its cosine similarity to the query.
type SimilarityHit struct {
	Index int
	Score float64
}

// EmbeddingService turns free text, jobs and profiles into fixed-dimension
// vectors. Vectors are cached by a hash of the normalized text, so identical
// text never hits the model twice. A model failure degrades to the zero
// vector instead of propagating: scoring must keep working, just without a
// semantic signal for the affected text.
type EmbeddingService struct {
	client embeddingClient
	cache  *gocache.Cache
}

func NewEmbeddingService(client embeddingClient) *EmbeddingService {
	return &EmbeddingService{
		client: client,
		cache:  gocache.New(gocache.NoExpiration, 0),
	}
}

func (s *EmbeddingService) ModelInfo() ModelInfo {
	return ModelInfo{Name: s.client.ModelName(), Dimension: s.client.Dimension()}
}

// Embed returns the vector for a single text. Empty or whitespace-only text
// maps to the zero vector without a model call.
func (s *EmbeddingService) Embed(ctx context.Context, text string) []float32 {

	text = strings.TrimSpace(text)
	if text == "" {
		return s.zeroVector()
	}

	cacheKey := embeddingCacheKey(text)
	if cached, found := s.cache.Get(cacheKey); found {
		metrics.EmbeddingCacheHits.Inc()
		return cached.([]float32)
	}
	metrics.EmbeddingCacheMisses.Inc()

	vector, err := s.client.EmbedText(ctx, text)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeEmbedApi).
			Errorf("failed to embed text %q: %v", truncate(text, 100), err)
		return s.zeroVector()
	}

	s.cache.Set(cacheKey, vector, gocache.NoExpiration)
	return vector
}

// EmbedBatch embeds many texts with one model call for the uncached subset.
// The returned slice matches the input order exactly.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) [][]float32 {

	vectors := make([][]float32, len(texts))
	var toEmbed []string
	var toEmbedIndices []int

	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			vectors[i] = s.zeroVector()
			continue
		}
		if cached, found := s.cache.Get(embeddingCacheKey(text)); found {
			metrics.EmbeddingCacheHits.Inc()
			vectors[i] = cached.([]float32)
			continue
		}
		metrics.EmbeddingCacheMisses.Inc()
		toEmbed = append(toEmbed, text)
		toEmbedIndices = append(toEmbedIndices, i)
	}

	if len(toEmbed) == 0 {
		return vectors
	}

	log.Infof("generating embeddings for %v texts", len(toEmbed))

	batch, err := s.client.EmbedBatch(ctx, toEmbed)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeEmbedApi).
			Errorf("batch embedding failed: %v", err)
		for _, i := range toEmbedIndices {
			vectors[i] = s.zeroVector()
		}
		return vectors
	}

	for pos, vector := range batch {
		vectors[toEmbedIndices[pos]] = vector
		s.cache.Set(embeddingCacheKey(toEmbed[pos]), vector, gocache.NoExpiration)
	}
	return vectors
}

// EmbedJob embeds the combined job text. The title is repeated to weight it
// above the body text.
func (s *EmbeddingService) EmbedJob(ctx context.Context, job *entities.JobListing) []float32 {
	return s.Embed(ctx, JobText(job))
}

// EmbedProfile embeds the combined profile text, with the current title
// weighted above the rest.
func (s *EmbeddingService) EmbedProfile(ctx context.Context, profile *entities.UserProfile) []float32 {
	return s.Embed(ctx, ProfileText(profile))
}

// Similarity is cosine similarity clamped to [0,1]. Zero vectors score 0.0
// rather than producing a division error.
func (s *EmbeddingService) Similarity(a, b []float32) float64 {

	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(1, math.Max(0, similarity))
}

// FindMostSimilar ranks candidates against the query vector, descending by
// similarity with ties kept in input order. A nil candidate keeps its index
// and scores 0.0.
func (s *EmbeddingService) FindMostSimilar(query []float32, candidates [][]float32, topK int) []SimilarityHit {

	if len(candidates) == 0 || topK <= 0 {
		return nil
	}

	hits := make([]SimilarityHit, len(candidates))
	for i, candidate := range candidates {
		score := 0.0
		if candidate != nil {
			score = s.Similarity(query, candidate)
		}
		hits[i] = SimilarityHit{Index: i, Score: score}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits
}

func (s *EmbeddingService) ClearCache() {
	s.cache.Flush()
	log.Info("embedding cache cleared")
}

func (s *EmbeddingService) CachedVectors() int {
	return s.cache.ItemCount()
}

func (s *EmbeddingService) zeroVector() []float32 {
	return make([]float32, s.client.Dimension())
}

func isZeroVector(vector []float32) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}

// JobText composes the text a job is embedded from: title (tripled),
// description, requirements, responsibilities and skills, skipping empty parts.
func JobText(job *entities.JobListing) string {

	var parts []string
	appendPart := func(text string) {
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	if job.Title != "" {
		for i := 0; i < 3; i++ {
			appendPart(job.Title)
		}
	}
	appendPart(job.Description)
	appendPart(strings.Join(job.Requirements, " "))
	appendPart(strings.Join(job.Responsibilities, " "))
	appendPart(strings.Join(job.SkillsRequired, ", "))
	appendPart(strings.Join(job.SkillsPreferred, ", "))

	return strings.Join(parts, " ")
}

// ProfileText composes the text a profile is embedded from: current title
// (doubled), preferred titles, skills and industry.
func ProfileText(profile *entities.UserProfile) string {

	var parts []string
	appendPart := func(text string) {
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	if profile.CurrentTitle != "" {
		appendPart(profile.CurrentTitle)
		appendPart(profile.CurrentTitle)
	}
	for _, title := range profile.PreferredTitles {
		appendPart(title)
	}
	appendPart(strings.Join(profile.Skills, ", "))
	appendPart(profile.Industry)

	return strings.Join(parts, " ")
}

func embeddingCacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
