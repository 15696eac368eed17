package tests

import (
	"context"
	"crypto/sha256"
)

const embedderDimension = 16

// hashEmbedder stands in for the real embedding model: deterministic
// pseudo-vectors derived from a hash of the text, identical text always
// yielding identical vectors.
type hashEmbedder struct{}

func (e hashEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	return textVector(text), nil
}

func (e hashEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = textVector(text)
	}
	return vectors, nil
}

func (e hashEmbedder) ModelName() string { return "hash-embedder" }

func (e hashEmbedder) Dimension() int { return embedderDimension }

func textVector(text string) []float32 {
	hash := sha256.Sum256([]byte(text))
	vector := make([]float32, embedderDimension)
	for i := range vector {
		vector[i] = float32(hash[i])/255.0 + 0.01
	}
	return vector
}
