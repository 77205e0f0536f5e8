// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/poiesic/sift/core"
)

// Dim is the fixed embedding dimensionality.
const Dim = 128

// Character n-grams contribute at half the weight of whole tokens.
const ngramWeight = 0.5

// Embedder generates deterministic hash-based embeddings.
// It is stateless and safe for concurrent use.
type Embedder struct{}

// NewEmbedder creates a new deterministic embedder.
func NewEmbedder() *Embedder {
	return &Embedder{}
}

// EmbedText generates the embedding for a single text string.
// Empty or whitespace-only text yields the zero vector. The error return
// exists only to satisfy the embedder contract; it is always nil.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return Embed(text), nil
}

// EmbedTexts generates embeddings for multiple texts in input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = Embed(text)
	}
	return vectors, nil
}

// Embed maps text to a 128-dimension unit vector.
//
// Construction: lowercase and split into tokens, hash each token into one
// of 128 buckets with a signed weight, mix in character trigram features
// at half weight, then L2-normalize. Empty input yields the zero vector.
func Embed(text string) []float32 {
	vector := make([]float32, Dim)

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return vector
	}

	for _, token := range strings.Fields(text) {
		accumulate(vector, token, 1.0)
	}
	for _, gram := range trigrams(text) {
		accumulate(vector, gram, ngramWeight)
	}

	normalize(vector)
	return vector
}

// EmbeddingText composes the text a post is embedded from: its content
// plus the searchable annotation fields when present. Re-annotating a
// post therefore changes its vector.
func EmbeddingText(post *core.Post) string {
	if post.Annotation == nil {
		return post.Content
	}
	parts := []string{post.Content, post.Annotation.Description}
	parts = append(parts, post.Annotation.Topics...)
	parts = append(parts, post.Annotation.Entities...)
	return strings.Join(parts, " ")
}

// accumulate adds a signed feature weight to the bucket the feature
// hashes into. FNV-1a is stable across runs and platforms.
func accumulate(vector []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := sum % Dim
	// Use a high hash bit for the sign so bucket choice and sign are
	// independent.
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vector[bucket] += weight
}

// trigrams extracts overlapping character 3-grams from text.
func trigrams(text string) []string {
	runes := []rune(text)
	if len(runes) < 3 {
		return nil
	}
	grams := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+3]))
	}
	return grams
}

// normalize scales the vector to unit length in place.
// A zero vector is left untouched.
func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vector {
		vector[i] /= norm
	}
}

// Dot computes the dot product of two vectors. For unit vectors this
// equals their cosine similarity.
func Dot(a, b []float32) float32 {
	var sum float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineSimilarity computes cosine similarity in [-1, 1].
// Similarity against a zero vector is defined as 0, never NaN.
func CosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
