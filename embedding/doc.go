// Package embedding generates deterministic vector embeddings for post text.
//
// The embedder is a pure function: it maps text to a fixed-length
// 128-dimension vector using stable token hashing, with no external model
// dependency and no randomness. Identical input always yields a
// bit-identical vector, which makes re-embedding detection and test
// reproducibility trivial.
//
// All non-zero vectors are L2-normalized onto the unit hypersphere, so
// cosine similarity reduces to a plain dot product and scores are bounded
// to [-1, 1].
package embedding
