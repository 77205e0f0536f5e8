// Package ai defines the reasoning service abstraction for sift.
//
// It declares the service interfaces (Embedder, QueryEnhancer, Summarizer,
// Annotator), the Provider aggregate, shared configuration, and the
// resilience machinery (retry with backoff, circuit breaking, degradation
// to defaults) that keeps the search path functional when the external
// service is slow, unreachable, or returns malformed output.
//
// Implementations live in subpackages:
//
//   - openai: production implementation for OpenAI-compatible chat APIs
//     (xAI, Ollama, LocalAI, vLLM)
//   - mock: test doubles with injectable behavior
//
// The deterministic embedder in package embedding also satisfies the
// Embedder interface; it is the default because post embeddings must be a
// pure function of their text.
package ai
