// Package openai provides AI services backed by OpenAI-compatible chat
// APIs, including local engines such as Ollama and llama.cpp that speak
// the same protocol.
//
// The provider supplies query enhancement, result summarization,
// question answering, and post annotation via chat completions in JSON
// mode. Embeddings are deliberately not remote: the provider hands out
// the deterministic local embedder so stored vectors never depend on an
// external model's availability or version.
package openai
