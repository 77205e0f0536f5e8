// Package ingestion provides pipeline orchestration for adding posts.
//
// The Pipeline type manages the ingestion workflow for posts, including:
//   - Validating and storing posts
//   - Computing embeddings synchronously so search sees them immediately
//   - Indexing both the lexical and semantic channels
//   - Annotating posts asynchronously and reindexing on completion
//
// Annotation runs on a worker pool; annotation failures are logged and
// leave the post unannotated rather than failing the ingest.
package ingestion
