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


// Package search provides hybrid lexical and semantic retrieval over posts.
//
// The Searcher type implements a multi-stage search algorithm that combines:
//   - Lexical search over a Bleve full-text index
//   - Semantic search over locally computed embedding vectors
//   - Min-max score fusion merging both channels into one ranking
//
// Queries are optionally enhanced by an AI reasoning service before
// retrieval; when that service is unavailable the raw query is used
// unchanged and results still rank. Filters, field sorts, pagination,
// and an audit log round out the request flow.
package search
