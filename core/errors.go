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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPost indicates a Post failed validation.
	ErrInvalidPost = errors.New("invalid post")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyPostID indicates the PostID field is empty.
	ErrEmptyPostID = errors.New("post id cannot be empty")

	// ErrEmptyAuthor indicates the AuthorUsername field is empty.
	ErrEmptyAuthor = errors.New("author username cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrInvalidSentiment indicates a sentiment label outside the known set.
	ErrInvalidSentiment = errors.New("invalid sentiment label")

	// ErrNegativeEngagement indicates a negative engagement counter.
	ErrNegativeEngagement = errors.New("engagement counters cannot be negative")
)

// Search request errors
var (
	// ErrEmptyQuery indicates a query with no usable terms after normalization.
	// Callers degrade to an unscored listing rather than failing the request.
	ErrEmptyQuery = errors.New("query has no usable terms")

	// ErrInvalidLimit indicates a non-positive result limit.
	// This is a programming-contract violation and fails the request.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrInvalidOffset indicates a negative pagination offset.
	ErrInvalidOffset = errors.New("offset cannot be negative")

	// ErrInvalidSearchMode indicates an unrecognized search mode.
	ErrInvalidSearchMode = errors.New("invalid search mode")

	// ErrInvalidSortField indicates an unrecognized sort field.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrInvalidSortOrder indicates an unrecognized sort order.
	ErrInvalidSortOrder = errors.New("invalid sort order")
)
