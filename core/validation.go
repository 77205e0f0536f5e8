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

import (
	"fmt"
	"time"
)

// ValidatePost validates a Post according to domain rules.
//
// Validation rules:
//   - PostID must not be empty
//   - AuthorUsername must not be empty
//   - Content must not be empty
//   - Engagement counters must not be negative
//   - PostedAt must not be in the future
//   - Annotation sentiment, when present, must be a known label
//
// NOT validated (populated by the pipeline):
//   - Vector (can be empty until embedded)
//   - Annotation (nil until the annotator runs)
//   - ID (0 is valid before storage assigns one)
func ValidatePost(post *Post) error {
	if post == nil {
		return fmt.Errorf("%w: post is nil", ErrInvalidPost)
	}

	if post.PostID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPost, ErrEmptyPostID)
	}

	if post.AuthorUsername == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPost, ErrEmptyAuthor)
	}

	if post.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPost, ErrEmptyContent)
	}

	if post.Likes < 0 || post.Retweets < 0 || post.Replies < 0 || post.Views < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPost, ErrNegativeEngagement)
	}

	if !IsValidTimestamp(post.PostedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidPost, ErrInvalidTimestamp)
	}

	if post.Annotation != nil {
		if err := ValidateSentiment(post.Annotation.Sentiment); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPost, err)
		}
	}

	return nil
}

// ValidateSentiment validates that a sentiment label is one of the known set.
func ValidateSentiment(sentiment string) error {
	for _, s := range Sentiments {
		if sentiment == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidSentiment, sentiment)
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
// Zero timestamps are valid; some sources do not report publication time.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
