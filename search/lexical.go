package search

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/poiesic/sift/core"
)

// Field boosts for lexical matching. Content matches outrank matches
// that only hit annotation topics.
const (
	contentBoost     = 2.0
	descriptionBoost = 1.5
	topicBoost       = 1.0
	authorBoost      = 1.0
)

// LexicalIndex wraps an in-memory Bleve full-text index over posts.
// The index is a projection of the post store: it is rebuilt at open
// and kept in step with every post mutation.
type LexicalIndex struct {
	index bleve.Index
}

// lexicalDocument is the shape of a post inside the Bleve index.
type lexicalDocument struct {
	Content     string
	Description string
	Topics      []string
	Author      string
}

// NewLexicalIndex creates an empty in-memory lexical index.
func NewLexicalIndex() (*LexicalIndex, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &LexicalIndex{index: idx}, nil
}

// buildIndexMapping creates the index mapping for post documents.
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "en" // English analyzer for better stemming

	keywordFieldMapping := bleve.NewTextFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)
	docMapping.AddFieldMappingsAt("Description", textFieldMapping)
	docMapping.AddFieldMappingsAt("Topics", textFieldMapping)
	docMapping.AddFieldMappingsAt("Author", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the index.
func (l *LexicalIndex) Close() error {
	return l.index.Close()
}

// Index adds or updates a post in the index.
func (l *LexicalIndex) Index(post *core.Post) error {
	doc := lexicalDocument{
		Content: post.Content,
		Author:  strings.ToLower(post.AuthorUsername),
	}
	if post.Annotation != nil {
		doc.Description = post.Annotation.Description
		doc.Topics = post.Annotation.Topics
	}
	return l.index.Index(docID(post.Id), doc)
}

// Reindex is an alias for Index; Bleve replaces documents on re-add.
func (l *LexicalIndex) Reindex(post *core.Post) error {
	return l.Index(post)
}

// Remove deletes a post from the index.
func (l *LexicalIndex) Remove(id core.ID) error {
	return l.index.Delete(docID(id))
}

// Count returns the number of indexed posts.
func (l *LexicalIndex) Count() (uint64, error) {
	return l.index.DocCount()
}

// Query runs a search expression against the index and returns up to
// limit scored post IDs, best first with ties broken by id ascending.
// An expression with no usable terms returns core.ErrEmptyQuery.
func (l *LexicalIndex) Query(expr string, limit int) ([]Scored, error) {
	clauses := parseExpression(expr)
	if len(clauses) == 0 {
		return nil, core.ErrEmptyQuery
	}

	req := bleve.NewSearchRequestOptions(buildQuery(clauses), limit, 0, false)
	results, err := l.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	scored := make([]Scored, 0, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		scored = append(scored, Scored{Id: core.ID(id), Score: hit.Score})
	}

	slices.SortFunc(scored, compareScored)
	return scored, nil
}

// buildQuery converts parsed clauses into a Bleve query tree.
// Clauses are alternatives; within a clause every term and phrase must
// match, each against any of the boosted fields.
func buildQuery(clauses []clause) query.Query {
	alternatives := make([]query.Query, 0, len(clauses))
	for _, c := range clauses {
		var musts []query.Query
		for _, term := range c.terms {
			musts = append(musts, anyFieldMatch(term))
		}
		for _, phrase := range c.phrases {
			musts = append(musts, anyFieldPhrase(phrase))
		}
		if len(musts) == 1 {
			alternatives = append(alternatives, musts[0])
			continue
		}
		alternatives = append(alternatives, bleve.NewConjunctionQuery(musts...))
	}
	if len(alternatives) == 1 {
		return alternatives[0]
	}
	return bleve.NewDisjunctionQuery(alternatives...)
}

// anyFieldMatch matches a single term against every searchable field
// with its boost.
func anyFieldMatch(term string) query.Query {
	content := bleve.NewMatchQuery(term)
	content.SetField("Content")
	content.SetBoost(contentBoost)

	description := bleve.NewMatchQuery(term)
	description.SetField("Description")
	description.SetBoost(descriptionBoost)

	topics := bleve.NewMatchQuery(term)
	topics.SetField("Topics")
	topics.SetBoost(topicBoost)

	author := bleve.NewMatchQuery(term)
	author.SetField("Author")
	author.SetBoost(authorBoost)

	return bleve.NewDisjunctionQuery(content, description, topics, author)
}

// anyFieldPhrase matches a phrase against the prose fields.
func anyFieldPhrase(phrase string) query.Query {
	content := bleve.NewMatchPhraseQuery(phrase)
	content.SetField("Content")
	content.SetBoost(contentBoost)

	description := bleve.NewMatchPhraseQuery(phrase)
	description.SetField("Description")
	description.SetBoost(descriptionBoost)

	return bleve.NewDisjunctionQuery(content, description)
}

// docID formats a post ID as a Bleve document ID.
func docID(id core.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}
