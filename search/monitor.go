package search

import "github.com/poiesic/sift/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterEnhancement(analysis *core.QueryAnalysis)
	AfterLexicalSearch(hits []Scored)
	AfterSemanticSearch(hits []Scored)
	AfterFusion(fused []Fused)
	AfterHydration(posts []*core.Post)
	AfterFiltering(remaining int)
	Finish(result *core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterEnhancement(_ *core.QueryAnalysis) {}
func (n *noopMonitor) AfterLexicalSearch(_ []Scored)          {}
func (n *noopMonitor) AfterSemanticSearch(_ []Scored)         {}
func (n *noopMonitor) AfterFusion(_ []Fused)                  {}
func (n *noopMonitor) AfterHydration(_ []*core.Post)          {}
func (n *noopMonitor) AfterFiltering(_ int)                   {}
func (n *noopMonitor) Finish(_ *core.SearchResult)            {}
