package mapping

import "github.com/poiesic/medquery/core"

// MapMonitor provides hooks to observe the mapping pipeline.
// Implement this interface to track the candidate pool as each stage runs.
type MapMonitor interface {
	Start(query string)
	AfterExternalMatcher(pool []core.ConceptMatch)
	AfterSynonymScan(pool []core.ConceptMatch)
	AfterLayScan(pool []core.ConceptMatch)
	AfterLookup(pool []core.ConceptMatch)
	Finish(result *core.MappingResult)
}

// noopMonitor is a no-op implementation of MapMonitor
type noopMonitor struct{}

var _ MapMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterExternalMatcher(_ []core.ConceptMatch) {}
func (n *noopMonitor) AfterSynonymScan(_ []core.ConceptMatch)     {}
func (n *noopMonitor) AfterLayScan(_ []core.ConceptMatch)         {}
func (n *noopMonitor) AfterLookup(_ []core.ConceptMatch)          {}
func (n *noopMonitor) Finish(_ *core.MappingResult)               {}
