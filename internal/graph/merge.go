package graph

import "github.com/schemalens/core/internal/models"

// MergeNodes unions nodes into dst keyed by object name. A full node always
// supersedes a shadow node, and a full node's fields are never replaced by an
// empty field set.
func MergeNodes(dst *models.Graph, nodes []models.Node) {
	for _, n := range nodes {
		existing, ok := dst.Nodes[n.Info.Name]
		if ok && !existing.IsShadow() && n.IsShadow() {
			continue
		}
		dst.Nodes[n.Info.Name] = n
	}
}

// MergeEdges unions edges into dst keyed by edge id, arbitrating conflicts by
// confidence. Precedence, first match wins:
//
//  1. a describe-sourced edge is never replaced by an inferred one
//  2. an existing master-detail edge is never downgraded by an inferred edge
//  3. otherwise the incoming edge replaces the stored one
//
// Merging the same edge set twice is a no-op on the second pass.
func MergeEdges(dst *models.Graph, edges []models.Edge) {
	for _, e := range edges {
		id := e.ID()
		existing, ok := dst.Edges[id]
		if ok {
			if existing.Provenance == models.ProvenanceDescribe && e.Provenance == models.ProvenanceInferred {
				continue
			}
			if existing.IsMasterDetail && !e.IsMasterDetail && e.Provenance == models.ProvenanceInferred {
				continue
			}
		}
		dst.Edges[id] = e
	}
}

// EnsureEndpoints adds a shadow node for every edge endpoint missing from the
// node map, so a rendered graph never dangles.
func EnsureEndpoints(dst *models.Graph) {
	for _, e := range dst.Edges {
		if _, ok := dst.Nodes[e.Source]; !ok {
			dst.Nodes[e.Source] = models.NewShadowNode(e.Source)
		}
		if _, ok := dst.Nodes[e.Target]; !ok {
			dst.Nodes[e.Target] = models.NewShadowNode(e.Target)
		}
	}
}
