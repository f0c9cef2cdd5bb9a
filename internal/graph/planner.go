package graph

import (
	"sort"

	"github.com/schemalens/core/internal/models"
)

// PlanFetch computes the objects that must be described before the graph can
// answer "what is directly connected to root". When the root itself has never
// been fully described its neighbor set is unknowable, so the plan is the root
// alone; the caller replans after that fetch lands. The result is sorted for
// deterministic batching.
func PlanFetch(root string, g *models.Graph) []string {
	node, ok := g.Nodes[root]
	if !ok || node.IsShadow() {
		return []string{root}
	}

	pending := map[string]bool{}
	for _, neighbor := range neighbors(root, g) {
		if n, known := g.Nodes[neighbor]; known && !n.IsShadow() {
			continue
		}
		pending[neighbor] = true
	}
	return sorted(pending)
}

// PlanRefresh computes a forced re-describe set: the root plus every
// non-system neighbor its recorded edges reach, whether or not those nodes
// are already full. Cached fullness is no reason to skip a fetch when the
// caller wants the remote metadata re-read.
func PlanRefresh(root string, g *models.Graph) []string {
	pending := map[string]bool{root: true}
	for _, neighbor := range neighbors(root, g) {
		pending[neighbor] = true
	}
	return sorted(pending)
}

// neighbors lists the distinct non-system objects sharing an edge with root,
// in no particular order.
func neighbors(root string, g *models.Graph) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range g.Edges {
		var neighbor string
		switch {
		case e.Source == root:
			neighbor = e.Target
		case e.Target == root:
			neighbor = e.Source
		default:
			continue
		}
		if neighbor == root || IsSystemObject(neighbor) || seen[neighbor] {
			continue
		}
		seen[neighbor] = true
		out = append(out, neighbor)
	}
	return out
}

func sorted(set map[string]bool) []string {
	plan := make([]string, 0, len(set))
	for name := range set {
		plan = append(plan, name)
	}
	sort.Strings(plan)
	return plan
}
