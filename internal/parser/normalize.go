package parser

import (
	"github.com/schemalens/core/internal/graph"
	"github.com/schemalens/core/internal/models"
)

// NormalizeResult is one object's contribution to the graph: its full node
// and the outgoing edges discovered on its reference fields.
type NormalizeResult struct {
	Node  models.Node
	Edges []models.Edge
}

// Normalize strips a describe payload down to the field whitelist and emits
// one describe-provenance edge per (reference field, target) pair. Pure
// self-references produce no edge. A field is master-detail exactly when the
// API reports a relationship order.
func Normalize(desc *models.ObjectDescribe) NormalizeResult {
	node := models.Node{
		Info: models.NodeInfo{
			Name:       desc.Name,
			Label:      desc.Label,
			Custom:     desc.Custom,
			Queryable:  desc.Queryable,
			Createable: desc.Createable,
			Updateable: desc.Updateable,
			Deletable:  desc.Deletable,
			KeyPrefix:  desc.KeyPrefix,
		},
		Fields: make(map[string]models.FieldDescriptor, len(desc.Fields)),
	}

	var edges []models.Edge
	for _, f := range desc.Fields {
		node.Fields[f.Name] = stripField(f)

		if f.Type != "reference" {
			continue
		}
		for _, target := range f.ReferenceTo {
			if target == desc.Name || graph.IsSystemObject(target) {
				continue
			}
			edges = append(edges, models.Edge{
				Source:           desc.Name,
				Target:           target,
				FieldName:        f.Name,
				FieldLabel:       f.Label,
				RelationshipName: f.RelationshipName,
				IsMasterDetail:   f.RelationshipOrder != nil,
				Order:            f.RelationshipOrder,
				Provenance:       models.ProvenanceDescribe,
			})
		}
	}

	return NormalizeResult{Node: node, Edges: edges}
}

// InferFromChildren backfills edges from an object's child relationship
// listing, the inverse of reference fields held by objects that may never have
// been described themselves. Deprecated, system-generated, and self-referent
// children are skipped, as is any edge id already known from a full describe
// (describe-sourced edges are never shadowed by inference). The inferred
// master-detail classification requires both cascade and restricted delete on
// the child relationship. Shadow nodes are synthesized for unknown sources.
func InferFromChildren(desc *models.ObjectDescribe, known map[string]models.Edge) ([]models.Edge, []models.Node) {
	var edges []models.Edge
	var shadows []models.Node

	for _, child := range desc.ChildRelationships {
		if child.DeprecatedAndHidden || child.ChildSObject == "" || child.Field == "" {
			continue
		}
		if child.ChildSObject == desc.Name || graph.IsSystemObject(child.ChildSObject) {
			continue
		}

		edge := models.Edge{
			Source:           child.ChildSObject,
			Target:           desc.Name,
			FieldName:        child.Field,
			RelationshipName: child.RelationshipName,
			IsMasterDetail:   child.CascadeDelete && child.RestrictedDelete,
			Provenance:       models.ProvenanceInferred,
		}
		if existing, ok := known[edge.ID()]; ok && existing.Provenance == models.ProvenanceDescribe {
			continue
		}

		edges = append(edges, edge)
		shadows = append(shadows, models.NewShadowNode(child.ChildSObject))
	}

	return edges, shadows
}

// NodesFromList converts the global object listing into info-only nodes,
// skipping deprecated and system-generated objects. The resulting nodes are
// shadows: the listing carries no field data.
func NodesFromList(list *models.ObjectList) []models.Node {
	nodes := make([]models.Node, 0, len(list.Sobjects))
	for _, s := range list.Sobjects {
		if s.DeprecatedAndHidden || graph.IsSystemObject(s.Name) {
			continue
		}
		nodes = append(nodes, models.Node{
			Info: models.NodeInfo{
				Name:       s.Name,
				Label:      s.Label,
				Custom:     s.Custom,
				Queryable:  s.Queryable,
				Createable: s.Createable,
				Updateable: s.Updateable,
				Deletable:  s.Deletable,
				KeyPrefix:  s.KeyPrefix,
			},
		})
	}
	return nodes
}

// stripField keeps only the whitelisted describe attributes. Raw payloads
// carry several times more than the visualizer uses.
func stripField(f models.RawField) models.FieldDescriptor {
	return models.FieldDescriptor{
		Name:               f.Name,
		Label:              f.Label,
		Type:               f.Type,
		Length:             f.Length,
		Precision:          f.Precision,
		Scale:              f.Scale,
		Digits:             f.Digits,
		Nillable:           f.Nillable,
		Createable:         f.Createable,
		Updateable:         f.Updateable,
		ReferenceTo:        f.ReferenceTo,
		RelationshipName:   f.RelationshipName,
		RelationshipOrder:  f.RelationshipOrder,
		Calculated:         f.Calculated,
		RestrictedPicklist: f.RestrictedPicklist,
		DefaultedOnCreate:  f.DefaultedOnCreate,
		CascadeDelete:      f.CascadeDelete,
	}
}
