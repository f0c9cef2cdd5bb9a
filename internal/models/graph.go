// Package models defines the core data structures shared across the service.
// It includes the normalized schema graph, its cache envelope, and the raw
// describe payload shapes consumed from the CRM REST API.
package models

import "time"

// GraphSchemaVersion is bumped whenever the persisted graph layout changes.
// Entries with a different version are treated as cache misses at load.
const GraphSchemaVersion = 1

// Edge provenance values, ordered by confidence.
const (
	ProvenanceDescribe = "describe"
	ProvenanceInferred = "inferred"
)

type Graph struct {
	Nodes map[string]Node `json:"nodes"`
	Edges map[string]Edge `json:"edges"`
}

func NewGraph() *Graph {
	return &Graph{
		Nodes: map[string]Node{},
		Edges: map[string]Edge{},
	}
}

type Node struct {
	Info   NodeInfo                   `json:"info"`
	Fields map[string]FieldDescriptor `json:"fields,omitempty"`
}

// IsShadow reports whether the node is known only by reference: it appears as
// an edge endpoint or in the object list but has never been fully described.
func (n Node) IsShadow() bool {
	return len(n.Fields) == 0
}

type NodeInfo struct {
	Name       string  `json:"name"`
	Label      string  `json:"label"`
	Custom     bool    `json:"custom"`
	Queryable  bool    `json:"queryable"`
	Createable bool    `json:"createable"`
	Updateable bool    `json:"updateable"`
	Deletable  bool    `json:"deletable"`
	KeyPrefix  *string `json:"keyPrefix"`
}

// NewShadowNode builds a placeholder node for an object that is referenced
// but not yet described. The label defaults to the API name.
func NewShadowNode(name string) Node {
	return Node{
		Info: NodeInfo{Name: name, Label: name},
	}
}

type FieldDescriptor struct {
	Name               string   `json:"name"`
	Label              string   `json:"label"`
	Type               string   `json:"type"`
	Length             int      `json:"length,omitempty"`
	Precision          int      `json:"precision,omitempty"`
	Scale              int      `json:"scale,omitempty"`
	Digits             int      `json:"digits,omitempty"`
	Nillable           bool     `json:"nillable"`
	Createable         bool     `json:"createable"`
	Updateable         bool     `json:"updateable"`
	ReferenceTo        []string `json:"referenceTo,omitempty"`
	RelationshipName   string   `json:"relationshipName,omitempty"`
	RelationshipOrder  *int     `json:"relationshipOrder,omitempty"`
	Calculated         bool     `json:"calculated,omitempty"`
	RestrictedPicklist bool     `json:"restrictedPicklist,omitempty"`
	DefaultedOnCreate  bool     `json:"defaultedOnCreate,omitempty"`
	CascadeDelete      bool     `json:"cascadeDelete,omitempty"`
}

type Edge struct {
	Source           string `json:"source"`
	Target           string `json:"target"`
	FieldName        string `json:"fieldName"`
	FieldLabel       string `json:"fieldLabel,omitempty"`
	RelationshipName string `json:"relationshipName,omitempty"`
	IsMasterDetail   bool   `json:"isMasterDetail"`
	Order            *int   `json:"order,omitempty"`
	Provenance       string `json:"provenance"`
}

// ID is the dedup key for merging: one edge per (source object, field) pair.
// The target is deliberately not part of the identity.
func (e Edge) ID() string {
	return e.Source + "." + e.FieldName
}

// CacheEntry is the persisted record layout for one instance's graph.
// Timestamp and TTL are epoch/duration milliseconds.
type CacheEntry struct {
	CacheKey      string `json:"cacheKey"`
	SchemaVersion int    `json:"schemaVersion"`
	Data          Graph  `json:"data"`
	Timestamp     int64  `json:"timestamp"`
	TTL           int64  `json:"ttl"`
}

func (e *CacheEntry) Expired(now time.Time) bool {
	return now.UnixMilli()-e.Timestamp > e.TTL
}
