// Package service orchestrates graph building: it loads the cached graph for
// an instance, plans the minimal describe set, fetches and normalizes it,
// merges the result, and persists the updated graph.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/schemalens/core/internal/cache"
	"github.com/schemalens/core/internal/fetch"
	"github.com/schemalens/core/internal/graph"
	"github.com/schemalens/core/internal/models"
	"github.com/schemalens/core/internal/parser"
)

// ErrRootUnreachable marks an expansion whose root object itself could not be
// fetched. Partial neighbor failures are tolerated; a missing root is not.
var ErrRootUnreachable = errors.New("root object could not be described")

// ErrInvalidInstance marks an instance address that cannot be normalized.
var ErrInvalidInstance = errors.New("invalid instance address")

// MetadataClient is the per-instance remote API surface the service consumes.
type MetadataClient interface {
	ListObjects(ctx context.Context) (*models.ObjectList, error)
	DescribeObject(ctx context.Context, name string) (*models.ObjectDescribe, error)
}

// ClientFactory builds a MetadataClient bound to one canonical host and the
// caller's session token. Tokens arrive per request and are never stored.
type ClientFactory func(host, token string) MetadataClient

// EnsureRequest is one "build or expand graph" request.
type EnsureRequest struct {
	Instance     string
	Root         string
	Token        string
	ForceRefresh bool
}

// GraphResult is the caller-facing graph snapshot, with nodes and edges as
// sorted lists ready for the rendering widget.
type GraphResult struct {
	Nodes     []models.Node `json:"nodes"`
	Edges     []models.Edge `json:"edges"`
	FromCache bool          `json:"fromCache"`
	Timestamp int64         `json:"timestamp"`
}

type Service struct {
	cache     *cache.GraphCache
	factory   ClientFactory
	fetchOpts fetch.Options
	logger    *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(graphCache *cache.GraphCache, factory ClientFactory, fetchOpts fetch.Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cache:     graphCache,
		factory:   factory,
		fetchOpts: fetchOpts,
		logger:    logger,
		locks:     map[string]*sync.Mutex{},
	}
}

// EnsureGraph returns the graph for an instance, fetching whatever metadata
// is missing. With no root and a fresh cache it answers from cache without
// network activity. With a root it guarantees that, on success, the root is a
// full node and every direct neighbor is present at least as a shadow node.
// ForceRefresh skips the cached fast path and refetches the root and its
// recorded neighborhood even where full nodes are cached, still merging into
// the cached graph on save.
func (s *Service) EnsureGraph(ctx context.Context, req EnsureRequest) (*GraphResult, error) {
	key, err := cache.CanonicalHost(req.Instance)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInstance, err)
	}

	// Two concurrent load→merge→save cycles for the same key would silently
	// lose one side's additions, so writers are serialized per key.
	unlock := s.lock(key)
	defer unlock()

	entry := s.cache.Load(ctx, key)
	g := models.NewGraph()
	if entry != nil {
		g = &entry.Data
	}

	if req.Root == "" {
		if entry != nil && !req.ForceRefresh {
			return s.result(g, true, entry.Timestamp), nil
		}
		return s.seedFromObjectList(ctx, key, req.Token, g)
	}
	return s.expand(ctx, key, req, g)
}

// ClearGraph unconditionally deletes the persisted entry for an instance.
func (s *Service) ClearGraph(ctx context.Context, instance string) error {
	key, err := cache.CanonicalHost(instance)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstance, err)
	}
	return s.cache.Delete(ctx, key)
}

// seedFromObjectList populates the graph with info-only nodes from the global
// object listing, giving the UI a browsable catalog before any describes.
func (s *Service) seedFromObjectList(ctx context.Context, key, token string, g *models.Graph) (*GraphResult, error) {
	client := s.factory(key, token)
	list, err := client.ListObjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing objects for %s: %w", key, err)
	}

	graph.MergeNodes(g, parser.NodesFromList(list))
	saved := s.cache.Save(ctx, key, g)

	s.logger.Info("seeded graph from object list",
		zap.String("instance", key), zap.Int("nodes", len(g.Nodes)))
	return s.result(g, false, saved.Timestamp), nil
}

// expand guarantees the root and its direct neighborhood are described,
// fetching in two passes when the root itself was unknown: the first plan
// cannot see the root's edges before its describe lands.
func (s *Service) expand(ctx context.Context, key string, req EnsureRequest, g *models.Graph) (*GraphResult, error) {
	client := s.factory(key, req.Token)
	orch := fetch.New(client, s.fetchOpts, s.logger)

	plan := graph.PlanFetch(req.Root, g)
	if req.ForceRefresh {
		// Cached fullness is stale by assumption here: refetch the root and
		// its whole recorded neighborhood, not just the gaps.
		plan = graph.PlanRefresh(req.Root, g)
	}
	rootPlanned := slices.Contains(plan, req.Root)

	described, summary, err := orch.BatchDescribe(ctx, plan)
	if err != nil {
		return nil, err
	}
	s.mergeDescribes(g, described)

	if rootPlanned {
		if _, ok := described[req.Root]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrRootUnreachable, req.Root)
		}
		// Second-order discovery: replan now that the root's edges are known.
		if replanned := graph.PlanFetch(req.Root, g); len(replanned) > 0 {
			more, moreSummary, err := orch.BatchDescribe(ctx, replanned)
			if err != nil {
				return nil, err
			}
			s.mergeDescribes(g, more)
			summary.Requested += moreSummary.Requested
			summary.Succeeded += moreSummary.Succeeded
			summary.Failed += moreSummary.Failed
		}
	}

	saved := s.cache.Save(ctx, key, g)
	s.logger.Info("expanded graph",
		zap.String("instance", key),
		zap.String("root", req.Root),
		zap.Int("requested", summary.Requested),
		zap.Int("failed", summary.Failed))
	return s.result(g, false, saved.Timestamp), nil
}

// mergeDescribes folds a batch of describe payloads into the graph: full
// nodes and describe-sourced edges first, then the lower-confidence child
// relationship inferences, then shadow nodes for any endpoint still missing.
func (s *Service) mergeDescribes(g *models.Graph, described map[string]*models.ObjectDescribe) {
	for _, desc := range described {
		res := parser.Normalize(desc)
		graph.MergeNodes(g, []models.Node{res.Node})
		graph.MergeEdges(g, res.Edges)

		inferred, shadows := parser.InferFromChildren(desc, g.Edges)
		graph.MergeNodes(g, shadows)
		graph.MergeEdges(g, inferred)
	}
	graph.EnsureEndpoints(g)
}

func (s *Service) result(g *models.Graph, fromCache bool, timestamp int64) *GraphResult {
	nodes := make([]models.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Info.Name < nodes[j].Info.Name })

	edges := make([]models.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID() < edges[j].ID() })

	return &GraphResult{Nodes: nodes, Edges: edges, FromCache: fromCache, Timestamp: timestamp}
}

// lock serializes writers per cache key. Entries are never evicted; the map
// holds one bare mutex per distinct canonical host ever seen, a few dozen
// bytes each, and dropping an entry while a goroutine holds it would break
// the exclusion.
func (s *Service) lock(key string) func() {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}
