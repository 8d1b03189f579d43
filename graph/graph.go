// Package graph is a small in-memory graph of insurance entities: people,
// policies, claims, and their relationships. It is populated once at load
// time and read-only afterwards; queries are lookups, neighbor sets, and
// unweighted shortest paths.
package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNode is returned when a node id is added twice. Fatal at load.
	ErrDuplicateNode = errors.New("graph: duplicate node id")

	// ErrDanglingEdge is returned when an edge references an unknown node id.
	// Fatal at load; the graph is left unchanged.
	ErrDanglingEdge = errors.New("graph: edge references unknown node")

	// ErrUnknownNode is returned by queries against a missing node id.
	ErrUnknownNode = errors.New("graph: unknown node")
)

// NodeType enumerates the kinds of entities in the graph.
type NodeType string

const (
	NodePerson   NodeType = "person"
	NodePolicy   NodeType = "policy"
	NodeClaim    NodeType = "claim"
	NodeProperty NodeType = "property"
	NodeProvider NodeType = "provider"
)

// Node is a typed graph entity. Attrs hold display properties (name,
// address, claim number, ...).
type Node struct {
	ID    string            `json:"id"`
	Type  NodeType          `json:"type"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Edge is a labeled relationship between two nodes. Directed only affects
// presentation; path finding treats every edge as traversable both ways.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Label    string `json:"label"`
	Directed bool   `json:"directed,omitempty"`
}

type neighbor struct {
	id    string
	label string
}

// Graph holds nodes and adjacency lists. Adjacency lists preserve edge
// insertion order, which is the BFS tie-break order.
type Graph struct {
	nodes map[string]Node
	order []string // node insertion order, for stable export
	adj   map[string][]neighbor
	edges []Edge
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		adj:   make(map[string][]neighbor),
	}
}

// AddEntity adds a node. Used only at load time.
func (g *Graph) AddEntity(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("graph: node with empty id")
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// AddRelationship adds an edge. Both endpoints must already exist; on
// failure the graph is unchanged (no partial edge).
func (g *Graph) AddRelationship(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return fmt.Errorf("%w: source %s", ErrDanglingEdge, e.Source)
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return fmt.Errorf("%w: target %s", ErrDanglingEdge, e.Target)
	}
	g.edges = append(g.edges, e)
	g.adj[e.Source] = append(g.adj[e.Source], neighbor{id: e.Target, label: e.Label})
	g.adj[e.Target] = append(g.adj[e.Target], neighbor{id: e.Source, label: e.Label})
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Neighbors returns the nodes adjacent to the given id, in edge insertion
// order. Fails with ErrUnknownNode if the id does not exist.
func (g *Graph) Neighbors(id string) ([]Node, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	seen := make(map[string]bool)
	var result []Node
	for _, nb := range g.adj[id] {
		if seen[nb.id] {
			continue
		}
		seen[nb.id] = true
		result = append(result, g.nodes[nb.id])
	}
	return result, nil
}

// FindPath returns the shortest path between two nodes by edge count,
// using breadth-first search. Ties are broken by adjacency insertion order.
// Returns nil when either id is unknown or no path exists; from == to
// yields a single-node path.
func (g *Graph) FindPath(from, to string) []Node {
	if _, ok := g.nodes[from]; !ok {
		return nil
	}
	if _, ok := g.nodes[to]; !ok {
		return nil
	}
	if from == to {
		return []Node{g.nodes[from]}
	}

	parent := map[string]string{from: ""}
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, nb := range g.adj[current] {
			if _, visited := parent[nb.id]; visited {
				continue
			}
			parent[nb.id] = current
			if nb.id == to {
				return g.buildPath(parent, from, to)
			}
			queue = append(queue, nb.id)
		}
	}

	return nil
}

func (g *Graph) buildPath(parent map[string]string, from, to string) []Node {
	var ids []string
	for id := to; id != ""; id = parent[id] {
		ids = append(ids, id)
	}
	// Reverse into from -> to order.
	path := make([]Node, len(ids))
	for i, id := range ids {
		path[len(ids)-1-i] = g.nodes[id]
	}
	return path
}

// Export returns all nodes (in insertion order) and edges for visualization.
func (g *Graph) Export() ([]Node, []Edge) {
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes, g.edges
}
