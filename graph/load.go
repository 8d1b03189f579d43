package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type graphFile struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// LoadJSON builds a graph from a {"nodes": [...], "edges": [...]} document.
// Integrity violations (duplicate ids, dangling edges) fail immediately.
func LoadJSON(r io.Reader) (*Graph, error) {
	var gf graphFile
	if err := json.NewDecoder(r).Decode(&gf); err != nil {
		return nil, fmt.Errorf("graph: parsing graph data: %w", err)
	}

	g := New()
	for _, n := range gf.Nodes {
		if err := g.AddEntity(n); err != nil {
			return nil, err
		}
	}
	for _, e := range gf.Edges {
		if err := g.AddRelationship(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LoadFile loads a graph from a JSON file on disk.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graph: opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// Sample returns the demo insurance graph: a policyholder, their policy,
// an open water damage claim, the insured property, and two service
// providers working the claim.
func Sample() *Graph {
	g := New()

	nodes := []Node{
		{ID: "policy-1", Type: NodePolicy, Attrs: map[string]string{
			"policy_number": "POL-HDI-45678",
			"policy_type":   "Homeowners",
			"start_date":    "2023-01-01",
			"end_date":      "2024-01-01",
			"premium":       "1200.00",
			"deductible":    "1000.00",
		}},
		{ID: "person-1", Type: NodePerson, Attrs: map[string]string{
			"name":    "John Smith",
			"address": "123 Main Street, Hartford, CT 06103",
			"phone":   "(555) 123-4567",
			"email":   "john.smith@email.com",
		}},
		{ID: "claim-1", Type: NodeClaim, Attrs: map[string]string{
			"claim_number":  "CLM-2023-78945",
			"date_of_loss":  "2023-05-15",
			"incident_type": "Water Damage",
			"status":        "Open",
			"reported_date": "2023-05-15",
		}},
		{ID: "property-1", Type: NodeProperty, Attrs: map[string]string{
			"address":       "123 Main Street, Hartford, CT 06103",
			"property_type": "Single Family Home",
			"year_built":    "1985",
			"square_feet":   "2200",
		}},
		{ID: "provider-1", Type: NodeProvider, Attrs: map[string]string{
			"name":         "ABC Plumbing",
			"service_type": "Plumbing",
			"phone":        "(555) 987-6543",
		}},
		{ID: "provider-2", Type: NodeProvider, Attrs: map[string]string{
			"name":         "XYZ Water Restoration",
			"service_type": "Water Mitigation",
			"phone":        "(555) 456-7890",
		}},
	}

	edges := []Edge{
		{Source: "person-1", Target: "policy-1", Label: "HOLDS", Directed: true},
		{Source: "person-1", Target: "property-1", Label: "OWNS", Directed: true},
		{Source: "person-1", Target: "claim-1", Label: "FILED", Directed: true},
		{Source: "claim-1", Target: "policy-1", Label: "COVERED_BY", Directed: true},
		{Source: "claim-1", Target: "property-1", Label: "AFFECTS", Directed: true},
		{Source: "claim-1", Target: "provider-1", Label: "SERVICED_BY", Directed: true},
		{Source: "claim-1", Target: "provider-2", Label: "SERVICED_BY", Directed: true},
	}

	// The demo graph is static; integrity errors here are build defects.
	for _, n := range nodes {
		if err := g.AddEntity(n); err != nil {
			panic(err)
		}
	}
	for _, e := range edges {
		if err := g.AddRelationship(e); err != nil {
			panic(err)
		}
	}

	return g
}
