package delegatescan

import "fmt"

// NodeKind classifies a [Graph] node.
type NodeKind string

const (
	NodeContract       NodeKind = "contract"
	NodeImplementation NodeKind = "implementation"
	NodeFacet          NodeKind = "facet"
	NodeUnknown        NodeKind = "unknown"
)

// Node is one vertex of the derived dataflow [Graph].
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
}

// Edge is one DELEGATECALL data-flow edge from the contract node to a
// target node, labeled by the detected pattern (or "DELEGATECALL") and
// carrying the site's risk.
type Edge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Label string    `json:"label"`
	Risk  RiskLevel `json:"risk"`
}

// Graph is the report's derived dataflow graph: nodes in
// {contract, implementation, facet, unknown} and edges from the contract
// to each site's resolved (or unresolved) target, per spec.md §3/§4.6.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// BuildGraph derives a [Graph] from a site list already enriched with
// classification, pattern and risk.
func BuildGraph(contractAddress string, sites []DelegatecallSite) Graph {
	contractID := "contract:unknown"
	if contractAddress != "" {
		contractID = "contract:" + contractAddress
	}

	implSiteCount := map[string]int{}
	for _, s := range sites {
		if s.Classification.AddressLiteral != "" {
			implSiteCount[s.Classification.AddressLiteral]++
		}
	}

	g := Graph{Nodes: []Node{{ID: contractID, Kind: NodeContract}}}
	seen := map[string]bool{contractID: true}
	addNode := func(id string, kind NodeKind) {
		if seen[id] {
			return
		}
		seen[id] = true
		g.Nodes = append(g.Nodes, Node{ID: id, Kind: kind})
	}

	for _, s := range sites {
		switch {
		case s.Classification.AddressLiteral != "":
			id := "impl:" + s.Classification.AddressLiteral
			kind := NodeImplementation
			if implSiteCount[s.Classification.AddressLiteral] >= 2 {
				kind = NodeFacet
			}
			addNode(id, kind)
			g.Edges = append(g.Edges, Edge{
				From:  contractID,
				To:    id,
				Label: patternLabelOrDefault(s.Pattern, "DELEGATECALL"),
				Risk:  s.Risk,
			})

		case s.Classification.StorageSlotLiteral != "":
			id := "storage:" + s.Classification.StorageSlotLiteral
			addNode(id, NodeUnknown)
			label := fmt.Sprintf("%s (slot: %s…)",
				patternLabelOrDefault(s.Pattern, "Storage Proxy"),
				firstChars(s.Classification.StorageSlotLiteral, 10))
			g.Edges = append(g.Edges, Edge{From: contractID, To: id, Label: label, Risk: s.Risk})

		default:
			id := fmt.Sprintf("unknown:%d", s.ID)
			addNode(id, NodeUnknown)
			g.Edges = append(g.Edges, Edge{From: contractID, To: id, Label: "DELEGATECALL (dynamic)", Risk: s.Risk})
		}
	}

	return g
}

func patternLabelOrDefault(p *PatternMatch, fallback string) string {
	if p == nil {
		return fallback
	}
	return string(p.Name)
}

func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
