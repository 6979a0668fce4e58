// Package printer renders a delegatescan Report as a human-readable tree,
// for the CLI's default (non-JSON) output mode.
package printer

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"

	"github.com/maxgio92/delegatescan"
)

// Fprint writes a human-readable summary of report to w.
func Fprint(w io.Writer, report delegatescan.Report) {
	fmt.Fprintln(w, ReportTree(report).String())
}

// ReportTree builds the printable tree for report: one branch per
// DELEGATECALL site, and one branch for the derived dataflow graph.
func ReportTree(report delegatescan.Report) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("bytecodeHash: %s  delegatecalls: %d  overallRisk: %s",
		report.BytecodeHash, report.DelegatecallCount, orNone(string(report.OverallRisk))))

	if len(report.Sites) > 0 {
		sites := tree.AddBranch("sites")
		for _, s := range report.Sites {
			line := fmt.Sprintf("pc=%d type=%s risk=%s", s.PC, s.Classification.Type, s.Risk)
			if s.Pattern != nil {
				line += fmt.Sprintf(" pattern=%s", s.Pattern.Name)
			}
			if s.Notes != "" {
				line += fmt.Sprintf(" notes=%q", s.Notes)
			}
			sites.AddNode(line)
		}
	}

	if len(report.ProxiesDetected) > 0 {
		proxies := tree.AddBranch("proxiesDetected")
		for _, p := range report.ProxiesDetected {
			proxies.AddNode(fmt.Sprintf("%s x%d", p.Name, p.Count))
		}
	}

	if len(report.Graph.Edges) > 0 {
		graph := tree.AddBranch("graph")
		for _, e := range report.Graph.Edges {
			graph.AddNode(fmt.Sprintf("%s --[%s, risk=%s]--> %s", e.From, e.Label, e.Risk, e.To))
		}
	}

	return tree
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
