package printer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxgio92/delegatescan"
	"github.com/maxgio92/delegatescan/internal/printer"
)

func TestReportTree_MinimalProxy(t *testing.T) {
	report, err := delegatescan.Analyze(
		"0x363d3d373d3d3d363d73aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa5af43d82803e903d91602b57fd5bf3",
	)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	out := printer.ReportTree(report).String()

	assert.Contains(t, out, report.BytecodeHash)
	assert.Contains(t, out, "medium")
	assert.Contains(t, out, "EIP-1167")
}

func TestReportTree_EmptyBytecodeHasNoSitesBranch(t *testing.T) {
	report, err := delegatescan.Analyze("0x")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	out := printer.ReportTree(report).String()

	assert.False(t, strings.Contains(out, "sites"))
	assert.Contains(t, out, "none")
}
