package delegatescan_test

import (
	"testing"

	"github.com/maxgio92/delegatescan"
)

func TestOverallRisk(t *testing.T) {
	t.Run("empty sites yields no overall risk", func(t *testing.T) {
		_, ok := delegatescan.OverallRisk(nil)
		if ok {
			t.Fatal("expected ok=false for an empty site list")
		}
	})

	t.Run("maximum under low < medium < high < unknown", func(t *testing.T) {
		sites := []delegatescan.DelegatecallSite{
			{Risk: delegatescan.RiskLow},
			{Risk: delegatescan.RiskHigh},
			{Risk: delegatescan.RiskMedium},
		}
		level, ok := delegatescan.OverallRisk(sites)
		if !ok || level != delegatescan.RiskHigh {
			t.Fatalf("expected high, got %s (ok=%v)", level, ok)
		}
	})

	t.Run("unknown outranks high", func(t *testing.T) {
		sites := []delegatescan.DelegatecallSite{
			{Risk: delegatescan.RiskHigh},
			{Risk: delegatescan.RiskUnknown},
		}
		level, ok := delegatescan.OverallRisk(sites)
		if !ok || level != delegatescan.RiskUnknown {
			t.Fatalf("expected unknown, got %s (ok=%v)", level, ok)
		}
	})
}
