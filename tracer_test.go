package delegatescan_test

import (
	"testing"

	"github.com/maxgio92/delegatescan"
)

const straightLineDelegatecall = "0x6000600060006000" +
	"73aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" +
	"6000f4"

func TestTrace_CFGModeRecoversLiteralTarget(t *testing.T) {
	instrs, err := delegatescan.Disassemble(straightLineDelegatecall)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	cfg := delegatescan.BuildCFG(instrs)

	sites := delegatescan.Trace(cfg, instrs, true)
	if len(sites) != 1 {
		t.Fatalf("expected 1 site, got %d", len(sites))
	}

	lit, ok := sites[0].Target.(delegatescan.Literal)
	if !ok {
		t.Fatalf("expected Literal target, got %#v", sites[0].Target)
	}
	if lit.Value != "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("unexpected target literal %q", lit.Value)
	}
}

func TestTrace_CFGAndLinearAgreeOnStraightLineCode(t *testing.T) {
	instrs, err := delegatescan.Disassemble(straightLineDelegatecall)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	cfg := delegatescan.BuildCFG(instrs)

	cfgSites := delegatescan.Trace(cfg, instrs, true)
	linearSites := delegatescan.Trace(nil, instrs, false)

	if len(cfgSites) != len(linearSites) {
		t.Fatalf("site count mismatch: cfg=%d linear=%d", len(cfgSites), len(linearSites))
	}
	for i := range cfgSites {
		if cfgSites[i].PC != linearSites[i].PC {
			t.Errorf("site %d: PC mismatch cfg=%d linear=%d", i, cfgSites[i].PC, linearSites[i].PC)
		}
		gotCFG := delegatescan.Classify(cfgSites[i].Target)
		gotLinear := delegatescan.Classify(linearSites[i].Target)
		if gotCFG != gotLinear {
			t.Errorf("site %d: classification mismatch cfg=%+v linear=%+v", i, gotCFG, gotLinear)
		}
	}
}

func TestTrace_ShallowStackYieldsUnknownTarget(t *testing.T) {
	// Bare DELEGATECALL with nothing pushed: the tracer must not panic and
	// must report Unknown rather than guessing.
	instrs, err := delegatescan.Disassemble("0xf4")
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	cfg := delegatescan.BuildCFG(instrs)

	sites := delegatescan.Trace(cfg, instrs, true)
	if len(sites) != 1 {
		t.Fatalf("expected 1 site, got %d", len(sites))
	}
	if _, ok := sites[0].Target.(delegatescan.Unknown); !ok {
		t.Errorf("expected Unknown target, got %#v", sites[0].Target)
	}
}

func TestJoinState(t *testing.T) {
	lit := delegatescan.Literal{Value: "0x01"}
	other := delegatescan.Literal{Value: "0x02"}

	t.Run("differing depths join to shorter depth of Unknown", func(t *testing.T) {
		a := delegatescan.AbstractState{Stack: []delegatescan.StackExpression{lit, lit, lit}}
		b := delegatescan.AbstractState{Stack: []delegatescan.StackExpression{lit}}

		joined := delegatescan.JoinState(a, b)
		if len(joined.Stack) != 1 {
			t.Fatalf("expected depth 1, got %d", len(joined.Stack))
		}
		if _, ok := joined.Stack[0].(delegatescan.Unknown); !ok {
			t.Errorf("expected Unknown, got %#v", joined.Stack[0])
		}
	})

	t.Run("matching depths keep equal elements, unify differing ones", func(t *testing.T) {
		a := delegatescan.AbstractState{Stack: []delegatescan.StackExpression{lit, lit}}
		b := delegatescan.AbstractState{Stack: []delegatescan.StackExpression{lit, other}}

		joined := delegatescan.JoinState(a, b)
		if len(joined.Stack) != 2 {
			t.Fatalf("expected depth 2, got %d", len(joined.Stack))
		}
		if joined.Stack[0] != lit {
			t.Errorf("expected equal slot preserved, got %#v", joined.Stack[0])
		}
		if _, ok := joined.Stack[1].(delegatescan.Unknown); !ok {
			t.Errorf("expected differing slot to unify to Unknown, got %#v", joined.Stack[1])
		}
	})
}
