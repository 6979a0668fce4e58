package delegatescan_test

import (
	"testing"

	"github.com/maxgio92/delegatescan"
)

func TestBuildCFG_UnresolvedJumpHasNoStaticSuccessor(t *testing.T) {
	// PUSH1 0x05; JUMP; JUMPDEST; STOP
	instrs, err := delegatescan.Disassemble("0x6005565b00")
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}

	cfg := delegatescan.BuildCFG(instrs)
	if len(cfg.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(cfg.Blocks))
	}

	entry := cfg.Blocks[0]
	if entry == nil {
		t.Fatal("missing entry block at PC 0")
	}
	if succs := entry.Successors(); len(succs) != 0 {
		t.Errorf("expected no static successors out of an unresolved JUMP, got %v", succs)
	}

	target := cfg.Blocks[3]
	if target == nil {
		t.Fatal("missing JUMPDEST block at PC 3")
	}
	if preds := target.Predecessors(); len(preds) != 0 {
		t.Errorf("expected no predecessors (JUMP target is unresolved), got %v", preds)
	}
}

func TestBuildCFG_JUMPIFallsThroughOnNotTakenBranch(t *testing.T) {
	// PUSH1 0x01; PUSH1 0x08; JUMPI; PUSH2 0x015b; STOP
	instrs, err := delegatescan.Disassemble("0x600160085761015b00")
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}

	cfg := delegatescan.BuildCFG(instrs)
	if len(cfg.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(cfg.Blocks), cfg.Blocks)
	}

	entry := cfg.Blocks[0]
	if entry == nil {
		t.Fatal("missing entry block")
	}
	succs := entry.Successors()
	if len(succs) != 1 || succs[0] != 5 {
		t.Fatalf("expected fallthrough successor at PC 5, got %v", succs)
	}

	fallthroughBlock := cfg.Blocks[5]
	if fallthroughBlock == nil {
		t.Fatal("missing fallthrough block at PC 5")
	}
	preds := fallthroughBlock.Predecessors()
	if len(preds) != 1 || preds[0] != 0 {
		t.Fatalf("expected predecessor at PC 0, got %v", preds)
	}
}

func TestBuildCFG_Empty(t *testing.T) {
	cfg := delegatescan.BuildCFG(nil)
	if len(cfg.Blocks) != 0 {
		t.Fatalf("expected no blocks, got %d", len(cfg.Blocks))
	}
	if cfg.Entry != nil {
		t.Fatalf("expected nil entry, got %+v", cfg.Entry)
	}
}
