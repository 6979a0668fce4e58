package delegatescan

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// CFG is a control-flow graph: a mapping from leader PC to owned
// [BasicBlock], plus a designated entry block (the block starting at PC 0,
// when present).
type CFG struct {
	Blocks map[BlockID]*BasicBlock
	Entry  *BasicBlock // nil iff the program is empty
}

// BuildCFG partitions an instruction sequence into basic blocks and links
// them with successor/predecessor edges for statically determinable control
// flow, per spec.md §4.2.
func BuildCFG(instructions []Instruction) *CFG {
	cfg := &CFG{Blocks: map[BlockID]*BasicBlock{}}
	if len(instructions) == 0 {
		return cfg
	}

	leaders := findLeaders(instructions)

	// Partition instructions into blocks, one per consecutive leader pair.
	var current []Instruction
	for i, instr := range instructions {
		if leaders.Test(uint(instr.PC)) && len(current) > 0 {
			b := newBasicBlock(current[0].PC, current)
			cfg.Blocks[b.ID] = b
			current = nil
		}
		current = append(current, instr)
		if i == len(instructions)-1 {
			b := newBasicBlock(current[0].PC, current)
			cfg.Blocks[b.ID] = b
		}
	}

	linkEdges(cfg)

	if entry, ok := cfg.Blocks[0]; ok {
		cfg.Entry = entry
	}
	return cfg
}

// findLeaders marks every leader PC per spec.md §4.2's three rules: the
// first instruction, JUMPDEST targets, and the instruction immediately
// following a terminator. Uses a bitset over the PC domain rather than a
// map, since PCs are a dense 0..len(code) range — the idiom
// jam-duna-jamduna's dependency graph already carries
// (github.com/bits-and-blooms/bitset), per DESIGN.md.
func findLeaders(instructions []Instruction) *bitset.BitSet {
	maxPC := instructions[len(instructions)-1].PC
	leaders := bitset.New(uint(maxPC + 1))

	leaders.Set(uint(instructions[0].PC))

	for i, instr := range instructions {
		if instr.Mnemonic == "JUMPDEST" {
			leaders.Set(uint(instr.PC))
		}
		if i > 0 && instructions[i-1].Mnemonic.isTerminator() {
			leaders.Set(uint(instr.PC))
		}
	}
	return leaders
}

// linkEdges examines each block's last instruction and wires successor and
// mirrored predecessor edges, per spec.md §4.2's edge-construction rules.
func linkEdges(cfg *CFG) {
	starts := make([]int, 0, len(cfg.Blocks))
	for id := range cfg.Blocks {
		starts = append(starts, id)
	}
	sort.Ints(starts)

	for _, id := range starts {
		b := cfg.Blocks[id]
		last := b.lastInstruction()

		switch last.Mnemonic {
		case "JUMP":
			// Target is data-dependent: no statically known successors.
		case "STOP", "RETURN", "REVERT", "SELFDESTRUCT":
			// No successors.
		default:
			// JUMPI falls through on the not-taken branch; every other
			// opcode simply falls into the next block. The taken branch of
			// a JUMPI is left unresolved per spec.md §4.2.
			addFallthrough(cfg, b, last)
		}
	}
}

func addFallthrough(cfg *CFG, b *BasicBlock, last Instruction) {
	nextPC := last.PC + instrLen(last)
	next, ok := cfg.Blocks[nextPC]
	if !ok {
		return
	}
	b.addSuccessor(next.ID)
	next.addPredecessor(b.ID)
}

// instrLen returns the byte length of an instruction: 1 for all opcodes,
// 1+N for PUSH-N.
func instrLen(instr Instruction) int {
	if instr.Immediate != "" {
		// "0x" + hex(imm): (len-2)/2 bytes of immediate.
		return 1 + (len(instr.Immediate)-2)/2
	}
	return 1
}
