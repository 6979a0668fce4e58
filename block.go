package delegatescan

import "sort"

// BlockID identifies a [BasicBlock] by its leader program counter.
type BlockID = int

// BasicBlock is a maximal straight-line run of instructions with one entry
// (its leader) and one exit (its last instruction). Successor and
// predecessor links are PC-keyed indices into the owning [CFG], not object
// references — this keeps the block graph a plain acyclic-ownership
// mapping, per spec.md §9's "ownership of CFG structures" note.
type BasicBlock struct {
	ID           BlockID
	StartPC      int
	EndPC        int // inclusive, PC of the block's last instruction
	Instructions []Instruction

	successors   map[BlockID]struct{}
	predecessors map[BlockID]struct{}
}

func newBasicBlock(id BlockID, instrs []Instruction) *BasicBlock {
	return &BasicBlock{
		ID:           id,
		StartPC:      instrs[0].PC,
		EndPC:        instrs[len(instrs)-1].PC,
		Instructions: instrs,
		successors:   map[BlockID]struct{}{},
		predecessors: map[BlockID]struct{}{},
	}
}

func (b *BasicBlock) addSuccessor(id BlockID)   { b.successors[id] = struct{}{} }
func (b *BasicBlock) addPredecessor(id BlockID) { b.predecessors[id] = struct{}{} }

// Successors returns the block's successor leader PCs in ascending order.
func (b *BasicBlock) Successors() []BlockID { return sortedKeys(b.successors) }

// Predecessors returns the block's predecessor leader PCs in ascending order.
func (b *BasicBlock) Predecessors() []BlockID { return sortedKeys(b.predecessors) }

func sortedKeys(m map[BlockID]struct{}) []BlockID {
	out := make([]BlockID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// lastInstruction returns the block's terminating instruction.
func (b *BasicBlock) lastInstruction() Instruction {
	return b.Instructions[len(b.Instructions)-1]
}
