package delegatescan

import (
	"sort"
	"strings"
)

// Trace performs a forward abstract interpretation to recover, for every
// DELEGATECALL instruction in instructions, the symbolic stack immediately
// before it executes — and from that, the target expression that will be
// consumed as its `to` argument.
//
// When useCFG is true it runs the interblock worklist fixed point over cfg
// (spec.md §4.3); when false it runs the linear fallback mode straight down
// instructions in program order, ignoring control flow (spec.md §4.3's
// "Linear fallback mode"). Both modes yield the same site PCs; straight-line
// code (no JUMP/JUMPI) yields the same classifications in both, per
// spec.md §8 invariant 8.
func Trace(cfg *CFG, instructions []Instruction, useCFG bool) []DelegatecallSite {
	if useCFG {
		return traceCFG(cfg, instructions)
	}
	return traceLinear(instructions)
}

// traceCFG implements the interblock fixed point described in spec.md §4.3.
func traceCFG(cfg *CFG, instructions []Instruction) []DelegatecallSite {
	outputStates, seen := runFixedPoint(cfg)

	var sites []DelegatecallSite
	for _, instr := range instructions {
		if instr.Mnemonic != "DELEGATECALL" {
			continue
		}
		block := blockContaining(cfg, instr.PC)
		var pre AbstractState
		if block != nil {
			pre = preStateAt(cfg, outputStates, seen, block, instr.PC)
		}
		sites = append(sites, DelegatecallSite{
			ID:      instr.PC,
			PC:      instr.PC,
			BlockID: blockID(block),
			Target:  delegatecallTarget(pre),
		})
	}
	return sites
}

// runFixedPoint runs the worklist-based forward data-flow analysis over the
// whole CFG to convergence and returns the recorded per-block output states
// plus the set of blocks that have been processed at least once ("seen",
// used by the join rule to decide which predecessors to fold in).
func runFixedPoint(cfg *CFG) (map[BlockID]AbstractState, map[BlockID]bool) {
	outputStates := map[BlockID]AbstractState{}
	seen := map[BlockID]bool{}
	queued := map[BlockID]bool{}

	var worklist []BlockID
	// Seed with every block's leader PC: the entry block per spec.md §4.3
	// step 1, plus any block unreachable from static edges (e.g. only
	// reachable via an unresolved JUMP target) so it still gets a
	// best-effort empty-state trace rather than being left unrecorded.
	ids := make([]BlockID, 0, len(cfg.Blocks))
	for id := range cfg.Blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		worklist = append(worklist, id)
		queued[id] = true
	}

	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		queued[id] = false

		block := cfg.Blocks[id]
		input := blockInputState(cfg, outputStates, seen, block)
		output := applyBlock(block, input)

		if !seen[id] || !stacksEqual(outputStates[id].Stack, output.Stack) {
			outputStates[id] = output
			seen[id] = true
			for _, succID := range block.Successors() {
				if !queued[succID] {
					worklist = append(worklist, succID)
					queued[succID] = true
				}
			}
		}
	}

	return outputStates, seen
}

// blockInputState computes a block's input state per spec.md §4.3 step 2:
// the empty state if it has no predecessors, otherwise the join of its
// predecessors' recorded output states (only those that have been seen).
func blockInputState(cfg *CFG, outputStates map[BlockID]AbstractState, seen map[BlockID]bool, block *BasicBlock) AbstractState {
	preds := block.Predecessors()
	if len(preds) == 0 {
		return emptyState()
	}

	var joined AbstractState
	first := true
	for _, predID := range preds {
		if !seen[predID] {
			continue
		}
		predState := outputStates[predID]
		if first {
			joined = predState.clone()
			first = false
			continue
		}
		joined = JoinState(joined, predState)
	}
	if first {
		// No predecessor has been seen yet.
		return emptyState()
	}
	return joined
}

// preStateAt replays the transfer function from block's input state across
// its instructions until reaching (but not executing) targetPC, per
// spec.md §4.3's "Extracting the pre-state at a PC".
func preStateAt(cfg *CFG, outputStates map[BlockID]AbstractState, seen map[BlockID]bool, block *BasicBlock, targetPC int) AbstractState {
	state := blockInputState(cfg, outputStates, seen, block)
	for _, instr := range block.Instructions {
		if instr.PC == targetPC {
			break
		}
		applyInstruction(instr, &state)
	}
	return state
}

// applyBlock applies the transfer function across every instruction of a
// block in order, returning the resulting output state.
func applyBlock(block *BasicBlock, input AbstractState) AbstractState {
	state := input.clone()
	for _, instr := range block.Instructions {
		applyInstruction(instr, &state)
	}
	return state
}

// traceLinear implements spec.md §4.3's linear fallback mode: the transfer
// function applied straight down the instruction stream, ignoring control
// flow, using the stack state reached at each DELEGATECALL in program
// order.
func traceLinear(instructions []Instruction) []DelegatecallSite {
	var sites []DelegatecallSite
	state := emptyState()
	for _, instr := range instructions {
		if instr.Mnemonic == "DELEGATECALL" {
			sites = append(sites, DelegatecallSite{
				ID:     instr.PC,
				PC:     instr.PC,
				Target: delegatecallTarget(state),
			})
		}
		applyInstruction(instr, &state)
	}
	return sites
}

// delegatecallTarget extracts the `to` argument from a pre-call stack: the
// EVM consumes (gas, to, inOffset, inSize, outOffset, outSize) with `to` at
// depth 2 from the top, per spec.md §4.3. A too-shallow stack yields
// Unknown.
func delegatecallTarget(state AbstractState) StackExpression {
	return state.peek(2)
}

// applyInstruction mutates state according to spec.md §4.3's transfer
// function table.
func applyInstruction(instr Instruction, state *AbstractState) {
	m := string(instr.Mnemonic)

	switch {
	case strings.HasPrefix(m, "PUSH"):
		state.push(Literal{Value: instr.Immediate})
		return
	case strings.HasPrefix(m, "DUP"):
		n := dupSwapIndex(m, "DUP")
		v := state.peek(n)
		state.push(v)
		return
	case strings.HasPrefix(m, "SWAP"):
		n := dupSwapIndex(m, "SWAP")
		top := len(state.Stack) - 1
		other := len(state.Stack) - 1 - n
		if top < 0 || other < 0 {
			return // shallow: no-op, per spec.md §4.3
		}
		state.Stack[top], state.Stack[other] = state.Stack[other], state.Stack[top]
		return
	}

	switch m {
	case "CALLDATALOAD":
		offset := state.pop()
		state.push(Calldata{Offset: offset})
	case "SLOAD":
		slot := state.pop()
		state.push(Storage{Slot: slot})
	case "CALLER":
		state.push(Environment{Source: EnvCaller})
	case "ADDRESS":
		state.push(Environment{Source: EnvAddress})
	case "ORIGIN":
		state.push(Environment{Source: EnvOrigin})
	case "MLOAD":
		state.pop()
		state.push(Unknown{})
	case "MSTORE", "MSTORE8":
		state.pop()
		state.pop()
	case "POP":
		state.pop()
	case "ADD", "SUB", "MUL", "DIV", "MOD", "AND", "OR", "XOR", "EQ", "LT", "GT":
		a := state.pop()
		b := state.pop()
		state.push(Op{Name: m, Args: []StackExpression{a, b}})
	case "ISZERO":
		a := state.pop()
		state.push(Op{Name: m, Args: []StackExpression{a}})
	default:
		if isUnknownByteMnemonic(instr.Mnemonic) {
			// Unmodeled raw byte: approximate by popping one slot, pushing
			// nothing, per spec.md §4.3.
			state.pop()
			return
		}
		// Any other known opcode: pop stackIn slots, push stackOut copies
		// of Unknown.
		for i := 0; i < instr.StackIn; i++ {
			state.pop()
		}
		for i := 0; i < instr.StackOut; i++ {
			state.push(Unknown{})
		}
	}
}

// dupSwapIndex extracts N from a "DUPN"/"SWAPN" mnemonic.
func dupSwapIndex(mnemonic, prefix string) int {
	n := 0
	for _, c := range mnemonic[len(prefix):] {
		n = n*10 + int(c-'0')
	}
	return n
}

// isUnknownByteMnemonic reports whether m is the "0xNN" placeholder used
// for a raw, unrecognized opcode byte (spec.md §4.1), as opposed to a real
// mnemonic name — none of which ever take that shape.
func isUnknownByteMnemonic(m Mnemonic) bool {
	s := string(m)
	return len(s) == 4 && strings.HasPrefix(s, "0x")
}

// blockContaining returns the block owning PC, or nil if none does.
func blockContaining(cfg *CFG, pc int) *BasicBlock {
	for _, b := range cfg.Blocks {
		if pc >= b.StartPC && pc <= b.EndPC {
			return b
		}
	}
	return nil
}

func blockID(b *BasicBlock) BlockID {
	if b == nil {
		return -1
	}
	return b.ID
}

func stacksEqual(a, b []StackExpression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !exprEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
