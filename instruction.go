package delegatescan

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
)

// Mnemonic names an instruction's opcode. Known opcodes use their canonical
// EVM mnemonic (e.g. "DELEGATECALL"); bytes outside the known table use the
// placeholder form "0xNN".
type Mnemonic string

// Instruction is one decoded EVM opcode, plus its PUSH immediate if any.
//
// PC is the byte offset of the opcode itself (the corrected convention per
// SPEC_FULL.md §9, not the reference implementation's post-advance offset).
type Instruction struct {
	PC        int
	Mnemonic  Mnemonic
	Immediate string // "0x"-prefixed hex, only set for PUSH1..PUSH32
	StackIn   int
	StackOut  int
}

// opEntry is one row of the known-opcode table.
type opEntry struct {
	mnemonic Mnemonic
	stackIn  int
	stackOut int
}

// opcodeTable maps every known EVM opcode byte to its static stack arity.
// Built on github.com/ethereum/go-ethereum/core/vm's OpCode enum and
// stringer rather than a hand-written name table, per DESIGN.md.
var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() map[byte]opEntry {
	t := map[byte]opEntry{}
	add := func(op vm.OpCode, in, out int) {
		t[byte(op)] = opEntry{mnemonic: Mnemonic(op.String()), stackIn: in, stackOut: out}
	}

	add(vm.STOP, 0, 0)
	add(vm.ADD, 2, 1)
	add(vm.MUL, 2, 1)
	add(vm.SUB, 2, 1)
	add(vm.DIV, 2, 1)
	add(vm.SDIV, 2, 1)
	add(vm.MOD, 2, 1)
	add(vm.SMOD, 2, 1)
	add(vm.ADDMOD, 3, 1)
	add(vm.MULMOD, 3, 1)
	add(vm.EXP, 2, 1)
	add(vm.SIGNEXTEND, 2, 1)

	add(vm.LT, 2, 1)
	add(vm.GT, 2, 1)
	add(vm.SLT, 2, 1)
	add(vm.SGT, 2, 1)
	add(vm.EQ, 2, 1)
	add(vm.ISZERO, 1, 1)
	add(vm.AND, 2, 1)
	add(vm.OR, 2, 1)
	add(vm.XOR, 2, 1)
	add(vm.NOT, 1, 1)
	add(vm.BYTE, 2, 1)
	add(vm.SHL, 2, 1)
	add(vm.SHR, 2, 1)
	add(vm.SAR, 2, 1)

	add(vm.KECCAK256, 2, 1)

	add(vm.ADDRESS, 0, 1)
	add(vm.BALANCE, 1, 1)
	add(vm.ORIGIN, 0, 1)
	add(vm.CALLER, 0, 1)
	add(vm.CALLVALUE, 0, 1)
	add(vm.CALLDATALOAD, 1, 1)
	add(vm.CALLDATASIZE, 0, 1)
	add(vm.CALLDATACOPY, 3, 0)
	add(vm.CODESIZE, 0, 1)
	add(vm.CODECOPY, 3, 0)
	add(vm.GASPRICE, 0, 1)
	add(vm.EXTCODESIZE, 1, 1)
	add(vm.EXTCODECOPY, 4, 0)
	add(vm.RETURNDATASIZE, 0, 1)
	add(vm.RETURNDATACOPY, 3, 0)
	add(vm.EXTCODEHASH, 1, 1)

	add(vm.BLOCKHASH, 1, 1)
	add(vm.COINBASE, 0, 1)
	add(vm.TIMESTAMP, 0, 1)
	add(vm.NUMBER, 0, 1)
	add(vm.PREVRANDAO, 0, 1)
	add(vm.GASLIMIT, 0, 1)
	add(vm.CHAINID, 0, 1)
	add(vm.SELFBALANCE, 0, 1)
	add(vm.BASEFEE, 0, 1)

	add(vm.POP, 1, 0)
	add(vm.MLOAD, 1, 1)
	add(vm.MSTORE, 2, 0)
	add(vm.MSTORE8, 2, 0)
	add(vm.SLOAD, 1, 1)
	add(vm.SSTORE, 2, 0)
	add(vm.JUMP, 1, 0)
	add(vm.JUMPI, 2, 0)
	add(vm.PC, 0, 1)
	add(vm.MSIZE, 0, 1)
	add(vm.GAS, 0, 1)
	add(vm.JUMPDEST, 0, 0)

	for n := 1; n <= 32; n++ {
		add(vm.OpCode(byte(vm.PUSH1)+byte(n-1)), 0, 1)
	}
	for n := 1; n <= 16; n++ {
		add(vm.OpCode(byte(vm.DUP1)+byte(n-1)), n, n+1)
	}
	for n := 1; n <= 16; n++ {
		add(vm.OpCode(byte(vm.SWAP1)+byte(n-1)), n+1, n+1)
	}
	for n := 0; n <= 4; n++ {
		add(vm.OpCode(byte(vm.LOG0)+byte(n)), n+2, 0)
	}

	add(vm.CREATE, 3, 1)
	add(vm.CALL, 7, 1)
	add(vm.CALLCODE, 7, 1)
	add(vm.RETURN, 2, 0)
	add(vm.DELEGATECALL, 6, 1)
	add(vm.CREATE2, 4, 1)
	add(vm.STATICCALL, 6, 1)
	add(vm.REVERT, 2, 0)
	add(vm.INVALID, 0, 0)
	add(vm.SELFDESTRUCT, 1, 0)

	return t
}

// isPush reports whether op is PUSH1..PUSH32, returning the immediate
// length N (1..32) if so.
func isPush(op byte) (n int, ok bool) {
	if op >= byte(vm.PUSH1) && op <= byte(vm.PUSH32) {
		return int(op-byte(vm.PUSH1)) + 1, true
	}
	return 0, false
}

// isTerminator reports whether mnemonic ends a basic block per spec.md §4.2.
func (m Mnemonic) isTerminator() bool {
	switch m {
	case Mnemonic(vm.STOP.String()), Mnemonic(vm.RETURN.String()), Mnemonic(vm.REVERT.String()),
		Mnemonic(vm.SELFDESTRUCT.String()), Mnemonic(vm.JUMP.String()), Mnemonic(vm.JUMPI.String()):
		return true
	default:
		return false
	}
}

// unknownMnemonic formats an unrecognized opcode byte as "0xNN".
func unknownMnemonic(b byte) Mnemonic {
	return Mnemonic(fmt.Sprintf("0x%02x", b))
}
