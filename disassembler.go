package delegatescan

import (
	"encoding/hex"
	"strings"
)

// Disassemble parses a hex-encoded bytecode string (with or without a
// leading "0x") into an ordered sequence of [Instruction] values.
//
// Malformed hex — odd length, or characters outside [0-9a-fA-F] — returns
// [ErrMalformedBytecode]. Every other byte string, including the empty
// string, disassembles successfully: unrecognized opcode bytes become a
// single-byte "0xNN" instruction rather than an error, per spec.md §4.1.
//
// Grounded on detector.go's DetectPrologues decode loop: an offset/addr
// cursor walking the byte slice, advancing by the decoded instruction's
// length, falling back to a single byte on failure to decode.
func Disassemble(bytecode string) ([]Instruction, error) {
	code, err := decodeBytecodeHex(bytecode)
	if err != nil {
		return nil, err
	}

	var result []Instruction
	pc := 0
	for pc < len(code) {
		b := code[pc]

		if n, ok := isPush(b); ok {
			end := pc + 1 + n
			var imm []byte
			if end <= len(code) {
				imm = code[pc+1 : end]
			} else {
				// Truncated past end-of-code: zero-pad, per spec.md §4.1.
				imm = make([]byte, n)
				copy(imm, code[pc+1:])
			}
			entry := opcodeTable[b]
			result = append(result, Instruction{
				PC:        pc,
				Mnemonic:  entry.mnemonic,
				Immediate: "0x" + hex.EncodeToString(imm),
				StackIn:   entry.stackIn,
				StackOut:  entry.stackOut,
			})
			pc += 1 + n
			continue
		}

		if entry, known := opcodeTable[b]; known {
			result = append(result, Instruction{
				PC:       pc,
				Mnemonic: entry.mnemonic,
				StackIn:  entry.stackIn,
				StackOut: entry.stackOut,
			})
			pc++
			continue
		}

		result = append(result, Instruction{
			PC:       pc,
			Mnemonic: unknownMnemonic(b),
			StackIn:  0,
			StackOut: 0,
		})
		pc++
	}

	return result, nil
}

// decodeBytecodeHex strips an optional leading "0x" and decodes fixed
// 2-char hex chunks into bytes. Odd length or non-hex characters are
// reported as ErrMalformedBytecode, matching spec.md §4.1's exact error
// semantics — a generic hex decoder (e.g. go-ethereum's
// common/hexutil.Decode) enforces a different, narrower set of input
// conventions and would not produce this contract (see DESIGN.md).
func decodeBytecodeHex(bytecode string) ([]byte, error) {
	s := strings.TrimPrefix(bytecode, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 != 0 {
		return nil, ErrMalformedBytecode
	}
	code, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrMalformedBytecode
	}
	return code, nil
}
