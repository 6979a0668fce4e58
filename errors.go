package delegatescan

import "errors"

// ErrMalformedBytecode is returned by [Disassemble] when the input is not a
// valid hex string (odd length, or contains non-hex characters).
var ErrMalformedBytecode = errors.New("delegatescan: malformed bytecode: not a valid hex string")

// ErrNoCode is returned by a code-fetching collaborator when the queried
// address has no deployed bytecode ("0x").
var ErrNoCode = errors.New("delegatescan: no code at address")

// ErrMissingRPCConfig is returned by a code-fetching collaborator when no
// RPC endpoint could be resolved for the requested network.
var ErrMissingRPCConfig = errors.New("delegatescan: missing RPC configuration")
