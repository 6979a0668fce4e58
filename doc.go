// Package delegatescan statically analyzes EVM contract bytecode to find
// every DELEGATECALL instruction, recover a symbolic description of its
// target address, and classify the proxy pattern (if any) that produced it.
//
// # Pipeline
//
// Analysis runs as a one-way pipeline with no feedback edges:
//
//	Disassemble -> BuildCFG -> Trace -> Classify -> DetectPatterns -> Analyze (risk + report)
//
// [Analyze] drives the whole pipeline and is the package's main entry
// point.
//
// # Disassembly and control flow
//
// [Disassemble] turns a hex-encoded bytecode string into a sequence of
// [Instruction] values. [BuildCFG] partitions that sequence into
// [BasicBlock]s linked into a [CFG] by fallthrough edges; JUMP targets and
// the taken branch of JUMPI are left unresolved.
//
// # Symbolic tracing
//
// [Trace] performs a forward abstract interpretation over the CFG (or, in
// linear mode, straight down the instruction stream) to recover the
// [StackExpression] that reaches the `to` argument of each DELEGATECALL.
// Abstract state join is described in [JoinState].
//
// # Classification and pattern detection
//
// [Classify] tags a [StackExpression] with a [TargetKind] plus any literal
// metadata. [DetectPatterns] cross-references those classifications with
// byte-level signatures and known storage slots to recognize EIP-1167,
// EIP-1967, UUPS and Diamond proxies.
//
// # Risk and report
//
// Each [DelegatecallSite] is assigned a [RiskLevel]; the contract as a
// whole gets the maximum risk under the order low < medium < high <
// unknown. The resulting [Report] also carries a derived dataflow [Graph]
// suitable for downstream tooling.
//
// # Scope
//
// The package does not execute bytecode, does not reason about storage
// values across transactions, and does not solve indirect jump targets by
// constant propagation. It is not a general security scanner: it reports
// only the DELEGATECALL surface.
package delegatescan
