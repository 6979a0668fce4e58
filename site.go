package delegatescan

// SiteID identifies a [DelegatecallSite] by its PC.
type SiteID = int

// DelegatecallSite is a record produced for each DELEGATECALL instruction
// found during tracing. It is progressively enriched by later pipeline
// stages: [Trace] fills Target, [Classify] fills Classification, and
// [DetectPatterns] fills Pattern.
type DelegatecallSite struct {
	ID            SiteID
	PC            int
	BlockID       BlockID
	Target        StackExpression
	Classification TargetClassification
	Pattern       *PatternMatch
	Risk          RiskLevel
	Notes         string
}
