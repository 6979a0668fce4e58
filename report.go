package delegatescan

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// options holds the resolved settings for an [Analyze] call. The zero value
// is never used directly: [Analyze] seeds useCFG to true before applying
// opts, matching spec.md §6's "useCFG default true".
type options struct {
	contractAddress string
	network         string
	useCFG          bool
}

// Option configures an [Analyze] call.
type Option func(*options)

// WithContractAddress attaches the analyzed contract's address to the
// resulting [Report] and uses it as the contract node's id in the derived
// [Graph].
func WithContractAddress(address string) Option {
	return func(o *options) { o.contractAddress = address }
}

// WithNetwork attaches a network name (e.g. "mainnet") to the resulting
// [Report]. Purely descriptive: it does not affect analysis.
func WithNetwork(network string) Option {
	return func(o *options) { o.network = network }
}

// WithLinearMode selects the linear fallback tracer (spec.md §4.3) instead
// of the default interblock CFG fixed point.
func WithLinearMode() Option {
	return func(o *options) { o.useCFG = false }
}

// SiteRecord is the JSON-facing projection of a [DelegatecallSite] in a
// [Report], per spec.md §6's schema.
type SiteRecord struct {
	ID             SiteID               `json:"id"`
	PC             int                  `json:"pc"`
	Classification TargetClassification `json:"classification"`
	Pattern        *PatternMatch        `json:"pattern,omitempty"`
	Risk           RiskLevel            `json:"risk"`
	Notes          string               `json:"notes,omitempty"`
}

// ProxySummary is one entry of a [Report]'s proxiesDetected histogram.
type ProxySummary struct {
	Name  PatternName `json:"name"`
	Count int         `json:"count"`
}

// Report is the immutable result of [Analyze], per spec.md §3/§6.
type Report struct {
	ContractAddress   string         `json:"contractAddress,omitempty"`
	Network           string         `json:"network,omitempty"`
	BytecodeHash      string         `json:"bytecodeHash"`
	DelegatecallCount int            `json:"delegatecallCount"`
	OverallRisk       RiskLevel      `json:"overallRisk,omitempty"`
	Sites             []SiteRecord   `json:"sites"`
	ProxiesDetected   []ProxySummary `json:"proxiesDetected"`
	Graph             Graph          `json:"graph"`
}

// Analyze runs the full pipeline — disassembly, CFG construction, symbolic
// tracing, classification, pattern detection, risk assessment and graph
// construction — over bytecode and assembles the resulting [Report], per
// spec.md §4.6 and §6.
//
// Analyze is total on any hex string: malformed bytecode is the one input
// error it returns ([ErrMalformedBytecode]); every other input, however
// degenerate, yields a Report with sites approximated to Unknown where
// precision was lost, per spec.md §7.
func Analyze(bytecode string, opts ...Option) (Report, error) {
	cfg := options{useCFG: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	instructions, err := Disassemble(bytecode)
	if err != nil {
		return Report{}, err
	}

	var sites []DelegatecallSite
	if cfg.useCFG {
		sites = Trace(BuildCFG(instructions), instructions, true)
	} else {
		sites = Trace(nil, instructions, false)
	}

	for i := range sites {
		sites[i].Classification = Classify(sites[i].Target)
	}

	sites = DetectPatterns(bytecode, sites)

	for i := range sites {
		sites[i].Risk = siteRisk(sites[i].Classification, sites[i].Pattern)
		if needsEnvironmentNote(sites[i]) {
			sites[i].Notes = "target influenced by caller/origin"
		}
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].PC < sites[j].PC })

	report := Report{
		ContractAddress:   cfg.contractAddress,
		Network:           cfg.network,
		BytecodeHash:      hashBytecode(bytecode),
		DelegatecallCount: len(sites),
		Sites:             toSiteRecords(sites),
		ProxiesDetected:   summarizeProxies(sites),
		Graph:             BuildGraph(cfg.contractAddress, sites),
	}
	if overall, ok := OverallRisk(sites); ok {
		report.OverallRisk = overall
	}
	return report, nil
}

// needsEnvironmentNote implements the §4.7 supplemented detection: a
// dynamic or calldata-derived target whose expression tree reads CALLER or
// ORIGIN gets an explanatory note, without changing its classification tag.
func needsEnvironmentNote(site DelegatecallSite) bool {
	if site.Classification.Type != TargetDynamic && site.Classification.Type != TargetCalldata {
		return false
	}
	return containsEnvironment(site.Target)
}

// hashBytecode hashes bytecode exactly as received — no "0x"-stripping, no
// case-folding — per spec.md §8 invariant 1 and the §9 open-question
// resolution recorded in SPEC_FULL.md.
func hashBytecode(bytecode string) string {
	sum := sha256.Sum256([]byte(bytecode))
	return hex.EncodeToString(sum[:])
}

func toSiteRecords(sites []DelegatecallSite) []SiteRecord {
	out := make([]SiteRecord, 0, len(sites))
	for _, s := range sites {
		out = append(out, SiteRecord{
			ID:             s.ID,
			PC:             s.PC,
			Classification: s.Classification,
			Pattern:        s.Pattern,
			Risk:           s.Risk,
			Notes:          s.Notes,
		})
	}
	return out
}

// summarizeProxies builds the proxiesDetected histogram in first-appearance
// order, which is stable across repeated calls on equivalent input (sites
// are already PC-sorted) even though spec.md §6 leaves the order
// unspecified.
func summarizeProxies(sites []DelegatecallSite) []ProxySummary {
	counts := map[PatternName]int{}
	var order []PatternName
	for _, s := range sites {
		if s.Pattern == nil {
			continue
		}
		if _, ok := counts[s.Pattern.Name]; !ok {
			order = append(order, s.Pattern.Name)
		}
		counts[s.Pattern.Name]++
	}

	out := make([]ProxySummary, 0, len(order))
	for _, name := range order {
		out = append(out, ProxySummary{Name: name, Count: counts[name]})
	}
	return out
}
