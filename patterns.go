package delegatescan

import "strings"

// PatternName is one of the recognized standard proxy idioms.
type PatternName string

const (
	PatternEIP1167 PatternName = "EIP-1167"
	PatternEIP1967 PatternName = "EIP-1967"
	PatternUUPS    PatternName = "UUPS"
	PatternDiamond PatternName = "Diamond"
)

// PatternMatch names a detected proxy pattern and describes it in prose.
// At most one match is attached per site, per spec.md §3.
type PatternMatch struct {
	Name        PatternName `json:"name"`
	Description string      `json:"description,omitempty"`
}

const (
	eip1167Prefix = "363d3d373d3d3d363d73"
	eip1167Suffix = "5af43d82803e903d91602b57fd5bf3"
)

// DetectPatterns cross-references site classifications with byte-level
// patterns and known storage slots to identify standard proxy idioms, per
// spec.md §4.5. It returns sites with Pattern populated; it does not
// mutate its input.
func DetectPatterns(bytecode string, sites []DelegatecallSite) []DelegatecallSite {
	out := make([]DelegatecallSite, len(sites))
	copy(out, sites)

	if isEIP1167(bytecode) {
		match := &PatternMatch{Name: PatternEIP1167, Description: "Minimal proxy (EIP-1167) cloning a single implementation."}
		for i := range out {
			out[i].Pattern = match
		}
		return out
	}

	slotSet := map[string]bool{}
	for _, s := range out {
		if s.Classification.StorageSlotLiteral != "" {
			slotSet[s.Classification.StorageSlotLiteral] = true
		}
	}
	hasUUPSSlot := slotSet[uupsImplementationSlot]

	for i := range out {
		if out[i].Classification.StorageSlotLiteral == eip1967ImplementationSlot {
			if hasUUPSSlot {
				out[i].Pattern = &PatternMatch{Name: PatternUUPS, Description: "UUPS (EIP-1822) upgradeable proxy: upgrade logic lives in the implementation."}
			} else {
				out[i].Pattern = &PatternMatch{Name: PatternEIP1967, Description: "Transparent proxy using the EIP-1967 implementation storage slot."}
			}
		}
	}

	storageSiteCount := 0
	for _, s := range out {
		if s.Classification.Type == TargetStorage {
			storageSiteCount++
		}
	}
	if storageSiteCount >= 2 && len(slotSet) >= 2 {
		match := &PatternMatch{Name: PatternDiamond, Description: "Diamond (EIP-2535) proxy dispatching to multiple facets by storage-mapped address."}
		for i := range out {
			if out[i].Pattern == nil {
				out[i].Pattern = match
			}
		}
	}

	return out
}

// isEIP1167 searches the lowercase bytecode for the EIP-1167 minimal-proxy
// prefix followed, at least 40 hex chars later (past a 20-byte
// implementation address), by its suffix.
func isEIP1167(bytecode string) bool {
	lower := strings.ToLower(strings.TrimPrefix(bytecode, "0x"))

	prefixIdx := strings.Index(lower, eip1167Prefix)
	if prefixIdx < 0 {
		return false
	}

	minSuffixStart := prefixIdx + len(eip1167Prefix) + 40
	if minSuffixStart > len(lower) {
		return false
	}

	return strings.Contains(lower[minSuffixStart:], eip1167Suffix)
}
