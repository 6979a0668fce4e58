package delegatescan

// RiskLevel is a per-site or overall risk assessment. The total order is
// low < medium < high < unknown — unknown sorts above high, reflecting
// "we could not prove it safe", per spec.md §4.6.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

var riskRank = map[RiskLevel]int{
	RiskLow:     0,
	RiskMedium:  1,
	RiskHigh:    2,
	RiskUnknown: 3,
}

// siteRisk derives a single site's risk from its classification and
// pattern match, per spec.md §4.6.
func siteRisk(cls TargetClassification, pattern *PatternMatch) RiskLevel {
	switch cls.Type {
	case TargetHardcoded:
		if pattern != nil && pattern.Name == PatternEIP1167 {
			return RiskMedium
		}
		return RiskLow
	case TargetStorage:
		return RiskMedium
	case TargetCalldata, TargetDynamic:
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// OverallRisk is the maximum per-site risk under the order low < medium <
// high < unknown. ok is false iff sites is empty, per spec.md §4.6 and §8
// invariant 5.
func OverallRisk(sites []DelegatecallSite) (level RiskLevel, ok bool) {
	if len(sites) == 0 {
		return "", false
	}
	max := sites[0].Risk
	for _, s := range sites[1:] {
		if riskRank[s.Risk] > riskRank[max] {
			max = s.Risk
		}
	}
	return max, true
}
