package metrics

import "math"

// maxMaintainability is the ceiling of the raw (non-normalized)
// maintainability index.
const maxMaintainability = 171.0

// MaintainabilityIndex computes
//
//	MI = 171 - 3.42*ln(effort) - 0.23*ln(cyclomatic) - 16.2*ln(loc)
//
// capped at 171. When newMI is set the result is rescaled to the
// 0..100 range and floored at zero. A zero input drives its log term
// to -Inf, which the cap absorbs.
func MaintainabilityIndex(effort, cyclomatic, loc float64, newMI bool) float64 {
	mi := maxMaintainability -
		3.42*math.Log(effort) -
		0.23*math.Log(cyclomatic) -
		16.2*math.Log(loc)
	if math.IsNaN(mi) || mi > maxMaintainability {
		mi = maxMaintainability
	}
	if newMI {
		mi = math.Max(0, mi*100/maxMaintainability)
	}
	return mi
}

// CyclomaticDensity returns cyclomatic complexity as a percentage of
// logical lines, or zero for a unit without statements.
func CyclomaticDensity(cyclomatic, logical int) float64 {
	if logical == 0 {
		return 0
	}
	return float64(cyclomatic) / float64(logical) * 100
}
