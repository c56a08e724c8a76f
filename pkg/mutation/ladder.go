package mutation

import "math"

// The number of edges added by a bidirectional mutation is drawn from a
// ladder centred on the number deleted, kd:
//
//	P(kd) = 0.5, P(kd±1) = 0.15, P(kd±j) = 0.2·2^-j for j ≥ 2
//
// truncated to ka ≥ 1 and renormalized. The untruncated ladder sums to one,
// so the normalization is one minus the mass that falls below ka = 1.

func ladderStep(j int) float64 {
	switch j {
	case 0:
		return 0.5
	case 1:
		return 0.15
	}
	return 0.2 * math.Ldexp(1, -j)
}

// ladderNorm is the ladder mass at ka ≥ 1 for a given kd
func ladderNorm(kd int) float64 {
	if kd == 1 {
		// j = 1 (0.15) and all j ≥ 2 (0.1)
		return 0.75
	}
	// Σ_{j≥kd} 0.2·2^-j
	return 1 - 0.4*math.Ldexp(1, -kd)
}

// ladderProbability returns P(ka | kd)
func ladderProbability(ka, kd int) float64 {
	if ka < 1 || kd < 1 {
		return 0
	}
	j := ka - kd
	if j < 0 {
		j = -j
	}
	return ladderStep(j) / ladderNorm(kd)
}

// sampleLadder draws ka for kd with u in [0, 1)
func sampleLadder(kd int, u float64) int {
	norm := ladderNorm(kd)
	target := u * norm
	cumulative := 0.0
	ka := 1
	for ; ka < kd+64; ka++ {
		cumulative += ladderStep(abs(ka - kd))
		if target < cumulative {
			return ka
		}
	}
	return ka
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
