// internal/orbit/level.go
// Mass drives level and rank progression.

package orbit

import "math"

// rankNames is ordered by level; levels past the end stay at the top rank.
var rankNames = []string{
	"Stardust",
	"Meteoroid",
	"Comet",
	"Satellite",
	"Planet",
	"Gas Giant",
	"Star",
	"Supernova",
	"Neutron Star",
	"Black Hole",
}

// LevelInfo describes where a given mass lands on the progression curve.
type LevelInfo struct {
	Level              int     `json:"level"`
	Rank               string  `json:"rank"`
	NextLevelThreshold int     `json:"nextLevelThreshold"`
	Progress           float64 `json:"progress"`
}

// ComputeLevel maps cumulative mass to level, rank and progress toward
// the next level. level = floor(sqrt(mass/50)) + 1.
func ComputeLevel(mass int) LevelInfo {
	if mass < 0 {
		mass = 0
	}

	level := int(math.Floor(math.Sqrt(float64(mass)/50))) + 1

	rankIdx := level - 1
	if rankIdx >= len(rankNames) {
		rankIdx = len(rankNames) - 1
	}

	// Mass needed to reach the next level: 50 * level^2.
	threshold := 50 * level * level
	progress := float64(mass%threshold) / float64(threshold)

	return LevelInfo{
		Level:              level,
		Rank:               rankNames[rankIdx],
		NextLevelThreshold: threshold,
		Progress:           progress,
	}
}
