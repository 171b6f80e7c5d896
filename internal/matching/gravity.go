// internal/matching/gravity.go
// The compatibility scorer. Evaluation order is part of the contract:
// it decides which rule wins the icebreaker slot.

package matching

import (
	"fmt"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

const (
	skillTradePoints    = 40
	sharedSubjectPoints = 15
	sharedSubjectCap    = 45
	statusSynergyPoints = 15
	maxScore            = 100

	BadgeApprentice = "Apprentice"
	BadgeGuide      = "Guide"
	BadgeTwinStars  = "Twin Stars"
)

// MatchingResult is the scored outcome of putting two profiles side by
// side. Reasons preserve trigger order; badges are a value set.
type MatchingResult struct {
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons"`
	Badges     []string `json:"badges"`
	Icebreaker *string  `json:"icebreaker"`
}

// subjectPrompts are curated openers for well-known subjects. Anything
// else falls back to a generic compare-notes line.
var subjectPrompts = map[string]string{
	"Data Structures": "Ask them which data structure they'd bring to a desert island.",
	"Algorithms":      "Ask them whether they dream in Big-O notation yet.",
	"Calculus":        "Ask them if they've made peace with epsilon and delta.",
	"Physics":         "Ask them which law of physics they'd break first.",
	"Chemistry":       "Ask them about the last reaction that surprised them.",
	"Statistics":      "Ask them how confident they are — with an interval.",
	"Linear Algebra":  "Ask them what their favorite matrix decomposition says about them.",
}

// CalculateGravityPull scores other against self. Pure: no clocks, no
// I/O, same inputs always give the same result.
func CalculateGravityPull(self, other *orbit.UserProfile) *MatchingResult {
	result := &MatchingResult{
		Reasons: []string{},
		Badges:  []string{},
	}

	// 1. They can teach something self wants to learn. This rule owns
	// the icebreaker slot outright.
	if subject, ok := firstIntersection(other.TeachingSubjects, self.LearningSubjects); ok {
		result.Score += skillTradePoints
		result.Reasons = append(result.Reasons, fmt.Sprintf("They can teach you %s", subject))
		addBadge(result, BadgeApprentice)
		icebreaker := fmt.Sprintf("%s can teach you %s — ask them where to start!", other.DisplayName, subject)
		result.Icebreaker = &icebreaker
	}

	// 2. Self can teach them something.
	if subject, ok := firstIntersection(self.TeachingSubjects, other.LearningSubjects); ok {
		result.Score += skillTradePoints
		result.Reasons = append(result.Reasons, fmt.Sprintf("You can teach them %s", subject))
		if !hasBadge(result, BadgeApprentice) {
			addBadge(result, BadgeGuide)
		}
	}

	// 3. Shared general interests, 15 points each, capped at 45.
	shared := intersection(self.Subjects, other.Subjects)
	if len(shared) > 0 {
		points := len(shared) * sharedSubjectPoints
		if points > sharedSubjectCap {
			points = sharedSubjectCap
		}
		result.Score += points
		result.Reasons = append(result.Reasons, fmt.Sprintf("You share %d subject(s)", len(shared)))
		if len(shared) >= 3 {
			addBadge(result, BadgeTwinStars)
		}
		if result.Icebreaker == nil {
			icebreaker := promptFor(shared[0])
			result.Icebreaker = &icebreaker
		}
	}

	// 4. Both actively looking for company.
	if self.Status() == orbit.StatusInOrbit && other.Status() == orbit.StatusInOrbit {
		result.Score += statusSynergyPoints
		result.Reasons = append(result.Reasons, "You're both in orbit right now")
	}

	if result.Score > maxScore {
		result.Score = maxScore
	}

	return result
}

func promptFor(subject string) string {
	if prompt, ok := subjectPrompts[subject]; ok {
		return prompt
	}
	return fmt.Sprintf("You both study %s — compare notes!", subject)
}

// firstIntersection returns the first element of a that also appears
// in b, in a's order.
func firstIntersection(a, b []string) (string, bool) {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	for _, v := range a {
		if _, ok := set[v]; ok {
			return v, true
		}
	}
	return "", false
}

// intersection returns a's elements that appear in b, preserving a's
// order. Duplicates in a count each time; the score cap bounds the
// damage.
func intersection(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func addBadge(r *MatchingResult, badge string) {
	if !hasBadge(r, badge) {
		r.Badges = append(r.Badges, badge)
	}
}

func hasBadge(r *MatchingResult, badge string) bool {
	for _, b := range r.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
