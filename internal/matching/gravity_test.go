package matching

import (
	"strings"
	"testing"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

func profileWith(id int64, subjects, teaching, learning []string) *orbit.UserProfile {
	return &orbit.UserProfile{
		ID:               id,
		DisplayName:      "User",
		Subjects:         subjects,
		TeachingSubjects: teaching,
		LearningSubjects: learning,
	}
}

func hasString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func TestCalculateGravityPull_SkillTradeOtherTeachesSelf(t *testing.T) {
	self := profileWith(1, nil, nil, []string{"Data Structures"})
	other := profileWith(2, nil, []string{"Data Structures"}, nil)

	got := CalculateGravityPull(self, other)

	if got.Score < 40 {
		t.Errorf("score = %d, want >= 40", got.Score)
	}
	if !hasString(got.Badges, BadgeApprentice) {
		t.Errorf("badges = %v, want %q", got.Badges, BadgeApprentice)
	}
	if got.Icebreaker == nil || !strings.Contains(*got.Icebreaker, "Data Structures") {
		t.Errorf("icebreaker should mention the matched subject, got %v", got.Icebreaker)
	}
}

func TestCalculateGravityPull_ThreeSharedSubjects(t *testing.T) {
	shared := []string{"Calculus", "Physics", "Chemistry"}
	self := profileWith(1, shared, nil, nil)
	other := profileWith(2, shared, nil, nil)

	got := CalculateGravityPull(self, other)

	if got.Score != 45 {
		t.Errorf("score = %d, want 45 (3 shared subjects, capped)", got.Score)
	}
	if !hasString(got.Badges, BadgeTwinStars) {
		t.Errorf("badges = %v, want %q", got.Badges, BadgeTwinStars)
	}
}

func TestCalculateGravityPull_SharedSubjectsCapAt45(t *testing.T) {
	shared := []string{"A", "B", "C", "D", "E"}
	got := CalculateGravityPull(profileWith(1, shared, nil, nil), profileWith(2, shared, nil, nil))
	if got.Score != 45 {
		t.Errorf("score = %d, want 45 for five shared subjects", got.Score)
	}
}

func TestCalculateGravityPull_ClampAt100(t *testing.T) {
	inOrbit := orbit.StatusInOrbit
	self := profileWith(1, []string{"A", "B", "C"}, []string{"X"}, []string{"Y"})
	self.OrbitStatus = &inOrbit
	other := profileWith(2, []string{"A", "B", "C"}, []string{"Y"}, []string{"X"})
	other.OrbitStatus = &inOrbit

	// 40 + 40 + 45 + 15 = 140 before clamping.
	got := CalculateGravityPull(self, other)
	if got.Score != 100 {
		t.Errorf("score = %d, want clamp at 100", got.Score)
	}
}

func TestCalculateGravityPull_EmptyProfiles(t *testing.T) {
	got := CalculateGravityPull(profileWith(1, nil, nil, nil), profileWith(2, nil, nil, nil))

	if got.Score != 0 {
		t.Errorf("score = %d, want 0", got.Score)
	}
	if len(got.Reasons) != 0 || len(got.Badges) != 0 {
		t.Errorf("expected empty reasons/badges, got %v / %v", got.Reasons, got.Badges)
	}
	if got.Icebreaker != nil {
		t.Errorf("expected nil icebreaker, got %q", *got.Icebreaker)
	}
}

func TestCalculateGravityPull_ScoreAlwaysInBounds(t *testing.T) {
	inOrbit := orbit.StatusInOrbit
	profiles := []*orbit.UserProfile{
		profileWith(1, nil, nil, nil),
		profileWith(2, []string{"A"}, []string{"A"}, []string{"A"}),
		func() *orbit.UserProfile {
			p := profileWith(3, []string{"A", "B", "C", "D"}, []string{"E", "F"}, []string{"G"})
			p.OrbitStatus = &inOrbit
			return p
		}(),
	}

	for _, self := range profiles {
		for _, other := range profiles {
			got := CalculateGravityPull(self, other)
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("score %d out of [0,100] for %d vs %d", got.Score, self.ID, other.ID)
			}
		}
	}
}

func TestCalculateGravityPull_SkillTradeIcebreakerWinsOverShared(t *testing.T) {
	self := profileWith(1, []string{"Physics"}, nil, []string{"Algorithms"})
	other := profileWith(2, []string{"Physics"}, []string{"Algorithms"}, nil)

	got := CalculateGravityPull(self, other)

	if got.Icebreaker == nil || !strings.Contains(*got.Icebreaker, "Algorithms") {
		t.Errorf("skill-trade icebreaker should win the slot, got %v", got.Icebreaker)
	}
}

func TestCalculateGravityPull_GuideOnlyWithoutApprentice(t *testing.T) {
	self := profileWith(1, nil, []string{"Calculus"}, nil)
	other := profileWith(2, nil, nil, []string{"Calculus"})

	got := CalculateGravityPull(self, other)

	if !hasString(got.Badges, BadgeGuide) {
		t.Errorf("badges = %v, want %q", got.Badges, BadgeGuide)
	}
	if hasString(got.Badges, BadgeApprentice) {
		t.Errorf("badges = %v, should not contain %q", got.Badges, BadgeApprentice)
	}
}

func TestCalculateGravityPull_MutualTradeKeepsApprenticeOnly(t *testing.T) {
	self := profileWith(1, nil, []string{"Calculus"}, []string{"Physics"})
	other := profileWith(2, nil, []string{"Physics"}, []string{"Calculus"})

	got := CalculateGravityPull(self, other)

	if got.Score != 80 {
		t.Errorf("score = %d, want 80 for a mutual skill trade", got.Score)
	}
	if !hasString(got.Badges, BadgeApprentice) || hasString(got.Badges, BadgeGuide) {
		t.Errorf("badges = %v, want Apprentice only", got.Badges)
	}
}

func TestCalculateGravityPull_StatusSynergy(t *testing.T) {
	inOrbit := orbit.StatusInOrbit
	highGravity := orbit.StatusHighGravity

	self := profileWith(1, nil, nil, nil)
	other := profileWith(2, nil, nil, nil)
	self.OrbitStatus = &inOrbit
	other.OrbitStatus = &inOrbit

	if got := CalculateGravityPull(self, other); got.Score != 15 {
		t.Errorf("score = %d, want 15 for in-orbit synergy", got.Score)
	}

	// Matching statuses other than "In Orbit" earn no synergy points.
	self.OrbitStatus = &highGravity
	other.OrbitStatus = &highGravity
	if got := CalculateGravityPull(self, other); got.Score != 0 {
		t.Errorf("score = %d, want 0 for non-orbit synergy", got.Score)
	}
}

func TestCalculateGravityPull_GenericPromptForUnknownSubject(t *testing.T) {
	self := profileWith(1, []string{"Underwater Basket Weaving"}, nil, nil)
	other := profileWith(2, []string{"Underwater Basket Weaving"}, nil, nil)

	got := CalculateGravityPull(self, other)
	if got.Icebreaker == nil || !strings.Contains(*got.Icebreaker, "Underwater Basket Weaving") {
		t.Errorf("generic prompt should name the subject, got %v", got.Icebreaker)
	}
}
