package model

import "time"

// Tier is an achievement rank.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// OrDefault maps unknown tiers to bronze.
func (tier Tier) OrDefault() Tier {
	switch tier {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return tier
	}
	return TierBronze
}

// RequirementType names what an achievement counts.
type RequirementType string

const (
	RequirementSessions RequirementType = "sessions"
	RequirementStreak   RequirementType = "streak"
)

// Requirement is the target an achievement needs.
type Requirement struct {
	Type  RequirementType `json:"type"`
	Value int             `json:"value"`
}

// Achievement is a catalog entry.
type Achievement struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Tier        Tier        `json:"tier"`
	Requirement Requirement `json:"requirement"`
}

// AchievementWithStatus is the gallery read model.
type AchievementWithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt"`
}

// CelebrationItem is a single unlock notification. It is also the
// AchievementUnlocked event payload.
type CelebrationItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tier        Tier      `json:"tier"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// StreakPayload is carried by StreakUpdated events.
type StreakPayload struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}
