package engine

import "cozyfocus/internal/core/model"

// Catalog returns the achievement definitions in evaluation order.
func Catalog() []model.Achievement {
	return []model.Achievement{
		sessions("first_session", "First Focus", "Complete your first session", "Flame", model.TierBronze, 1),
		streak("streak_7", "Week Warrior", "7-day streak", "Zap", model.TierSilver, 7),
		streak("streak_14", "Fortnight Focus", "14-day streak", "Award", model.TierGold, 14),
		streak("streak_30", "Monthly Master", "30-day streak", "Crown", model.TierPlatinum, 30),
		sessions("sessions_10", "Getting Started", "10 total sessions", "Target", model.TierBronze, 10),
		sessions("sessions_50", "Half Century", "50 total sessions", "Trophy", model.TierSilver, 50),
		sessions("sessions_100", "Centurion", "100 total sessions", "Medal", model.TierGold, 100),
		sessions("sessions_500", "Focus Legend", "500 total sessions", "Crown", model.TierPlatinum, 500),
	}
}

func sessions(id, title, description, icon string, tier model.Tier, count int) model.Achievement {
	return model.Achievement{
		ID:          id,
		Title:       title,
		Description: description,
		Icon:        icon,
		Tier:        tier,
		Requirement: model.Requirement{Type: model.RequirementSessions, Value: count},
	}
}

func streak(id, title, description, icon string, tier model.Tier, days int) model.Achievement {
	achievement := sessions(id, title, description, icon, tier, days)
	achievement.Requirement.Type = model.RequirementStreak
	return achievement
}

// Met reports whether progress satisfies requirement.
func Met(requirement model.Requirement, progress Progress) bool {
	switch requirement.Type {
	case model.RequirementSessions:
		return progress.TotalSessions >= requirement.Value
	case model.RequirementStreak:
		return progress.CurrentStreak >= requirement.Value
	default:
		return false
	}
}
