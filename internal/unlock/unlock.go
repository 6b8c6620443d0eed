// Package unlock evaluates the closed set of unlock conditions gating
// catalog content. Each condition kind inspects only the slice of player
// state relevant to it and reports a boolean plus a human-readable reason
// suitable for direct display. Adding a kind means adding one case to the
// switch in Evaluate.
package unlock

import "fmt"

// Kind discriminates the condition union.
type Kind string

// The closed condition kinds.
const (
	KindStarter     Kind = "starter"
	KindMinLevel    Kind = "min_level"
	KindQuest       Kind = "quest"
	KindAchievement Kind = "achievement"
	KindFaction     Kind = "faction"
	KindEvent       Kind = "event"
	KindSecret      Kind = "secret"
)

// Condition is a tagged union over Kind; only the fields belonging to the
// tagged kind are meaningful.
type Condition struct {
	Kind Kind

	// KindMinLevel
	MinLevel int

	// KindQuest
	QuestID string

	// KindAchievement
	AchievementID string

	// KindFaction
	FactionID   string
	MinStanding int

	// KindEvent
	EventID string

	// KindSecret
	SecretID string
}

// Starter returns the no-condition condition.
func Starter() Condition {
	return Condition{Kind: KindStarter}
}

// Snapshot is the slice of player state the evaluator may inspect.
type Snapshot struct {
	Level           int            `json:"level"`
	CompletedQuests []string       `json:"completed_quests,omitempty"`
	Achievements    []string       `json:"achievements,omitempty"`
	FactionStanding map[string]int `json:"faction_standing,omitempty"`
	TriggeredEvents []string       `json:"triggered_events,omitempty"`
	Secrets         []string       `json:"secrets,omitempty"`
}

// Evaluate reports whether the snapshot satisfies the condition, with a
// display-ready reason for the failing (or trivially passing) case.
func Evaluate(c Condition, s Snapshot) (bool, string) {
	switch c.Kind {
	case KindStarter:
		return true, "available from the start"
	case KindMinLevel:
		if s.Level >= c.MinLevel {
			return true, fmt.Sprintf("unlocked at level %d", c.MinLevel)
		}
		return false, fmt.Sprintf("requires level %d (currently %d)", c.MinLevel, s.Level)
	case KindQuest:
		if contains(s.CompletedQuests, c.QuestID) {
			return true, fmt.Sprintf("quest %q completed", c.QuestID)
		}
		return false, fmt.Sprintf("complete the quest %q", c.QuestID)
	case KindAchievement:
		if contains(s.Achievements, c.AchievementID) {
			return true, fmt.Sprintf("achievement %q earned", c.AchievementID)
		}
		return false, fmt.Sprintf("earn the achievement %q", c.AchievementID)
	case KindFaction:
		standing := s.FactionStanding[c.FactionID]
		if standing >= c.MinStanding {
			return true, fmt.Sprintf("standing %d with %q", standing, c.FactionID)
		}
		return false, fmt.Sprintf("requires standing %d with %q (currently %d)", c.MinStanding, c.FactionID, standing)
	case KindEvent:
		if contains(s.TriggeredEvents, c.EventID) {
			return true, fmt.Sprintf("event %q triggered", c.EventID)
		}
		return false, fmt.Sprintf("trigger the event %q", c.EventID)
	case KindSecret:
		if contains(s.Secrets, c.SecretID) {
			return true, "secret discovered"
		}
		return false, "discover the secret"
	default:
		return false, fmt.Sprintf("unknown unlock condition %q", c.Kind)
	}
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
