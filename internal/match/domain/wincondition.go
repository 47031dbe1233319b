package domain

// WinCondition tags how the game was won, from a fixed vocabulary.
type WinCondition string

const (
	WinConditionNone            WinCondition = ""
	WinConditionCombo           WinCondition = "Combo"
	WinConditionMill            WinCondition = "Mill"
	WinConditionPoison          WinCondition = "Poison"
	WinConditionCommanderDamage WinCondition = "Commander Damage"
	WinConditionAltWinCon       WinCondition = "Alt. Win-Con"
)

// WinConditions lists the selectable tags in display order.
var WinConditions = []WinCondition{
	WinConditionCombo,
	WinConditionMill,
	WinConditionPoison,
	WinConditionCommanderDamage,
	WinConditionAltWinCon,
}

// ValidWinCondition reports whether the tag is part of the vocabulary.
func ValidWinCondition(c WinCondition) bool {
	for _, known := range WinConditions {
		if c == known {
			return true
		}
	}
	return false
}
