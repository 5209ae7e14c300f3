package adaptive

import "strings"

// Difficulty is the closed set of question difficulties the stop rules reason about.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

var difficultySynonyms = map[string]Difficulty{
	"easy":         DifficultyEasy,
	"beginner":     DifficultyEasy,
	"medium":       DifficultyMedium,
	"intermediate": DifficultyMedium,
	"hard":         DifficultyHard,
	"advanced":     DifficultyHard,
}

// ParseDifficulty maps any accepted synonym (case-insensitive) onto a Difficulty.
// Unknown input yields Medium with ok=false so callers can report the anomaly.
func ParseDifficulty(raw string) (Difficulty, bool) {
	d, ok := difficultySynonyms[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return DifficultyMedium, false
	}
	return d, true
}

// NormalizeDifficulty is ParseDifficulty without the anomaly flag.
func NormalizeDifficulty(raw string) Difficulty {
	d, _ := ParseDifficulty(raw)
	return d
}

// StudentLevel is the learner level snapshot sent to the generator.
type StudentLevel string

const (
	LevelBeginner     StudentLevel = "beginner"
	LevelIntermediate StudentLevel = "intermediate"
	LevelAdvanced     StudentLevel = "advanced"
)

// ParseStudentLevel accepts level names and difficulty synonyms; empty or unknown input yields def.
func ParseStudentLevel(raw string, def StudentLevel) StudentLevel {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	d, ok := ParseDifficulty(raw)
	if !ok {
		return def
	}
	switch d {
	case DifficultyEasy:
		return LevelBeginner
	case DifficultyHard:
		return LevelAdvanced
	default:
		return LevelIntermediate
	}
}
