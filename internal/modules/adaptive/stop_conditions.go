package adaptive

import (
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
)

const (
	StopConsecutiveEasyFailures  = "consecutive_easy_failures"
	StopEarlyHardFailures        = "early_hard_failures"
	StopCumulativeMediumFailures = "cumulative_medium_failures"
	StopMaxQuestions             = "max_questions_reached"
)

// StopRules holds the thresholds of the pedagogical stop rules.
type StopRules struct {
	ConsecutiveEasyFailures  int `yaml:"consecutive_easy_failures"`
	EarlyHardWindow          int `yaml:"early_hard_window"`
	EarlyHardFailures        int `yaml:"early_hard_failures"`
	CumulativeMediumFailures int `yaml:"cumulative_medium_failures"`
	MaxQuestions             int `yaml:"max_questions"`
}

func DefaultStopRules() StopRules {
	return StopRules{
		ConsecutiveEasyFailures:  3,
		EarlyHardWindow:          5,
		EarlyHardFailures:        3,
		CumulativeMediumFailures: 4,
		MaxQuestions:             10,
	}
}

func (r StopRules) withDefaults() StopRules {
	d := DefaultStopRules()
	if r.ConsecutiveEasyFailures <= 0 {
		r.ConsecutiveEasyFailures = d.ConsecutiveEasyFailures
	}
	if r.EarlyHardWindow <= 0 {
		r.EarlyHardWindow = d.EarlyHardWindow
	}
	if r.EarlyHardFailures <= 0 {
		r.EarlyHardFailures = d.EarlyHardFailures
	}
	if r.CumulativeMediumFailures <= 0 {
		r.CumulativeMediumFailures = d.CumulativeMediumFailures
	}
	if r.MaxQuestions <= 0 {
		r.MaxQuestions = d.MaxQuestions
	}
	return r
}

type StopDecision struct {
	ShouldStop bool
	Reason     string
	// Anomalies lists raw difficulty values that did not map onto Easy/Medium/Hard.
	Anomalies []string
}

// Evaluate applies the stop rules, in order, to a transcript ordered by question number.
// Only answered responses are considered and an empty answered set never stops.
func Evaluate(rules StopRules, responses []*types.AdaptiveResponse) StopDecision {
	rules = rules.withDefaults()
	var out StopDecision

	type answered struct {
		difficulty types.Difficulty
		correct    bool
	}
	var rows []answered
	for _, r := range responses {
		if r == nil || r.IsCorrect == nil {
			continue
		}
		d, ok := types.ParseDifficulty(string(r.Difficulty))
		if !ok {
			out.Anomalies = append(out.Anomalies, string(r.Difficulty))
		}
		rows = append(rows, answered{difficulty: d, correct: *r.IsCorrect})
	}
	if len(rows) == 0 {
		return out
	}

	streak := 0
	for _, a := range rows {
		if a.difficulty != types.DifficultyEasy {
			continue
		}
		if a.correct {
			streak = 0
			continue
		}
		streak++
		if streak >= rules.ConsecutiveEasyFailures {
			return out.stop(StopConsecutiveEasyFailures)
		}
	}

	var hard []answered
	for _, a := range rows {
		if a.difficulty == types.DifficultyHard {
			hard = append(hard, a)
		}
	}
	if len(hard) >= rules.EarlyHardWindow {
		wrong := 0
		for _, a := range hard[:rules.EarlyHardWindow] {
			if !a.correct {
				wrong++
			}
		}
		if wrong >= rules.EarlyHardFailures {
			return out.stop(StopEarlyHardFailures)
		}
	}

	mediumWrong := 0
	for _, a := range rows {
		if a.difficulty == types.DifficultyMedium && !a.correct {
			mediumWrong++
		}
	}
	if mediumWrong >= rules.CumulativeMediumFailures {
		return out.stop(StopCumulativeMediumFailures)
	}

	if len(responses) >= rules.MaxQuestions {
		return out.stop(StopMaxQuestions)
	}
	return out
}

func (d StopDecision) stop(reason string) StopDecision {
	d.ShouldStop = true
	d.Reason = reason
	return d
}
