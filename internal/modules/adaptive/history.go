package adaptive

import (
	"fmt"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/generator"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
)

const (
	verdictCorrect     = "Correct"
	verdictWrong       = "Wrong"
	verdictNotAnswered = "Not answered"
)

// buildHistory renders one line per transcript entry for the generator prompt.
func buildHistory(responses []*types.AdaptiveResponse) []string {
	out := make([]string, 0, len(responses))
	for _, r := range responses {
		if r == nil {
			continue
		}
		out = append(out, historyLine(r))
	}
	return out
}

func historyLine(r *types.AdaptiveResponse) string {
	verdict := verdictNotAnswered
	if r.IsCorrect != nil {
		if *r.IsCorrect {
			verdict = verdictCorrect
		} else {
			verdict = verdictWrong
		}
	}
	return fmt.Sprintf("Question %d (%s): %s - %s", r.QuestionNumber, r.Difficulty, r.QuestionText, verdict)
}

func verdictOf(isCorrect *bool) *generator.Verdict {
	if isCorrect == nil {
		return nil
	}
	v := generator.VerdictWrong
	if *isCorrect {
		v = generator.VerdictCorrect
	}
	return &v
}
