package adaptive

import (
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
)

// ResumeView is the shape returned whenever an existing active session is handed back.
type ResumeView struct {
	Session              *types.AdaptiveSession  `json:"session"`
	CurrentQuestion      *types.AdaptiveResponse `json:"current_question"`
	FirstQuestion        *types.AdaptiveResponse `json:"first_question"`
	LastAnsweredQuestion *types.AdaptiveResponse `json:"last_answered_question"`
	Resume               bool                    `json:"resume"`
	Stop                 bool                    `json:"stop"`
	// NeedsAdvance flags an active session whose transcript is fully answered; the caller
	// must call Advance (continue) or Finish (finalize).
	NeedsAdvance bool `json:"needs_advance"`
}

// computeResumeView is shared by Start and Resume. responses must be ordered by question number.
func computeResumeView(session *types.AdaptiveSession, responses []*types.AdaptiveResponse) ResumeView {
	if session == nil {
		return ResumeView{Stop: true}
	}
	out := ResumeView{Session: session, Resume: true}
	for _, r := range responses {
		if r == nil {
			continue
		}
		if out.FirstQuestion == nil && r.QuestionNumber == 1 {
			out.FirstQuestion = r
		}
		if out.CurrentQuestion == nil && !r.HasSelection() && !r.Answered() {
			out.CurrentQuestion = r
		}
	}
	if out.FirstQuestion == nil && len(responses) > 0 {
		out.FirstQuestion = responses[0]
	}
	for i := len(responses) - 1; i >= 0; i-- {
		if responses[i] != nil && responses[i].HasSelection() {
			out.LastAnsweredQuestion = responses[i]
			break
		}
	}
	out.Stop = out.CurrentQuestion == nil
	out.NeedsAdvance = out.Stop && session.IsActive()
	return out
}
