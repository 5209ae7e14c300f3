package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Generator produces the next adaptive question, or decides the quiz is over.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

type Verdict string

const (
	VerdictCorrect Verdict = "Correct"
	VerdictWrong   Verdict = "Wrong"
)

type Request struct {
	MainTopic           string   `json:"main_topic"`
	TopicHierarchy      string   `json:"topic_hierarchy"`
	FutureTopic         string   `json:"future_topic"`
	StudentLevel        string   `json:"student_level"`
	QuestionNumber      int      `json:"question_number"`
	TargetLength        int      `json:"target_length"`
	ConversationHistory []string `json:"conversation_history"`
	PreviousVerdict     *Verdict `json:"previous_verdict"`
}

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	Question      string   `json:"question"`
	Difficulty    string   `json:"difficulty"`
	Options       []Option `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// Result is either a question (Stop == false) or a stop signal with an optional summary.
type Result struct {
	Stop     bool           `json:"stop"`
	Question *Question      `json:"question,omitempty"`
	Summary  map[string]any `json:"summary,omitempty"`
}

// UnmarshalJSON accepts options as plain strings or as {id, text} objects.
// Strings and objects without an id are labelled A, B, C... by position.
func (q *Question) UnmarshalJSON(b []byte) error {
	var raw struct {
		Question      string            `json:"question"`
		Difficulty    string            `json:"difficulty"`
		Options       []json.RawMessage `json:"options"`
		CorrectOption json.RawMessage   `json:"correct_option"`
		Explanation   string            `json:"explanation"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	q.Question = strings.TrimSpace(raw.Question)
	q.Difficulty = strings.TrimSpace(raw.Difficulty)
	q.Explanation = strings.TrimSpace(raw.Explanation)
	q.Options = make([]Option, 0, len(raw.Options))
	for i, rm := range raw.Options {
		var s string
		if err := json.Unmarshal(rm, &s); err == nil {
			q.Options = append(q.Options, Option{ID: Label(i), Text: strings.TrimSpace(s)})
			continue
		}
		var o Option
		if err := json.Unmarshal(rm, &o); err != nil {
			return fmt.Errorf("option %d: %w", i, err)
		}
		o.ID = strings.TrimSpace(o.ID)
		o.Text = strings.TrimSpace(o.Text)
		if o.ID == "" {
			o.ID = Label(i)
		}
		q.Options = append(q.Options, o)
	}
	q.CorrectOption = decodeCorrectOption(raw.CorrectOption, q.Options)
	return nil
}

// decodeCorrectOption accepts the option text, its label, or a 0-based index.
func decodeCorrectOption(raw json.RawMessage, opts []Option) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var idx int
	if err := json.Unmarshal(raw, &idx); err == nil && idx >= 0 && idx < len(opts) {
		return opts[idx].Text
	}
	return ""
}

// UnmarshalJSON keeps a non-object summary under "message".
func (r *Result) UnmarshalJSON(b []byte) error {
	var raw struct {
		Stop     bool            `json:"stop"`
		Question *Question       `json:"question"`
		Summary  json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Stop = raw.Stop
	r.Question = raw.Question
	r.Summary = nil
	if len(raw.Summary) == 0 || string(raw.Summary) == "null" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw.Summary, &obj); err == nil {
		r.Summary = obj
		return nil
	}
	var other any
	if err := json.Unmarshal(raw.Summary, &other); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	r.Summary = map[string]any{"message": other}
	return nil
}

// Label returns the option label for a 0-based position: A..Z, then AA, AB...
func Label(i int) string {
	if i < 0 {
		return ""
	}
	out := ""
	for {
		out = string(rune('A'+i%26)) + out
		i = i/26 - 1
		if i < 0 {
			return out
		}
	}
}
