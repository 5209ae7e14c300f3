package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestQuestionUnmarshal_StringOptions(t *testing.T) {
	raw := `{"question":" 2+2? ","difficulty":"easy","options":["3","4","5"],"correct_option":"4","explanation":"sum"}`
	var q Question
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Question != "2+2?" || len(q.Options) != 3 {
		t.Fatalf("unexpected question: %+v", q)
	}
	if q.Options[0].ID != "A" || q.Options[2].ID != "C" || q.Options[1].Text != "4" {
		t.Fatalf("labels not assigned: %+v", q.Options)
	}
	if q.CorrectOption != "4" {
		t.Fatalf("correct option: %q", q.CorrectOption)
	}
}

func TestQuestionUnmarshal_ObjectOptionsAndIndex(t *testing.T) {
	raw := `{"question":"q","options":[{"id":"x","text":"one"},{"text":"two"}],"correct_option":1}`
	var q Question
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Options[0].ID != "x" || q.Options[1].ID != "B" {
		t.Fatalf("ids: %+v", q.Options)
	}
	if q.CorrectOption != "two" {
		t.Fatalf("index correct option should resolve to text, got %q", q.CorrectOption)
	}
}

func TestResultUnmarshal_Summary(t *testing.T) {
	var r Result
	if err := json.Unmarshal([]byte(`{"stop":true,"summary":"well done"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.Stop || r.Summary["message"] != "well done" {
		t.Fatalf("string summary: %+v", r)
	}
	r = Result{}
	if err := json.Unmarshal([]byte(`{"stop":true,"summary":{"reason":"mastery"}}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Summary["reason"] != "mastery" {
		t.Fatalf("object summary: %+v", r)
	}
}

func TestLabel(t *testing.T) {
	cases := map[int]string{0: "A", 3: "D", 25: "Z", 26: "AA", 27: "AB", -1: ""}
	for in, want := range cases {
		if got := Label(in); got != want {
			t.Fatalf("Label(%d)=%q want %q", in, got, want)
		}
	}
}

func TestHTTPClient_Generate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != generatePath {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing auth header")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stop":false,"question":{"question":"q1","difficulty":"Easy","options":["a","b"],"correct_option":"a"}}`))
	}))
	defer srv.Close()

	c, err := NewHTTP(Options{BaseURL: srv.URL + "/", APIKey: "k", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	v := VerdictWrong
	res, err := c.Generate(context.Background(), Request{MainTopic: "Fractions", QuestionNumber: 2, TargetLength: 10, PreviousVerdict: &v})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Stop || res.Question == nil || res.Question.Question != "q1" || len(res.Question.Options) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got.MainTopic != "Fractions" || got.QuestionNumber != 2 || got.PreviousVerdict == nil || *got.PreviousVerdict != VerdictWrong {
		t.Fatalf("request not forwarded: %+v", got)
	}
	if got.ConversationHistory == nil {
		t.Fatalf("conversation_history should be sent as an empty list")
	}
}

func TestHTTPClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","code":"unavailable"}}`))
	}))
	defer srv.Close()

	c, _ := NewHTTP(Options{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.Generate(context.Background(), Request{QuestionNumber: 1})
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadGateway || he.Code != "unavailable" {
		t.Fatalf("want HTTPError 502, got %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Fatalf("non-2xx must not be reported as timeout")
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := NewHTTP(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Generate(context.Background(), Request{QuestionNumber: 1})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("want ErrTimeout, got %v", err)
	}
}

func TestHTTPClient_MissingQuestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"stop":false}`))
	}))
	defer srv.Close()

	c, _ := NewHTTP(Options{BaseURL: srv.URL, Timeout: time.Second})
	if _, err := c.Generate(context.Background(), Request{}); !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("want ErrInvalidResult, got %v", err)
	}
}

func TestOpenAIClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["tools"]; !ok {
			t.Errorf("tools missing from request")
		}
		args := `{"stop":false,"question":"Largest planet?","difficulty":"Medium","options":["Mars","Jupiter"],"correct_option":"Jupiter","explanation":"size"}`
		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []any{map[string]any{
				"index": 0,
				"message": map[string]any{
					"role": "assistant",
					"tool_calls": []any{map[string]any{
						"id":       "call_1",
						"type":     "function",
						"function": map[string]any{"name": submitToolName, "arguments": args},
					}},
				},
				"finish_reason": "tool_calls",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewOpenAI(OpenAIOptions{APIKey: "k", BaseURL: srv.URL + "/v1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	res, err := c.Generate(context.Background(), Request{MainTopic: "Planets", QuestionNumber: 1, TargetLength: 10})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Stop || res.Question.CorrectOption != "Jupiter" || res.Question.Options[1].ID != "B" {
		t.Fatalf("unexpected result: %+v", res.Question)
	}
}

func TestToolParameters(t *testing.T) {
	params, err := toolParameters()
	if err != nil {
		t.Fatalf("toolParameters: %v", err)
	}
	if _, ok := params["$schema"]; ok {
		t.Fatalf("$schema should be stripped")
	}
	props, ok := params["properties"].(map[string]any)
	if !ok || props["difficulty"] == nil || props["options"] == nil {
		t.Fatalf("properties missing: %v", params)
	}
	if params["additionalProperties"] != false {
		t.Fatalf("additionalProperties should be false: %v", params["additionalProperties"])
	}
}
