package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/http/response"
	"github.com/yungbote/adaptivequiz-backend/internal/modules/adaptive"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/ctxutil"
)

// AdaptiveQuizUsecases is the slice of adaptive.Usecases the HTTP layer calls.
type AdaptiveQuizUsecases interface {
	Start(ctx context.Context, in adaptive.StartInput) (adaptive.StartOutput, error)
	Resume(ctx context.Context, in adaptive.ResumeInput) (adaptive.ResumeView, error)
	CheckStatus(ctx context.Context, in adaptive.StatusInput) adaptive.StatusOutput
	Advance(ctx context.Context, in adaptive.AdvanceInput) (adaptive.AdvanceOutput, error)
	Summary(ctx context.Context, in adaptive.SummaryInput) (adaptive.SummaryOutput, error)
	Finish(ctx context.Context, in adaptive.FinishInput) (adaptive.FinishOutput, error)
	Abandon(ctx context.Context, in adaptive.FinishInput) (adaptive.FinishOutput, error)
	ListDeadLetters(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ArchiveOutbox, error)
	RequeueDeadLetter(ctx context.Context, userID uuid.UUID, sessionID string) error
}

type AdaptiveQuizHandler struct {
	quiz AdaptiveQuizUsecases
}

func NewAdaptiveQuizHandler(quiz AdaptiveQuizUsecases) *AdaptiveQuizHandler {
	return &AdaptiveQuizHandler{quiz: quiz}
}

func requestUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, adaptive.CodeAuthenticationRequired, nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

type startRequest struct {
	CourseID     string `json:"course_id"`
	Course       string `json:"course"`
	SubjectID    string `json:"subject_id"`
	SectionID    string `json:"section_id"`
	SectionTitle string `json:"section_title"`
	Difficulty   string `json:"difficulty"`
	TargetLength *int   `json:"target_length"`
}

// POST /api/adaptive-quiz/start
func (h *AdaptiveQuizHandler) Start(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course := strings.TrimSpace(req.CourseID)
	if course == "" {
		course = req.Course
	}
	out, err := h.quiz.Start(c.Request.Context(), adaptive.StartInput{
		UserID:       userID,
		Course:       course,
		SubjectID:    req.SubjectID,
		SectionID:    req.SectionID,
		SectionTitle: req.SectionTitle,
		Difficulty:   req.Difficulty,
		TargetLength: req.TargetLength,
	})
	if err != nil {
		response.RespondAPIError(c, "start_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/adaptive-quiz/resume?section_id=
func (h *AdaptiveQuizHandler) Resume(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	view, err := h.quiz.Resume(c.Request.Context(), adaptive.ResumeInput{UserID: userID, SectionID: c.Query("section_id")})
	if err != nil {
		response.RespondAPIError(c, "resume_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/adaptive-quiz/status?section_id=
func (h *AdaptiveQuizHandler) Status(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	response.RespondOK(c, h.quiz.CheckStatus(c.Request.Context(), adaptive.StatusInput{
		UserID:    userID,
		SectionID: c.Query("section_id"),
	}))
}

type nextRequest struct {
	PreviousAnswer *adaptive.PreviousAnswer `json:"previous_answer"`
}

// POST /api/adaptive-quiz/sessions/:id/next
func (h *AdaptiveQuizHandler) Next(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	var req nextRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	out, err := h.quiz.Advance(c.Request.Context(), adaptive.AdvanceInput{
		UserID:         userID,
		SessionID:      c.Param("id"),
		PreviousAnswer: req.PreviousAnswer,
	})
	if err != nil {
		response.RespondAPIError(c, "advance_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/adaptive-quiz/sessions/:id/summary
func (h *AdaptiveQuizHandler) Summary(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	out, err := h.quiz.Summary(c.Request.Context(), adaptive.SummaryInput{UserID: userID, SessionID: c.Param("id")})
	if err != nil {
		response.RespondAPIError(c, "summary_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/adaptive-quiz/sessions/:id/finish
func (h *AdaptiveQuizHandler) Finish(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	out, err := h.quiz.Finish(c.Request.Context(), adaptive.FinishInput{UserID: userID, SessionID: c.Param("id")})
	if err != nil {
		response.RespondAPIError(c, "finish_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/adaptive-quiz/sessions/:id/abandon
func (h *AdaptiveQuizHandler) Abandon(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	out, err := h.quiz.Abandon(c.Request.Context(), adaptive.FinishInput{UserID: userID, SessionID: c.Param("id")})
	if err != nil {
		response.RespondAPIError(c, "abandon_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/adaptive-quiz/archive/dead-letters?limit=
func (h *AdaptiveQuizHandler) DeadLetters(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := h.quiz.ListDeadLetters(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondAPIError(c, "list_dead_letters_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"dead_letters": rows})
}

// POST /api/adaptive-quiz/archive/dead-letters/:session_id/requeue
func (h *AdaptiveQuizHandler) RequeueDeadLetter(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	if err := h.quiz.RequeueDeadLetter(c.Request.Context(), userID, c.Param("session_id")); err != nil {
		response.RespondAPIError(c, "requeue_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"requeued": true})
}
