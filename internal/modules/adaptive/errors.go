package adaptive

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/generator"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
)

const (
	CodeAuthenticationRequired = "authentication_required"
	CodeSectionNotFound        = "section_not_found"
	CodeSessionNotFound        = "session_not_found"
	CodeInvalidState           = "invalid_state"
	CodeInvalidAnswer          = "invalid_answer"
	CodeGenerationFailed       = "generation_failed"
	CodeGenerationTimeout      = "generation_timeout"
	CodeStorageFailure         = "storage_failure"
)

func errAuthRequired() error {
	return apierr.New(http.StatusUnauthorized, CodeAuthenticationRequired, errors.New("no resolvable user identity"))
}

func errSectionNotFound(what string) error {
	return apierr.New(http.StatusNotFound, CodeSectionNotFound, fmt.Errorf("%s not found", what))
}

func errSessionNotFound() error {
	return apierr.New(http.StatusNotFound, CodeSessionNotFound, errors.New("session not found"))
}

func errInvalidState(format string, args ...any) error {
	return apierr.New(http.StatusConflict, CodeInvalidState, fmt.Errorf(format, args...))
}

func errInvalidAnswer(format string, args ...any) error {
	return apierr.New(http.StatusBadRequest, CodeInvalidAnswer, fmt.Errorf(format, args...))
}

func errStorage(op string, err error) error {
	return apierr.New(http.StatusInternalServerError, CodeStorageFailure, fmt.Errorf("%s: %w", op, err))
}

// errGeneration maps generator failures onto the caller-visible taxonomy. Both are safe to retry.
func errGeneration(err error) error {
	if errors.Is(err, generator.ErrTimeout) {
		return apierr.NewRetryable(http.StatusGatewayTimeout, CodeGenerationTimeout, err)
	}
	return apierr.NewRetryable(http.StatusBadGateway, CodeGenerationFailed, err)
}
