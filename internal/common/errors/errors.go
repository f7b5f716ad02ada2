// Package errors provides standardized error codes for evaluation runs and
// their conversion into BPMN errors for workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeModelCallFailed     ErrorCode = "MODEL_CALL_FAILED"
	ErrCodeModelTimeout        ErrorCode = "MODEL_TIMEOUT"
	ErrCodeModelAuthFailed     ErrorCode = "MODEL_AUTH_FAILED"
	ErrCodeResponseParseFailed ErrorCode = "RESPONSE_PARSE_FAILED"

	ErrCodeInvalidLocation    ErrorCode = "INVALID_LOCATION"
	ErrCodeReportRenderFailed ErrorCode = "REPORT_RENDER_FAILED"
	ErrCodeConfigInvalid      ErrorCode = "CONFIG_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the canonical error record used across the application.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// BPMNError is the shape thrown back to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 2. Constructors
// ==========================

func newStandard(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewModelCallFailedError(callSite string, err error) *StandardError {
	e := newStandard(ErrCodeModelCallFailed, "Model call failed", err, true)
	e.Metadata = map[string]interface{}{"callSite": callSite}
	return e
}

func NewModelTimeoutError(callSite string, err error) *StandardError {
	e := newStandard(ErrCodeModelTimeout, "Model call timed out", err, true)
	e.Metadata = map[string]interface{}{"callSite": callSite}
	return e
}

func NewModelAuthFailedError(err error) *StandardError {
	return newStandard(ErrCodeModelAuthFailed, "Model endpoint rejected the credential", err, false)
}

func NewResponseParseFailedError(agent string, err error) *StandardError {
	e := newStandard(ErrCodeResponseParseFailed, "Model reply could not be parsed", err, false)
	e.Metadata = map[string]interface{}{"agent": agent}
	return e
}

func NewInvalidLocationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidLocation,
		Message:   "City and country are required",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewReportRenderFailedError(format string, err error) *StandardError {
	e := newStandard(ErrCodeReportRenderFailed, fmt.Sprintf("Rendering %s report failed", format), err, true)
	e.Metadata = map[string]interface{}{"format": format}
	return e
}

func NewConfigInvalidError(err error) *StandardError {
	return newStandard(ErrCodeConfigInvalid, "Configuration is invalid", err, false)
}

// ==========================
// 3. Classification
// ==========================

// BPMNErrorMapping maps internal codes to the codes modelled in BPMN boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeModelCallFailed:     "MODEL_CALL_FAILED",
	ErrCodeModelTimeout:        "MODEL_TIMEOUT",
	ErrCodeModelAuthFailed:     "MODEL_AUTH_FAILED",
	ErrCodeResponseParseFailed: "RESPONSE_PARSE_FAILED",
	ErrCodeInvalidLocation:     "INVALID_LOCATION",
	ErrCodeReportRenderFailed:  "REPORT_RENDER_FAILED",
	ErrCodeConfigInvalid:       "CONFIG_INVALID",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeModelCallFailed, ErrCodeReportRenderFailed:
		return 3
	case ErrCodeModelTimeout:
		return 1
	default:
		return 0 // business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// AsStandardError unwraps err looking for a *StandardError.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MODEL"):
		return "MODEL"
	case strings.Contains(codeStr, "PARSE"):
		return "PARSING"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	default:
		return "OTHER"
	}
}
