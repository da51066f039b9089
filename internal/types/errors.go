package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

type ErrorKind string

const (
	ErrorKindNotFound    ErrorKind = "not_found"
	ErrorKindAuthFailure ErrorKind = "auth_failure"
	ErrorKindTransport   ErrorKind = "transport"
	ErrorKindValidation  ErrorKind = "validation"
)

// ERPError is returned by the resource client for every failed remote call.
type ERPError struct {
	Kind      ErrorKind
	Op        string
	Doctype   string
	Status    int
	RequestID string
	Cause     error
}

func (e *ERPError) Error() string {
	var builder strings.Builder
	builder.WriteString("erp ")
	builder.WriteString(e.Op)
	builder.WriteString(" failed")
	if e.Doctype != "" {
		fmt.Fprintf(&builder, " doctype=%q", e.Doctype)
	}
	if e.Status != 0 {
		fmt.Fprintf(&builder, " status=%d", e.Status)
	}
	fmt.Fprintf(&builder, " kind=%s", e.Kind)
	if e.Cause != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Cause.Error())
	}
	return builder.String()
}

func (e *ERPError) Unwrap() error {
	return e.Cause
}

func (e *ERPError) ErrCode() errbuilder.ErrCode {
	switch e.Kind {
	case ErrorKindNotFound:
		return errbuilder.CodeNotFound
	case ErrorKindAuthFailure:
		return errbuilder.CodePermissionDenied
	case ErrorKindValidation:
		return errbuilder.CodeInvalidArgument
	default:
		return errbuilder.CodeInternal
	}
}

// CandidatesNotFoundError reports that every candidate doctype was unknown
// to the backend and no seed rows were available as a fallback.
type CandidatesNotFoundError struct {
	Candidates []string
}

func (e *CandidatesNotFoundError) Error() string {
	return fmt.Sprintf("none of these doctypes were found: %s", strings.Join(e.Candidates, ", "))
}

func (e *CandidatesNotFoundError) ErrCode() errbuilder.ErrCode {
	return errbuilder.CodeNotFound
}

type codedError interface {
	ErrCode() errbuilder.ErrCode
}

// CodeOf returns the errbuilder code for err, honouring the typed ERP errors.
func CodeOf(err error) errbuilder.ErrCode {
	var coded codedError
	if errors.As(err, &coded) {
		return coded.ErrCode()
	}
	return errbuilder.CodeOf(err)
}

func kindOf(err error) (ErrorKind, bool) {
	var erpErr *ERPError
	if errors.As(err, &erpErr) {
		return erpErr.Kind, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrorKindNotFound
}

func IsAuthFailure(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrorKindAuthFailure
}

func IsTransport(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrorKindTransport
}

func IsValidation(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrorKindValidation
}

// StatusOf returns the HTTP status carried by an ERP error, or zero when the
// request never produced a response.
func StatusOf(err error) int {
	var erpErr *ERPError
	if errors.As(err, &erpErr) {
		return erpErr.Status
	}
	return 0
}

// AttemptedCandidates returns the doctype names probed before a resolution
// gave up.
func AttemptedCandidates(err error) ([]string, bool) {
	var notFound *CandidatesNotFoundError
	if errors.As(err, &notFound) {
		return notFound.Candidates, true
	}
	return nil, false
}
