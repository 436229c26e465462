// Package pipeline drives per-token work over a hashlist.
// Each token yields either a value or a SkipReason; only fatal errors stop a run.
package pipeline

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

// Stage names used in skip reasons.
const (
	StageFetch   = "fetch"
	StageDecode  = "decode"
	StageCustody = "custody"
	StageFilter  = "filter"
)

// SkipReason records why a token produced no output.
type SkipReason struct {
	Token string
	Stage string
	Err   error
}

func (s SkipReason) String() string {
	return fmt.Sprintf("%s [%s]: %v", s.Token, s.Stage, s.Err)
}

// Result is the outcome of processing one token.
type Result[T any] struct {
	Index int
	Token string
	Value T
	Skip  *SkipReason
}

// Skipped reports whether the token was skipped.
func (r Result[T]) Skipped() bool {
	return r.Skip != nil
}

// stageError attaches a pipeline stage to a per-token error.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// Skip marks err as a per-token failure at the given stage.
func Skip(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &stageError{stage: stage, err: err}
}

// fatalError marks an error that must abort the whole run.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as fatal: Run stops and returns it.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err was marked with Fatal.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

func toSkipReason(token string, err error) *SkipReason {
	stage := StageFetch
	var se *stageError
	if errors.As(err, &se) {
		stage = se.stage
		err = se.err
	}
	return &SkipReason{Token: token, Stage: stage, Err: err}
}

// Summary describes a completed (or aborted) run.
type Summary struct {
	Total     int
	Processed int
	Skipped   []SkipReason
	Started   time.Time
	Finished  time.Time
}

// Duration is the wall time of the run.
func (s *Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}
