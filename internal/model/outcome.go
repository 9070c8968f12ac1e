package model

// ErrorKind classifies a per-item failure.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindParseFailure       ErrorKind = "parse_failure"
	KindRemoteCallFailure  ErrorKind = "remote_call_failure"
	KindAmbiguousLookup    ErrorKind = "ambiguous_lookup"
	KindIntegrityViolation ErrorKind = "integrity_violation"
)

// Fatal reports whether the kind must abort the batch.
func (k ErrorKind) Fatal() bool {
	return k == KindAmbiguousLookup || k == KindIntegrityViolation
}

// Outcome is the result of one stage step for one item. A degraded outcome
// carries both a usable Value and the Kind/Err describing what went wrong.
type Outcome[T any] struct {
	Value T
	Kind  ErrorKind
	Err   error
}

// OK wraps a successful value.
func OK[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Degraded wraps a value produced after a recoverable failure.
func Degraded[T any](v T, kind ErrorKind, err error) Outcome[T] {
	return Outcome[T]{Value: v, Kind: kind, Err: err}
}

// Failed reports whether the step hit any failure.
func (o Outcome[T]) Failed() bool {
	return o.Err != nil
}
