// Package bterrors defines the error taxonomy shared by every layer of
// gorent: bencode decoding, tracker communication, and the peer session.
// Each kind is a sentinel wrapped with github.com/pkg/errors so that callers
// can compare with errors.Is(err, bterrors.PeerProtocol) while still getting
// a stack trace and contextual message out of Error().
package bterrors

import "github.com/pkg/errors"

// Sentinel kinds. Compare against these with errors.Is after unwrapping,
// or use Kind(err) to recover one for rendering at the CLI boundary.
var (
	BencodeSyntax   = errors.New("bencode syntax error")
	MetainfoShape   = errors.New("metainfo shape error")
	TrackerHTTP     = errors.New("tracker http error")
	TrackerFailure  = errors.New("tracker reported failure")
	TrackerProtocol = errors.New("tracker protocol error")
	PeerIO          = errors.New("peer i/o error")
	PeerFraming     = errors.New("peer framing error")
	HandshakeReject = errors.New("handshake rejected")
	PeerProtocol    = errors.New("peer protocol error")
	PieceCorrupt    = errors.New("piece corrupt")
)

// Wrap attaches kind to err with msg as additional context, preserving err's
// chain through Unwrap so errors.Is and errors.As still reach the original
// error.
func Wrap(kind error, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &taggedError{kind: kind, err: errors.Wrap(err, msg)}
}

// New builds a fresh error of the given kind with no prior cause.
func New(kind error, msg string) error {
	return &taggedError{kind: kind, err: errors.New(msg)}
}

// Newf is New with formatting.
func Newf(kind error, format string, args ...any) error {
	return &taggedError{kind: kind, err: errors.Errorf(format, args...)}
}

type taggedError struct {
	kind error
	err  error
}

func (t *taggedError) Error() string { return t.err.Error() }
func (t *taggedError) Unwrap() error { return t.err }
func (t *taggedError) Is(target error) bool { return t.kind == target }

// Kind returns the sentinel kind carried by err, or nil if err was not
// produced by this package.
func Kind(err error) error {
	var t *taggedError
	if errors.As(err, &t) {
		return t.kind
	}
	return nil
}
