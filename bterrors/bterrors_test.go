package bterrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stupidafcoder/gorent/bterrors"
)

func TestKindRoundTrips(t *testing.T) {
	err := bterrors.New(bterrors.PieceCorrupt, "sha1 mismatch")
	assert.True(t, errors.Is(err, bterrors.PieceCorrupt))
	assert.False(t, errors.Is(err, bterrors.PeerProtocol))
	assert.Equal(t, bterrors.PieceCorrupt, bterrors.Kind(err))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := bterrors.Wrap(bterrors.PeerIO, cause, "reading message")
	assert.True(t, errors.Is(err, bterrors.PeerIO))
	assert.ErrorContains(t, err, "connection reset")
	assert.ErrorContains(t, err, "reading message")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, bterrors.Wrap(bterrors.PeerIO, nil, "no-op"))
}

func TestKindOfPlainErrorIsNil(t *testing.T) {
	assert.Nil(t, bterrors.Kind(errors.New("plain")))
}
