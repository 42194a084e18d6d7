package peerwire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stupidafcoder/gorent/peerwire"
)

func TestRequestMessageLayout(t *testing.T) {
	msg := peerwire.FormatRequest(0, 0, 16384)
	got := msg.Serialize()
	want := []byte{0x00, 0x00, 0x00, 0x0D, 0x06, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40, 0x00}
	assert.Equal(t, want, got)
}

func TestReadMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, peerwire.WriteMessage(&buf, peerwire.Interested, nil))

	msg, err := peerwire.ReadMessage(&buf)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, peerwire.Interested, msg.ID)
	assert.Empty(t, msg.Payload)
}

func TestReadMessageKeepAlive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, peerwire.WriteKeepAlive(&buf))

	msg, err := peerwire.ReadMessage(&buf)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestReadMessageFailsOnTruncation(t *testing.T) {
	buf := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x05, 0x06})
	_, err := peerwire.ReadMessage(buf)
	assert.Error(t, err)
}

func TestParsePiece(t *testing.T) {
	payload := make([]byte, 8+4)
	payload[3] = 0  // index 0
	payload[7] = 16 // begin 16
	copy(payload[8:], []byte{1, 2, 3, 4})
	msg := &peerwire.Message{ID: peerwire.Piece, Payload: payload}

	dest := make([]byte, 32)
	n, err := peerwire.ParsePiece(0, dest, msg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 2, 3, 4}, dest[16:20])
}

func TestParsePieceRejectsIndexMismatch(t *testing.T) {
	payload := make([]byte, 8)
	payload[3] = 1 // index 1
	msg := &peerwire.Message{ID: peerwire.Piece, Payload: payload}

	_, err := peerwire.ParsePiece(0, make([]byte, 16), msg)
	assert.Error(t, err)
}
