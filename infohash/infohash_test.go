package infohash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stupidafcoder/gorent/infohash"
)

func TestComputeIsDeterministic(t *testing.T) {
	info := []byte("d6:lengthi92063e4:name10:sample.iso12:piece lengthi32768e6:pieces0:e")
	a := infohash.Compute(info)
	b := infohash.Compute(info)
	assert.Equal(t, a, b)
}

func TestHexRendersLowercase(t *testing.T) {
	var h infohash.Hash
	for i := range h {
		h[i] = byte(i)
	}
	assert.Equal(t, "000102030405060708090a0b0c0d0e0f10111213", h.Hex())
	assert.Equal(t, h.Hex(), h.String())
}
