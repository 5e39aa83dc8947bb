package infrastructure

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_KnownTotal(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 1000)
	var reported []int
	pr := newProgressReader(bytes.NewReader(payload), int64(len(payload)), func(p int) {
		reported = append(reported, p)
	})

	n, err := io.Copy(io.Discard, pr)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n)
	assert.Equal(t, int64(1000), pr.Received())

	require.NotEmpty(t, reported)
	assert.Equal(t, 100, reported[len(reported)-1])
	for i := 1; i < len(reported); i++ {
		assert.Greater(t, reported[i], reported[i-1], "progress must be strictly increasing per report")
	}
}

func TestProgressReader_UnknownTotalUsesFallback(t *testing.T) {
	// 1% of the fallback denominator.
	payload := strings.NewReader(strings.Repeat("x", int(FallbackTotalBytes/100)))
	var last int
	pr := newProgressReader(payload, -1, func(p int) { last = p })

	_, err := io.Copy(io.Discard, pr)
	require.NoError(t, err)
	assert.Equal(t, 1, last)
}

func TestProgressReader_ClampedAt100WhenFallbackExceeded(t *testing.T) {
	// More bytes than the fallback denominator must still cap at 100.
	payload := io.LimitReader(zeroReader{}, FallbackTotalBytes+FallbackTotalBytes/2)
	var reported []int
	pr := newProgressReader(payload, -1, func(p int) { reported = append(reported, p) })

	_, err := io.Copy(io.Discard, pr)
	require.NoError(t, err)

	require.NotEmpty(t, reported)
	for _, p := range reported {
		assert.LessOrEqual(t, p, 100)
	}
	assert.Equal(t, 100, reported[len(reported)-1])
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
