package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"hello":"world"}`)
	require.NoError(t, WriteFrame(&buf, payload))

	assert.Equal(t, "00000017", buf.String()[:8])

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFrameMalformedLength(t *testing.T) {
	r := strings.NewReader("0000XX01payload")
	_, err := ReadFrame(r)
	assert.Error(t, err)
}

func TestReadFrameTruncated(t *testing.T) {
	r := strings.NewReader("00000018short")
	_, err := ReadFrame(r)
	assert.Error(t, err)
}

func TestDiscardFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("welcome")))
	require.NoError(t, DiscardFrame(&buf))
	assert.Equal(t, 0, buf.Len())
}
