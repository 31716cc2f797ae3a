package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgarrido/pulsecam"
)

func TestFrameCodecRoundTrip(t *testing.T) {
	in := []pulsecam.Frame{
		{Hue: 0.55, Saturation: 0.8, Brightness: 0.6, Time: 0},
		{Hue: -0.123456789, Saturation: 0, Brightness: 1, Time: 1.0 / 30},
		{Hue: 0.5500001, Saturation: 0.79, Brightness: 0.61, Time: 123456.789},
	}

	out, err := DecodeFrames(EncodeFrames(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeFramesRejectsTruncatedPayload(t *testing.T) {
	payload := EncodeFrames([]pulsecam.Frame{{Hue: 0.5}})

	_, err := DecodeFrames(payload[:len(payload)-1])
	assert.Error(t, err)
}

func TestEncodeFramesEmpty(t *testing.T) {
	out, err := DecodeFrames(EncodeFrames(nil))
	require.NoError(t, err)
	assert.Empty(t, out)
}
