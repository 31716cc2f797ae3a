package stream

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tgarrido/pulsecam"
)

// frameSize is the wire width of one frame: hue, saturation, brightness,
// time as little-endian float64.
const frameSize = 32

// EncodeFrames packs a batch of frames for SubjectFrames.
func EncodeFrames(frames []pulsecam.Frame) []byte {
	out := make([]byte, frameSize*len(frames))
	for i, f := range frames {
		b := out[i*frameSize:]
		binary.LittleEndian.PutUint64(b[0:], math.Float64bits(f.Hue))
		binary.LittleEndian.PutUint64(b[8:], math.Float64bits(f.Saturation))
		binary.LittleEndian.PutUint64(b[16:], math.Float64bits(f.Brightness))
		binary.LittleEndian.PutUint64(b[24:], math.Float64bits(f.Time))
	}
	return out
}

// DecodeFrames unpacks a SubjectFrames payload.
func DecodeFrames(data []byte) ([]pulsecam.Frame, error) {
	if len(data)%frameSize != 0 {
		return nil, fmt.Errorf("stream: frame payload length %d is not a multiple of %d", len(data), frameSize)
	}

	frames := make([]pulsecam.Frame, len(data)/frameSize)
	for i := range frames {
		b := data[i*frameSize:]
		frames[i] = pulsecam.Frame{
			Hue:        math.Float64frombits(binary.LittleEndian.Uint64(b[0:])),
			Saturation: math.Float64frombits(binary.LittleEndian.Uint64(b[8:])),
			Brightness: math.Float64frombits(binary.LittleEndian.Uint64(b[16:])),
			Time:       math.Float64frombits(binary.LittleEndian.Uint64(b[24:])),
		}
	}
	return frames, nil
}
