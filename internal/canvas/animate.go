package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/kettek/apng"
)

// MaxFrameDelay is the longest frame delay, in seconds, an APNG frame can
// carry with millisecond precision.
const MaxFrameDelay = 65.535

// ValidateFrameDelay rejects delays that do not fit a millisecond fraction.
func ValidateFrameDelay(frameDelay float64) error {
	if !(frameDelay > 0 && frameDelay <= MaxFrameDelay) {
		return fmt.Errorf("frame delay must be in (0, %g] seconds, got %g", MaxFrameDelay, frameDelay)
	}
	return nil
}

// Animate encodes the frames as a looping APNG, showing each for frameDelay
// seconds.
func Animate(frames []*Canvas, frameDelay float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames to animate")
	}
	if err := ValidateFrameDelay(frameDelay); err != nil {
		return nil, err
	}
	delay := uint16(math.Round(frameDelay * 1000))

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	for i, frame := range frames {
		a.Frames[i] = apng.Frame{
			Image:            frame.Img,
			DelayNumerator:   delay,
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
