package gifcore

import (
	"fmt"
	"io"
)

// Transcode runs the full decode -> per-frame transform -> encode pipeline
// in one call: it slurps input, renders each frame onto a canvas sized to
// the source screen, lets transform adjust that canvas (resize, recolor,
// or simply pass it through unchanged), and encodes the result to dst,
// preserving input's frame count, timing, palette structure and extension
// blocks via the usual Decoder-seeds-Encoder construction.
//
// transform receives the rendered canvas for frameIndex and returns the
// canvas to actually encode for that frame - the same canvas, mutated in
// place, or a freshly allocated one of a different size.
func Transcode(dst io.Writer, input []byte, transform func(frameIndex int, canvas *Canvas) (*Canvas, error)) error {
	dec, err := OpenDecoder(input)
	if err != nil {
		return fmt.Errorf("gifcore: transcode: decode: %w", err)
	}
	defer dec.Release()

	if err := dec.Slurp(); err != nil {
		return fmt.Errorf("gifcore: transcode: slurp: %w", err)
	}

	enc, err := OpenEncoder(dst, dec)
	if err != nil {
		return fmt.Errorf("gifcore: transcode: seed encoder: %w", err)
	}
	defer enc.Release()

	frameCount := dec.FrameCount()
	if frameCount == 0 {
		return fmt.Errorf("gifcore: transcode: input has no frames")
	}

	outWidth, outHeight := dec.ScreenWidth(), dec.ScreenHeight()

	for i := 0; i < frameCount; i++ {
		canvas := NewCanvas(dec.ScreenWidth(), dec.ScreenHeight())
		if err := dec.Render(i, canvas); err != nil {
			return fmt.Errorf("gifcore: transcode: render frame %d: %w", i, err)
		}

		out := canvas
		if transform != nil {
			out, err = transform(i, canvas)
			if err != nil {
				return fmt.Errorf("gifcore: transcode: transform frame %d: %w", i, err)
			}
		}

		if i == 0 {
			w, h := out.Size()
			outWidth, outHeight = w, h
			if err := enc.Init(outWidth, outHeight); err != nil {
				return fmt.Errorf("gifcore: transcode: init encoder: %w", err)
			}
		}

		if err := enc.EncodeFrame(i, out); err != nil {
			return fmt.Errorf("gifcore: transcode: encode frame %d: %w", i, err)
		}
	}

	return enc.Flush()
}

// TranscodeToBytes runs Transcode into an in-memory Sink and returns the
// resulting GIF bytes directly, for callers that don't already have an
// io.Writer destination (e.g. an HTTP handler building a response body).
func TranscodeToBytes(input []byte, transform func(frameIndex int, canvas *Canvas) (*Canvas, error)) ([]byte, error) {
	sink := NewSink()
	if err := Transcode(sink, input, transform); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}
