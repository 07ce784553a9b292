package gifcore

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gif-tools/gifcore/internal/gifformat"
)

func buildSourceGIF(t *testing.T) []byte {
	t.Helper()
	stream := &gifformat.GifStream{
		ScreenWidth: 2, ScreenHeight: 1,
		GlobalColorMap: threeColorMap(),
	}
	f0 := gifformat.Frame{Width: 2, Height: 1, RasterIndices: []byte{0, 1}}
	f0.SetGraphicControl(gifformat.GraphicControl{TransparentIndex: gifformat.NoTransparentColor, DelayCentiseconds: 10})
	f1 := gifformat.Frame{Width: 2, Height: 1, RasterIndices: []byte{1, 2}}
	f1.SetGraphicControl(gifformat.GraphicControl{TransparentIndex: gifformat.NoTransparentColor, DelayCentiseconds: 10})
	stream.Frames = []gifformat.Frame{f0, f1}

	var buf bytes.Buffer
	if err := gifformat.Write(&buf, stream); err != nil {
		t.Fatalf("building source GIF: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := buildSourceGIF(t)

	dec, err := OpenDecoder(src)
	if err != nil {
		t.Fatalf("OpenDecoder: %v", err)
	}
	if err := dec.Slurp(); err != nil {
		t.Fatalf("Slurp: %v", err)
	}

	var out bytes.Buffer
	enc, err := OpenEncoder(&out, dec)
	if err != nil {
		t.Fatalf("OpenEncoder: %v", err)
	}
	if err := enc.Init(dec.ScreenWidth(), dec.ScreenHeight()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i := 0; i < dec.FrameCount(); i++ {
		canvas := NewCanvas(dec.ScreenWidth(), dec.ScreenHeight())
		if err := dec.Render(i, canvas); err != nil {
			t.Fatalf("Render(%d): %v", i, err)
		}
		if err := enc.EncodeFrame(i, canvas); err != nil {
			t.Fatalf("EncodeFrame(%d): %v", i, err)
		}
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// Re-decode the re-encoded stream and confirm pixels match what was
	// rendered from the source.
	dec2, err := OpenDecoder(out.Bytes())
	if err != nil {
		t.Fatalf("OpenDecoder(re-encoded): %v", err)
	}
	if err := dec2.Slurp(); err != nil {
		t.Fatalf("Slurp(re-encoded): %v", err)
	}
	if dec2.FrameCount() != 2 {
		t.Fatalf("re-encoded frame count = %d, want 2", dec2.FrameCount())
	}

	for i := 0; i < 2; i++ {
		want := NewCanvas(2, 1)
		if err := dec.Render(i, want); err != nil {
			t.Fatalf("Render source frame %d: %v", i, err)
		}
		got := NewCanvas(2, 1)
		if err := dec2.Render(i, got); err != nil {
			t.Fatalf("Render re-encoded frame %d: %v", i, err)
		}
		if !bytes.Equal(want.Pix(), got.Pix()) {
			t.Errorf("frame %d pixel mismatch:\n want %v\n got  %v", i, want.Pix(), got.Pix())
		}
	}
}

func TestEncodeFrameOutOfOrderRejected(t *testing.T) {
	src := buildSourceGIF(t)
	dec, _ := OpenDecoder(src)
	_ = dec.Slurp()

	var out bytes.Buffer
	enc, err := OpenEncoder(&out, dec)
	if err != nil {
		t.Fatalf("OpenEncoder: %v", err)
	}
	_ = enc.Init(2, 1)

	canvas := NewCanvas(2, 1)
	if err := enc.EncodeFrame(1, canvas); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("err = %v, want ErrOutOfOrder", err)
	}
}

func TestEncodeFrameTooLargeRejected(t *testing.T) {
	src := buildSourceGIF(t)
	dec, _ := OpenDecoder(src)
	_ = dec.Slurp()

	var out bytes.Buffer
	enc, err := OpenEncoder(&out, dec)
	if err != nil {
		t.Fatalf("OpenEncoder: %v", err)
	}
	_ = enc.Init(2, 1)

	canvas := NewCanvas(5, 5)
	if err := enc.EncodeFrame(0, canvas); err != ErrFrameTooLarge {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestFlushConsumesEncoder(t *testing.T) {
	src := buildSourceGIF(t)
	dec, _ := OpenDecoder(src)
	_ = dec.Slurp()

	var out bytes.Buffer
	enc, err := OpenEncoder(&out, dec)
	if err != nil {
		t.Fatalf("OpenEncoder: %v", err)
	}
	_ = enc.Init(2, 1)
	for i := 0; i < 2; i++ {
		canvas := NewCanvas(2, 1)
		_ = dec.Render(i, canvas)
		if err := enc.EncodeFrame(i, canvas); err != nil {
			t.Fatalf("EncodeFrame(%d): %v", i, err)
		}
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("first Flush: %v", err)
	}
	if err := enc.Flush(); err != ErrEncoderConsumed {
		t.Fatalf("second Flush err = %v, want ErrEncoderConsumed", err)
	}
	if err := enc.EncodeFrame(0, NewCanvas(2, 1)); err != ErrEncoderConsumed {
		t.Fatalf("EncodeFrame after flush err = %v, want ErrEncoderConsumed", err)
	}
}

// Cache coherence: two consecutive frames sharing a byte-identical effective
// palette keep the same lookup cache between them (no clear), confirmed by
// checking that the entry frame 0 cached for its index-0 color is still
// present after frame 1 has been encoded.
func TestPaletteLookupCacheCoherence(t *testing.T) {
	src := buildSourceGIF(t)
	dec, _ := OpenDecoder(src)
	_ = dec.Slurp()

	var out bytes.Buffer
	enc, err := OpenEncoder(&out, dec)
	if err != nil {
		t.Fatalf("OpenEncoder: %v", err)
	}
	_ = enc.Init(2, 1)

	canvas0 := NewCanvas(2, 1)
	_ = dec.Render(0, canvas0)
	if err := enc.EncodeFrame(0, canvas0); err != nil {
		t.Fatalf("EncodeFrame(0): %v", err)
	}
	if !enc.lookup.present[quantizeKey(10, 20, 30)] {
		t.Fatalf("expected lookup cache to have an entry for the background color after frame 0")
	}

	canvas1 := NewCanvas(2, 1)
	_ = dec.Render(1, canvas1)
	if err := enc.EncodeFrame(1, canvas1); err != nil {
		t.Fatalf("EncodeFrame(1): %v", err)
	}
	// Same global color map across both frames -> cache must not have been
	// cleared, so the frame-0 entry survives.
	if !enc.lookup.present[quantizeKey(10, 20, 30)] {
		t.Fatalf("lookup cache was cleared even though the palette did not change")
	}
}
