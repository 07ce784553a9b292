package gifcore

import (
	"bytes"
	"testing"

	"github.com/gif-tools/gifcore/internal/gifformat"
)

func TestTranscodePassthrough(t *testing.T) {
	src := buildSourceGIF(t)

	var out bytes.Buffer
	if err := Transcode(&out, src, nil); err != nil {
		t.Fatalf("Transcode: %v", err)
	}

	dec, err := OpenDecoder(out.Bytes())
	if err != nil {
		t.Fatalf("OpenDecoder(transcoded): %v", err)
	}
	if err := dec.Slurp(); err != nil {
		t.Fatalf("Slurp: %v", err)
	}
	if dec.FrameCount() != 2 {
		t.Fatalf("frame count = %d, want 2", dec.FrameCount())
	}
	if dec.ScreenWidth() != 2 || dec.ScreenHeight() != 1 {
		t.Fatalf("screen size = %dx%d, want 2x1", dec.ScreenWidth(), dec.ScreenHeight())
	}
}

func TestTranscodeWithResizingTransform(t *testing.T) {
	src := buildSourceGIF(t)

	var out bytes.Buffer
	transform := func(frameIndex int, canvas *Canvas) (*Canvas, error) {
		w, h := canvas.Size()
		bigger := NewCanvas(w*2, h)
		copy(bigger.Pix()[:len(canvas.Pix())], canvas.Pix())
		return bigger, nil
	}
	if err := Transcode(&out, src, transform); err != nil {
		t.Fatalf("Transcode: %v", err)
	}

	dec, err := OpenDecoder(out.Bytes())
	if err != nil {
		t.Fatalf("OpenDecoder: %v", err)
	}
	if dec.ScreenWidth() != 4 {
		t.Fatalf("screen width = %d, want 4 (resized)", dec.ScreenWidth())
	}
}

func TestTranscodeToBytes(t *testing.T) {
	src := buildSourceGIF(t)

	out, err := TranscodeToBytes(src, nil)
	if err != nil {
		t.Fatalf("TranscodeToBytes: %v", err)
	}

	dec, err := OpenDecoder(out)
	if err != nil {
		t.Fatalf("OpenDecoder: %v", err)
	}
	if dec.FrameCount() != 2 {
		t.Fatalf("frame count = %d, want 2", dec.FrameCount())
	}
}

func TestTranscodeRejectsEmptyStream(t *testing.T) {
	stream := &gifformat.GifStream{ScreenWidth: 1, ScreenHeight: 1}
	var buf bytes.Buffer
	if err := gifformat.Write(&buf, stream); err != nil {
		t.Fatalf("building empty source: %v", err)
	}

	var out bytes.Buffer
	if err := Transcode(&out, buf.Bytes(), nil); err == nil {
		t.Fatalf("expected an error for a frameless input stream")
	}
}
