package gifformat

import (
	"bytes"
	"testing"
)

func sampleStream() *GifStream {
	s := &GifStream{
		ScreenWidth:          2,
		ScreenHeight:         2,
		ColorResolution:      7,
		BackgroundColorIndex: 0,
		GlobalColorMap: &ColorMap{Colors: []Color{
			{R: 0, G: 0, B: 0},
			{R: 255, G: 0, B: 0},
			{R: 0, G: 255, B: 0},
			{R: 0, G: 0, B: 255},
		}},
	}
	f := Frame{
		Width: 2, Height: 2,
		RasterIndices: []byte{0, 1, 2, 3},
	}
	f.SetGraphicControl(GraphicControl{
		DelayCentiseconds: 50,
		TransparentIndex:  0,
		Disposal:          DisposalBackground,
	})
	f.Extensions = append(f.Extensions, ExtensionBlock{
		Function: 0xFE, // comment extension
		Bytes:    []byte("hello"),
	})
	s.Frames = []Frame{f}
	return s
}

func TestWriteParseRoundTrip(t *testing.T) {
	in := sampleStream()

	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := Slurp(out); err != nil {
		t.Fatalf("Slurp: %v", err)
	}

	if out.ScreenWidth != in.ScreenWidth || out.ScreenHeight != in.ScreenHeight {
		t.Fatalf("screen size mismatch: got %dx%d, want %dx%d",
			out.ScreenWidth, out.ScreenHeight, in.ScreenWidth, in.ScreenHeight)
	}
	if !out.GlobalColorMap.Equal(in.GlobalColorMap) {
		t.Fatalf("global color map mismatch")
	}
	if len(out.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(out.Frames))
	}

	gotFrame := out.Frames[0]
	if !bytes.Equal(gotFrame.RasterIndices, in.Frames[0].RasterIndices) {
		t.Fatalf("raster mismatch: got %v, want %v", gotFrame.RasterIndices, in.Frames[0].RasterIndices)
	}

	gc := gotFrame.GraphicControl()
	wantGC := in.Frames[0].GraphicControl()
	if gc != wantGC {
		t.Fatalf("graphic control mismatch: got %+v, want %+v", gc, wantGC)
	}

	foundComment := false
	for _, b := range gotFrame.Extensions {
		if b.Function == 0xFE && string(b.Bytes) == "hello" {
			foundComment = true
		}
	}
	if !foundComment {
		t.Fatalf("comment extension did not round-trip: %+v", gotFrame.Extensions)
	}
}

func TestPendingExtensionsAttachToNextFrame(t *testing.T) {
	s := &GifStream{
		ScreenWidth:  1,
		ScreenHeight: 1,
		GlobalColorMap: &ColorMap{Colors: []Color{
			{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255},
		}},
	}
	f0 := Frame{Width: 1, Height: 1, RasterIndices: []byte{0}}
	f0.Extensions = []ExtensionBlock{{Function: 0xFE, Bytes: []byte("first")}}
	f1 := Frame{Width: 1, Height: 1, RasterIndices: []byte{1}}
	f1.Extensions = []ExtensionBlock{{Function: 0xFE, Bytes: []byte("second")}}
	s.Frames = []Frame{f0, f1}

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := Slurp(out); err != nil {
		t.Fatalf("Slurp: %v", err)
	}
	if len(out.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(out.Frames))
	}
	if string(out.Frames[0].Extensions[0].Bytes) != "first" {
		t.Fatalf("frame 0 lost its extension: %+v", out.Frames[0].Extensions)
	}
	if string(out.Frames[1].Extensions[0].Bytes) != "second" {
		t.Fatalf("frame 1 lost its extension: %+v", out.Frames[1].Extensions)
	}
}

func TestCloneTemplateDropsScreenSizeAndRaster(t *testing.T) {
	s := sampleStream()
	tmpl := s.CloneTemplate()

	if tmpl.ScreenWidth != 0 || tmpl.ScreenHeight != 0 {
		t.Fatalf("expected zeroed screen size, got %dx%d", tmpl.ScreenWidth, tmpl.ScreenHeight)
	}
	if tmpl.Frames[0].RasterIndices != nil {
		t.Fatalf("expected nil raster in template, got %v", tmpl.Frames[0].RasterIndices)
	}
	if !tmpl.GlobalColorMap.Equal(s.GlobalColorMap) {
		t.Fatalf("expected cloned global color map to match source")
	}
	// Mutating the clone must not affect the source (deep copy check).
	tmpl.GlobalColorMap.Colors[0] = Color{R: 9, G: 9, B: 9}
	if s.GlobalColorMap.Colors[0] == (Color{R: 9, G: 9, B: 9}) {
		t.Fatalf("CloneTemplate aliased the global color map")
	}
}

func TestMinCodeSizeFor(t *testing.T) {
	cases := []struct {
		paletteSize int
		want        byte
	}{
		{2, 2}, {3, 2}, {4, 2}, {5, 3}, {256, 8},
	}
	for _, c := range cases {
		if got := minCodeSizeFor(c.paletteSize); got != c.want {
			t.Errorf("minCodeSizeFor(%d) = %d, want %d", c.paletteSize, got, c.want)
		}
	}
}
