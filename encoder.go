package gifcore

import (
	"fmt"
	"io"

	"github.com/gif-tools/gifcore/internal/gifformat"
)

// Encoder owns a skeleton GIF built from a decoder's metadata plus a
// palette-index lookup cache. It accepts RGBA frames one at a time,
// quantizes them to palette indices, and serializes the complete stream on
// Flush, mirroring giflib's create/init/encode-frame/spew encoder lifecycle.
type Encoder struct {
	dst    io.Writer
	stream *gifformat.GifStream
	lookup *paletteLookup

	// lastColorMap is the effective palette of the most recently encoded
	// frame, compared against the next frame's to decide whether the
	// lookup cache can be reused across frames that share a palette.
	lastColorMap *gifformat.ColorMap

	nextFrameIndex int
	flushed        bool
}

// OpenEncoder seeds a fresh Encoder from template's parsed metadata: screen
// color resolution and aspect byte, trailing extension blocks, a deep copy
// of the global color map, and per-frame local color maps, extension
// blocks, disposal and delay - everything except raster pixels and screen
// dimensions, which are supplied later via EncodeFrame and Init
// respectively. template is used strictly as a read-only metadata source;
// it must not be concurrently mutated while this call runs.
func OpenEncoder(dst io.Writer, template *Decoder) (*Encoder, error) {
	if template.stream == nil {
		return nil, fmt.Errorf("gifcore: template decoder has been released")
	}
	return &Encoder{
		dst:    dst,
		stream: template.stream.CloneTemplate(),
		lookup: &paletteLookup{},
	}, nil
}

// Init sets the logical screen dimensions of the output stream. It must be
// called once, before the first EncodeFrame.
func (e *Encoder) Init(width, height int) error {
	if e.stream == nil {
		return ErrEncoderConsumed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gifcore: invalid screen dimensions %dx%d", width, height)
	}
	e.stream.ScreenWidth = width
	e.stream.ScreenHeight = height
	return nil
}

// EncodeFrame quantizes canvas into frameIndex's raster, reusing the
// palette lookup cache across frames that share a byte-identical effective
// palette. Frames must be encoded one at a time in index order, starting at
// 0 with no index skipped (any other index fails with ErrOutOfOrder); every
// encoded frame covers the full canvas at origin (0,0) - partial-frame
// encoding is not supported.
func (e *Encoder) EncodeFrame(frameIndex int, canvas PixelGrid) error {
	if e.stream == nil {
		return ErrEncoderConsumed
	}
	if frameIndex < 0 || frameIndex >= len(e.stream.Frames) {
		return fmt.Errorf("gifcore: %w: %d", ErrFrameIndex, frameIndex)
	}
	if frameIndex != e.nextFrameIndex {
		return fmt.Errorf("gifcore: %w: expected %d, got %d", ErrOutOfOrder, e.nextFrameIndex, frameIndex)
	}

	width, height := canvas.Size()
	if width > e.stream.ScreenWidth || height > e.stream.ScreenHeight {
		return ErrFrameTooLarge
	}

	frame := &e.stream.Frames[frameIndex]
	frame.Left, frame.Top = 0, 0
	frame.Width, frame.Height = width, height

	cmap := frame.EffectiveColorMap(e.stream.GlobalColorMap)
	if cmap == nil {
		return ErrNoColorMap
	}

	if frameIndex == 0 || e.lastColorMap == nil || !e.lastColorMap.Equal(cmap) {
		e.lookup.clear()
	}

	transparentIndex := frame.GraphicControl().TransparentIndex

	stride := canvas.Stride()
	pix := canvas.Pix()
	raster := make([]byte, width*height)
	i := 0
	for y := 0; y < height; y++ {
		rowOff := y * stride
		for x := 0; x < width; x++ {
			off := rowOff + x*4
			p := bgra{b: pix[off], g: pix[off+1], r: pix[off+2], a: pix[off+3]}
			raster[i] = quantizePixel(p, cmap, e.lookup, transparentIndex)
			i++
		}
	}

	frame.RasterIndices = raster
	e.lastColorMap = cmap
	e.nextFrameIndex = frameIndex + 1
	return nil
}

// Flush serializes the fully populated encoder to its destination sink.
// After a successful flush the encoder's internal stream is consumed - a
// second Flush or further EncodeFrame calls fail - matching giflib's own
// surprise that EGifSpew frees the GIF handle as a side effect of writing
// it out.
func (e *Encoder) Flush() error {
	if e.flushed {
		return ErrEncoderConsumed
	}
	if err := gifformat.Write(e.dst, e.stream); err != nil {
		return err
	}
	e.flushed = true
	e.stream = nil
	return nil
}

// Release drops every reference the encoder was holding. Safe to call
// whether or not Flush succeeded; a second Release is a no-op.
func (e *Encoder) Release() {
	e.stream = nil
	e.lookup = nil
}
