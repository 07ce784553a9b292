package gifcore

import (
	"fmt"

	"github.com/gif-tools/gifcore/internal/gifformat"
)

// Decoder owns a parsed GIF in memory and can composite any of its frames
// onto a caller-owned canvas, in the spirit of giflib's GifFileType plus
// DGifSlurp/DGifGetLine.
type Decoder struct {
	stream  *gifformat.GifStream
	slurped bool
}

// OpenDecoder parses a complete GIF byte stream's structure (header,
// logical screen descriptor, per-frame image descriptors, color maps and
// extension blocks). It does not decompress any frame's raster data yet -
// call Slurp for that - mirroring DGifOpen only reading the header-level
// records while DGifSlurp does the LZW expansion.
func OpenDecoder(input []byte) (*Decoder, error) {
	stream, err := gifformat.Parse(input)
	if err != nil {
		return nil, err
	}
	return &Decoder{stream: stream}, nil
}

// ScreenWidth returns the logical screen width.
func (d *Decoder) ScreenWidth() int { return d.stream.ScreenWidth }

// ScreenHeight returns the logical screen height.
func (d *Decoder) ScreenHeight() int { return d.stream.ScreenHeight }

// FrameCount returns the number of frames the stream contains.
func (d *Decoder) FrameCount() int { return len(d.stream.Frames) }

// Slurp completes any deferred LZW decompression, leaving every frame's
// raster fully populated in memory.
func (d *Decoder) Slurp() error {
	if err := gifformat.Slurp(d.stream); err != nil {
		return err
	}
	d.slurped = true
	return nil
}

// Release drops the decoder's reference to its parsed stream. Go's garbage
// collector reclaims the memory once nothing else holds it; this exists so
// callers get explicit create/release lifecycle symmetry, and so a
// released Decoder can't be rendered from by mistake.
func (d *Decoder) Release() {
	d.stream = nil
}

// resolvedBackground computes the background color: the global colormap
// color at BackgroundColorIndex, except that if that index equals frame 0's
// transparent index, the background is the fully transparent pixel. This
// reads frame 0's own graphic control block specifically, not a generic
// "has transparency" flag, matching how giflib resolves SBackGroundColor
// against the first frame's extension.
func (d *Decoder) resolvedBackground() (bgra, error) {
	if len(d.stream.Frames) == 0 {
		return bgra{}, fmt.Errorf("gifcore: %w: stream has no frames", ErrFrameIndex)
	}
	firstGC := d.stream.Frames[0].GraphicControl()
	if int(d.stream.BackgroundColorIndex) == firstGC.TransparentIndex {
		return bgra{}, nil
	}
	if d.stream.GlobalColorMap == nil || int(d.stream.BackgroundColorIndex) >= d.stream.GlobalColorMap.Count() {
		return bgra{}, ErrNoColorMap
	}
	c := d.stream.GlobalColorMap.Colors[d.stream.BackgroundColorIndex]
	return bgra{b: c.B, g: c.G, r: c.R, a: 255}, nil
}

// Render composites frameIndex onto canvas, honoring transparency, the
// frame's sub-rectangle, and the previous frame's disposal mode.
func (d *Decoder) Render(frameIndex int, canvas PixelGrid) error {
	if d.stream == nil {
		return fmt.Errorf("gifcore: decoder has been released")
	}
	if !d.slurped {
		return ErrNotSlurped
	}
	if frameIndex < 0 || frameIndex >= len(d.stream.Frames) {
		return fmt.Errorf("gifcore: %w: %d", ErrFrameIndex, frameIndex)
	}

	bufWidth, bufHeight := canvas.Size()
	frame := &d.stream.Frames[frameIndex]

	if frame.Left < 0 || frame.Top < 0 || frame.Width < 0 || frame.Height < 0 {
		return fmt.Errorf("gifcore: %w: negative frame rectangle", ErrFrameOutOfBounds)
	}
	if frame.Left+frame.Width > bufWidth {
		return fmt.Errorf("gifcore: %w: left+width exceeds canvas width", ErrFrameOutOfBounds)
	}
	if frame.Top+frame.Height > bufHeight {
		return fmt.Errorf("gifcore: %w: top+height exceeds canvas height", ErrFrameOutOfBounds)
	}

	cmap := frame.EffectiveColorMap(d.stream.GlobalColorMap)
	if cmap == nil {
		return ErrNoColorMap
	}

	bg, err := d.resolvedBackground()
	if err != nil {
		return err
	}

	if frameIndex == 0 {
		fillRect(canvas, 0, 0, bufWidth, bufHeight, bg)
	}

	if frameIndex > 0 {
		prev := &d.stream.Frames[frameIndex-1]
		switch prev.GraphicControl().Disposal {
		case gifformat.DisposalBackground:
			fillRect(canvas, prev.Left, prev.Top, prev.Width, prev.Height, bg)
		case gifformat.DisposalPrevious:
			// Left a no-op: full support needs a shadow canvas carried
			// across an arbitrary history of non-DO_NOT-dispose frames.
		}
	}

	gc := frame.GraphicControl()
	transparentIndex := gc.TransparentIndex

	stride := canvas.Stride()
	pix := canvas.Pix()
	bitIndex := 0
	for y := frame.Top; y < frame.Top+frame.Height; y++ {
		rowOff := y*stride + frame.Left*4
		for x := 0; x < frame.Width; x++ {
			idx := frame.RasterIndices[bitIndex]
			bitIndex++
			if int(idx) == transparentIndex {
				continue
			}
			if int(idx) >= cmap.Count() {
				return fmt.Errorf("gifcore: raster index %d outside %d-entry color map", idx, cmap.Count())
			}
			c := cmap.Colors[idx]
			off := rowOff + x*4
			pix[off] = c.B
			pix[off+1] = c.G
			pix[off+2] = c.R
			pix[off+3] = 255
		}
	}

	return nil
}
