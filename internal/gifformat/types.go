// Package gifformat is the GIF Stream Codec: it owns the in-memory tree a
// decoded GIF is parsed into (logical screen descriptor, per-frame image
// descriptors, color maps and extension blocks) and knows how to read and
// write that tree as a GIF89a byte stream. It treats LZW entropy coding as
// someone else's problem (compress/lzw) and concerns itself only with the
// structural framing around it.
package gifformat


// DisposalMode is the GIF disposal instruction attached to a frame via its
// graphic control extension: what the renderer should do with this frame's
// pixels before drawing the next one.
type DisposalMode int

const (
	DisposalUnspecified DisposalMode = iota
	DisposalDoNotDispose
	DisposalBackground
	DisposalPrevious
)

// NoTransparentColor is the sentinel GraphicControl.TransparentIndex takes
// when a frame declares no transparent color.
const NoTransparentColor = -1

// GraphicControl is the semantically-interpreted content of a frame's
// graphic control extension.
type GraphicControl struct {
	DelayCentiseconds uint16
	TransparentIndex  int
	Disposal          DisposalMode
}

// Color is one RGB palette entry.
type Color struct {
	R, G, B byte
}

// ColorMap is an ordered, ≤256-entry palette, global or local to a frame.
type ColorMap struct {
	Colors []Color
}

// Count returns the number of populated entries.
func (c *ColorMap) Count() int {
	if c == nil {
		return 0
	}
	return len(c.Colors)
}

// Equal reports whether two color maps have byte-identical entries, used by
// the encoder's palette-lookup cache-coherence check (spec: compare the
// byte representation of the previous frame's effective palette).
func (c *ColorMap) Equal(o *ColorMap) bool {
	if c == nil || o == nil {
		return c == o
	}
	if len(c.Colors) != len(o.Colors) {
		return false
	}
	for i := range c.Colors {
		if c.Colors[i] != o.Colors[i] {
			return false
		}
	}
	return true
}

// Clone performs a deep copy, mirroring the encoder construction's
// "every colormap ... is copied onto heap storage" policy.
func (c *ColorMap) Clone() *ColorMap {
	if c == nil {
		return nil
	}
	out := &ColorMap{Colors: make([]Color, len(c.Colors))}
	copy(out.Colors, c.Colors)
	return out
}

// ExtensionBlock is a single GIF extension sub-block: a function code plus
// its payload. The core preserves these verbatim on re-encode except for
// the one it interprets (the graphic control extension); it never merges
// or reframes chained sub-blocks, matching the giflib lineage this format
// was ported from, which re-emits each saved sub-block as its own
// complete, independent extension.
type ExtensionBlock struct {
	Function byte
	Bytes    []byte
}

// CloneExtensions deep-copies an extension block list.
func CloneExtensions(blocks []ExtensionBlock) []ExtensionBlock {
	if blocks == nil {
		return nil
	}
	out := make([]ExtensionBlock, len(blocks))
	for i, b := range blocks {
		out[i] = ExtensionBlock{Function: b.Function, Bytes: append([]byte(nil), b.Bytes...)}
	}
	return out
}

const (
	functionGraphicControl = 0xF9
)

// decodeGraphicControl scans a frame's extension blocks for the graphic
// control extension and decodes it. If none is present, a control with no
// delay, no transparency (TransparentIndex NoTransparentColor) and
// unspecified disposal is returned.
func decodeGraphicControl(blocks []ExtensionBlock) GraphicControl {
	for _, b := range blocks {
		if b.Function != functionGraphicControl || len(b.Bytes) < 4 {
			continue
		}
		packed := b.Bytes[0]
		gc := GraphicControl{
			DelayCentiseconds: uint16(b.Bytes[1]) | uint16(b.Bytes[2])<<8,
			Disposal:          DisposalMode((packed >> 2) & 0x07),
			TransparentIndex:  NoTransparentColor,
		}
		if packed&0x01 != 0 {
			gc.TransparentIndex = int(b.Bytes[3])
		}
		return gc
	}
	return GraphicControl{TransparentIndex: NoTransparentColor}
}

// encodeGraphicControl renders a GraphicControl back into its extension
// sub-block payload (packed byte, delay, transparent index).
func encodeGraphicControl(gc GraphicControl) ExtensionBlock {
	var packed byte
	packed |= byte(gc.Disposal&0x07) << 2
	transIdx := byte(0)
	if gc.TransparentIndex != NoTransparentColor {
		packed |= 0x01
		transIdx = byte(gc.TransparentIndex)
	}
	return ExtensionBlock{
		Function: functionGraphicControl,
		Bytes:    []byte{packed, byte(gc.DelayCentiseconds), byte(gc.DelayCentiseconds >> 8), transIdx},
	}
}

// Frame is one sub-rectangle of the animation plus everything needed to
// composite or re-encode it.
type Frame struct {
	Left, Top, Width, Height int
	Interlace                bool
	LocalColorMap            *ColorMap
	RasterIndices            []byte

	// compressed holds the still-packed LZW sub-blocks for this frame, set
	// by Parse and consumed once by Slurp. Nil once RasterIndices is
	// populated (or for frames an encoder builds itself, which never have
	// compressed data to begin with).
	compressed  []byte
	minCodeSize byte

	Extensions []ExtensionBlock
}

// GraphicControl decodes this frame's graphic control extension, if any.
func (f *Frame) GraphicControl() GraphicControl {
	return decodeGraphicControl(f.Extensions)
}

// SetGraphicControl replaces (or adds) this frame's graphic control
// extension with the given value, preserving every other extension block
// verbatim and its relative position among the non-GCE blocks.
func (f *Frame) SetGraphicControl(gc GraphicControl) {
	eb := encodeGraphicControl(gc)
	for i, b := range f.Extensions {
		if b.Function == functionGraphicControl {
			f.Extensions[i] = eb
			return
		}
	}
	// A GCE is conventionally the first extension preceding a frame.
	f.Extensions = append([]ExtensionBlock{eb}, f.Extensions...)
}

// EffectiveColorMap returns this frame's local color map if it has one,
// else the stream's global color map.
func (f *Frame) EffectiveColorMap(global *ColorMap) *ColorMap {
	if f.LocalColorMap != nil {
		return f.LocalColorMap
	}
	return global
}

// Clone deep-copies a frame's metadata. RasterIndices are copied too, since
// an encoder-side frame that already has rasters (e.g. re-quantized) should
// be cloneable for tests without aliasing.
func (f *Frame) Clone() Frame {
	out := Frame{
		Left: f.Left, Top: f.Top, Width: f.Width, Height: f.Height,
		Interlace:     f.Interlace,
		LocalColorMap: f.LocalColorMap.Clone(),
		Extensions:    CloneExtensions(f.Extensions),
	}
	if f.RasterIndices != nil {
		out.RasterIndices = append([]byte(nil), f.RasterIndices...)
	}
	return out
}

// GifStream is the fully-parsed in-memory representation of a GIF89a
// stream: global screen properties, the global color map, trailing
// (unattached) extension blocks and the frame list.
type GifStream struct {
	ScreenWidth, ScreenHeight int
	ColorResolution           byte
	AspectRatio               byte
	BackgroundColorIndex      byte
	GlobalColorMap            *ColorMap
	TrailingExtensions        []ExtensionBlock
	Frames                    []Frame
}

// CloneTemplate deep-copies everything an encoder needs to seed a fresh
// output stream from a decoded one: color resolution, aspect ratio, global
// palette, trailing extensions and per-frame metadata (local palette,
// extensions, disposal, delay, transparency). Screen dimensions are
// deliberately left zero - those are set once via Encoder.Init, exactly as
// giflib_encoder_create leaves SWidth/SHeight untouched for
// giflib_encoder_init to fill in - since the caller may resize frames
// between decode and encode. Raster data is left unset for the same
// reason: an encoder's raster is only allocated when that frame is
// actually encoded.
func (s *GifStream) CloneTemplate() *GifStream {
	out := &GifStream{
		ColorResolution:      s.ColorResolution,
		AspectRatio:          s.AspectRatio,
		BackgroundColorIndex: s.BackgroundColorIndex,
		GlobalColorMap:       s.GlobalColorMap.Clone(),
		TrailingExtensions:   CloneExtensions(s.TrailingExtensions),
		Frames:               make([]Frame, len(s.Frames)),
	}
	for i := range s.Frames {
		f := s.Frames[i].Clone()
		f.RasterIndices = nil // allocated only once that frame is encoded
		out.Frames[i] = f
	}
	return out
}
