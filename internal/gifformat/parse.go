package gifformat

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned (possibly wrapped) for any structurally invalid
// GIF stream encountered while parsing.
var ErrMalformed = errors.New("gifformat: malformed GIF stream")

const (
	extensionIntroducer = 0x21
	imageSeparator      = 0x2C
	trailer             = 0x3B
)

// Parse reads a complete GIF87a/GIF89a stream from data and builds its
// in-memory GifStream tree: the logical screen descriptor, global color
// map, and for every frame its image descriptor, local color map (if any)
// and the extension blocks that precede it - the same structural records
// giflib's DGifSlurp walks. Frame raster data is left compressed (see
// Slurp); this only parses structure.
func Parse(data []byte) (*GifStream, error) {
	r := newCursorReader(data)

	sig, err := r.readN(6)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	if string(sig) != "GIF87a" && string(sig) != "GIF89a" {
		return nil, fmt.Errorf("%w: bad signature %q", ErrMalformed, sig)
	}

	width, err := r.readUint16LE()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated logical screen descriptor", ErrMalformed)
	}
	height, err := r.readUint16LE()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated logical screen descriptor", ErrMalformed)
	}
	packed, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated logical screen descriptor", ErrMalformed)
	}
	bgIndex, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated logical screen descriptor", ErrMalformed)
	}
	aspect, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated logical screen descriptor", ErrMalformed)
	}

	stream := &GifStream{
		ScreenWidth:          int(width),
		ScreenHeight:         int(height),
		ColorResolution:      (packed >> 4) & 0x07,
		AspectRatio:          aspect,
		BackgroundColorIndex: bgIndex,
	}

	hasGlobalMap := packed&0x80 != 0
	if hasGlobalMap {
		size := int(packed&0x07) + 1
		cmap, err := readColorTable(r, 1<<uint(size))
		if err != nil {
			return nil, err
		}
		stream.GlobalColorMap = cmap
	}

	var pending []ExtensionBlock
	for {
		tag, err := r.readByte()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated stream (no trailer)", ErrMalformed)
		}

		switch tag {
		case extensionIntroducer:
			fn, err := r.readByte()
			if err != nil {
				return nil, fmt.Errorf("%w: truncated extension", ErrMalformed)
			}
			for {
				size, err := r.readByte()
				if err != nil {
					return nil, fmt.Errorf("%w: truncated extension", ErrMalformed)
				}
				if size == 0 {
					break
				}
				payload, err := r.readN(int(size))
				if err != nil {
					return nil, fmt.Errorf("%w: truncated extension", ErrMalformed)
				}
				pending = append(pending, ExtensionBlock{Function: fn, Bytes: payload})
			}

		case imageSeparator:
			frame, err := parseImageDescriptor(r)
			if err != nil {
				return nil, err
			}
			frame.Extensions = pending
			pending = nil
			stream.Frames = append(stream.Frames, frame)

		case trailer:
			stream.TrailingExtensions = pending
			return stream, nil

		default:
			return nil, fmt.Errorf("%w: unexpected block tag 0x%02x", ErrMalformed, tag)
		}
	}
}

func parseImageDescriptor(r *cursorReader) (Frame, error) {
	left, err := r.readUint16LE()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: truncated image descriptor", ErrMalformed)
	}
	top, err := r.readUint16LE()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: truncated image descriptor", ErrMalformed)
	}
	width, err := r.readUint16LE()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: truncated image descriptor", ErrMalformed)
	}
	height, err := r.readUint16LE()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: truncated image descriptor", ErrMalformed)
	}
	packed, err := r.readByte()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: truncated image descriptor", ErrMalformed)
	}

	frame := Frame{
		Left:      int(left),
		Top:       int(top),
		Width:     int(width),
		Height:    int(height),
		Interlace: packed&0x40 != 0,
	}

	if packed&0x80 != 0 {
		size := int(packed&0x07) + 1
		cmap, err := readColorTable(r, 1<<uint(size))
		if err != nil {
			return Frame{}, err
		}
		frame.LocalColorMap = cmap
	}

	minCodeSize, err := r.readByte()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: truncated raster data", ErrMalformed)
	}
	compressed, err := collectSubBlocks(r)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: truncated raster data", ErrMalformed)
	}
	frame.minCodeSize = minCodeSize
	frame.compressed = compressed

	return frame, nil
}

func readColorTable(r *cursorReader, count int) (*ColorMap, error) {
	cmap := &ColorMap{Colors: make([]Color, count)}
	for i := 0; i < count; i++ {
		rgb, err := r.readN(3)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated color table", ErrMalformed)
		}
		cmap.Colors[i] = Color{R: rgb[0], G: rgb[1], B: rgb[2]}
	}
	return cmap, nil
}

// Slurp completes the deferred LZW decompression for every frame that
// hasn't had its raster materialized yet, matching giflib's DGifSlurp
// relative to the header-only work DGifOpen already did.
func Slurp(s *GifStream) error {
	for i := range s.Frames {
		f := &s.Frames[i]
		if f.RasterIndices != nil {
			continue
		}
		raster, err := decodeRaster(f.compressed, f.minCodeSize, f.Width, f.Height)
		if err != nil {
			return fmt.Errorf("gifformat: slurp frame %d: %w", i, err)
		}
		f.RasterIndices = raster
		f.compressed = nil
	}
	return nil
}
