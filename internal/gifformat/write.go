package gifformat

import "io"

// Write serializes a GifStream as a complete GIF89a byte stream: header,
// logical screen descriptor, global color table, then for each frame its
// pending extension blocks, image descriptor, local color table and
// LZW-packed raster, and finally the stream's trailing extension blocks and
// the GIF trailer.
func Write(w io.Writer, s *GifStream) error {
	if _, err := io.WriteString(w, "GIF89a"); err != nil {
		return err
	}

	if err := writeUint16(w, uint16(s.ScreenWidth)); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(s.ScreenHeight)); err != nil {
		return err
	}

	var lsdPacked byte
	if s.GlobalColorMap != nil {
		lsdPacked |= 0x80
		lsdPacked |= colorTableSizeField(s.GlobalColorMap.Count())
	}
	lsdPacked |= (s.ColorResolution & 0x07) << 4
	if err := writeByte(w, lsdPacked); err != nil {
		return err
	}
	if err := writeByte(w, s.BackgroundColorIndex); err != nil {
		return err
	}
	if err := writeByte(w, s.AspectRatio); err != nil {
		return err
	}
	if s.GlobalColorMap != nil {
		if err := writeColorTable(w, s.GlobalColorMap); err != nil {
			return err
		}
	}

	for i := range s.Frames {
		if err := writeFrame(w, &s.Frames[i], s.GlobalColorMap); err != nil {
			return err
		}
	}

	if err := writeExtensions(w, s.TrailingExtensions); err != nil {
		return err
	}

	return writeByte(w, trailer)
}

func writeFrame(w io.Writer, f *Frame, globalColorMap *ColorMap) error {
	if err := writeExtensions(w, f.Extensions); err != nil {
		return err
	}

	if err := writeByte(w, imageSeparator); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(f.Left)); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(f.Top)); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(f.Width)); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(f.Height)); err != nil {
		return err
	}

	var packed byte
	if f.LocalColorMap != nil {
		packed |= 0x80
		packed |= colorTableSizeField(f.LocalColorMap.Count())
	}
	// The interlace flag is re-emitted as decoded, but rows are never
	// reordered: Slurp, Render and encodeRaster all keep rasters in stored
	// order.
	if f.Interlace {
		packed |= 0x40
	}
	if err := writeByte(w, packed); err != nil {
		return err
	}
	if f.LocalColorMap != nil {
		if err := writeColorTable(w, f.LocalColorMap); err != nil {
			return err
		}
	}

	paletteSize := f.EffectiveColorMap(globalColorMap).Count()
	if paletteSize == 0 {
		paletteSize = 256 // caller already validated an effective palette exists
	}
	return encodeRaster(w, f.RasterIndices, paletteSize)
}

// writeExtensions re-emits every saved extension sub-block as its own
// complete, independent extension (introducer, function, the payload as
// length-prefixed data blocks of at most 255 bytes each - a single block for
// any payload Parse produced - and a terminator) - the same simplification giflib itself
// makes when spewing a stream it slurped, since by the time it reaches the
// encoder the boundary between "sub-blocks of one extension" and
// "consecutive distinct extensions" is already lost.
func writeExtensions(w io.Writer, blocks []ExtensionBlock) error {
	for _, b := range blocks {
		if err := writeByte(w, extensionIntroducer); err != nil {
			return err
		}
		if err := writeByte(w, b.Function); err != nil {
			return err
		}
		for len(b.Bytes) > 0 {
			n := len(b.Bytes)
			if n > 255 {
				n = 255
			}
			if err := writeByte(w, byte(n)); err != nil {
				return err
			}
			if _, err := w.Write(b.Bytes[:n]); err != nil {
				return err
			}
			b.Bytes = b.Bytes[n:]
		}
		if err := writeByte(w, 0); err != nil {
			return err
		}
	}
	return nil
}

func writeColorTable(w io.Writer, cmap *ColorMap) error {
	padded := 1 << uint(colorTableSizeField(cmap.Count())+1)
	for i := 0; i < padded; i++ {
		if i < len(cmap.Colors) {
			c := cmap.Colors[i]
			if _, err := w.Write([]byte{c.R, c.G, c.B}); err != nil {
				return err
			}
		} else {
			if _, err := w.Write([]byte{0, 0, 0}); err != nil {
				return err
			}
		}
	}
	return nil
}

// colorTableSizeField packs a palette entry count into GIF's 3-bit "size"
// field: the table actually written has 2^(field+1) entries.
func colorTableSizeField(count int) byte {
	field := byte(0)
	for (1 << uint(field+1)) < count && field < 7 {
		field++
	}
	return field
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func writeUint16(w io.Writer, v uint16) error {
	_, err := w.Write([]byte{byte(v), byte(v >> 8)})
	return err
}
