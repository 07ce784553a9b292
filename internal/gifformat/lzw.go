package gifformat

import (
	"bytes"
	"compress/lzw"
	"io"
)

// minCodeSizeFor returns the LZW minimum code size for a palette of the
// given size, matching GIF's convention: the smallest bit width able to
// index every entry, floored at 2.
func minCodeSizeFor(paletteSize int) byte {
	bits := 2
	for (1 << uint(bits)) < paletteSize {
		bits++
	}
	return byte(bits)
}

// decodeRaster LZW-decompresses a frame's packed sub-block bytes into
// width*height raw palette-index bytes. This is Slurp's per-frame work.
func decodeRaster(compressed []byte, minCodeSize byte, width, height int) ([]byte, error) {
	r := lzw.NewReader(bytes.NewReader(compressed), lzw.LSB, int(minCodeSize))
	defer r.Close()
	out := make([]byte, width*height)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// encodeRaster LZW-compresses raster (width*height palette-index bytes) and
// writes it to w as a minimum-code-size byte followed by framed sub-blocks
// and their terminator - the full on-wire shape of a GIF image data block.
func encodeRaster(w io.Writer, raster []byte, paletteSize int) error {
	minCodeSize := minCodeSizeFor(paletteSize)
	if _, err := w.Write([]byte{minCodeSize}); err != nil {
		return err
	}
	sbw := newSubBlockWriter(w)
	lzww := lzw.NewWriter(sbw, lzw.LSB, int(minCodeSize))
	if _, err := lzww.Write(raster); err != nil {
		lzww.Close()
		return err
	}
	if err := lzww.Close(); err != nil {
		return err
	}
	return sbw.Close()
}
