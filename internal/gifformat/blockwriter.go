package gifformat

import "io"

// subBlockWriter frames an LZW byte stream into GIF's ≤255-byte sub-blocks,
// each prefixed with its own length byte, terminated by a zero-length
// block. The LZW math itself is delegated to compress/lzw, but GIF's block
// framing around it is not something compress/lzw knows about, so it still
// needs a small writer of its own.
type subBlockWriter struct {
	w   io.Writer
	buf [255]byte
	n   int
}

func newSubBlockWriter(w io.Writer) *subBlockWriter {
	return &subBlockWriter{w: w}
}

func (b *subBlockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		n := copy(b.buf[b.n:], p)
		b.n += n
		p = p[n:]
		total += n
		if b.n == len(b.buf) {
			if err := b.flush(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (b *subBlockWriter) flush() error {
	if b.n == 0 {
		return nil
	}
	if _, err := b.w.Write([]byte{byte(b.n)}); err != nil {
		return err
	}
	if _, err := b.w.Write(b.buf[:b.n]); err != nil {
		return err
	}
	b.n = 0
	return nil
}

// Close flushes any partial sub-block and writes the terminating
// zero-length block.
func (b *subBlockWriter) Close() error {
	if err := b.flush(); err != nil {
		return err
	}
	_, err := b.w.Write([]byte{0})
	return err
}

// collectSubBlocks reads and concatenates every sub-block up to (and
// consuming) the terminator, returning the raw packed bytes. Used by Parse
// to snapshot a frame's still-compressed raster for deferred decoding in
// Slurp.
func collectSubBlocks(r *cursorReader) ([]byte, error) {
	var out []byte
	for {
		size, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return out, nil
		}
		data, err := r.readN(int(size))
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
}
