package gifcore

import "fmt"

// PixelGrid is the capability a Canvas provides: a caller-owned rectangular
// pixel grid the Decoder writes into and the Encoder reads from, expressed
// as an explicit interface rather than a raw buffer pointer plus a
// separately-tracked stride.
//
// Pixels are 4 bytes each, in B, G, R, A order, row-major, with Stride
// bytes between the start of consecutive rows (Stride >= 4*Width).
type PixelGrid interface {
	Size() (width, height int)
	Stride() int
	Pix() []byte
}

// Canvas is the default PixelGrid implementation: a flat byte slice a
// caller allocates once and reuses across Decoder.Render calls (and hands
// to Encoder.EncodeFrame after transforming it, e.g. resizing).
type Canvas struct {
	width, height int
	stride        int
	pix           []byte
}

// NewCanvas allocates a zeroed width x height BGRA canvas with the minimum
// valid stride (4*width).
func NewCanvas(width, height int) *Canvas {
	stride := width * 4
	return &Canvas{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}
}

// NewCanvasWithStride wraps an existing BGRA buffer with an explicit
// stride, for callers whose rows are padded.
func NewCanvasWithStride(width, height, stride int, pix []byte) (*Canvas, error) {
	if stride < width*4 {
		return nil, fmt.Errorf("gifcore: stride %d too small for width %d", stride, width)
	}
	if len(pix) < stride*height {
		return nil, fmt.Errorf("gifcore: pixel buffer too small: need %d bytes, have %d", stride*height, len(pix))
	}
	return &Canvas{width: width, height: height, stride: stride, pix: pix}, nil
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }
func (c *Canvas) Stride() int      { return c.stride }
func (c *Canvas) Pix() []byte      { return c.pix }

// bgra is one B,G,R,A pixel value.
type bgra struct {
	b, g, r, a byte
}

func (c *Canvas) set(x, y int, p bgra) {
	i := y*c.stride + x*4
	c.pix[i] = p.b
	c.pix[i+1] = p.g
	c.pix[i+2] = p.r
	c.pix[i+3] = p.a
}

func (c *Canvas) at(x, y int) bgra {
	i := y*c.stride + x*4
	px := c.pix[i : i+4 : i+4]
	return bgra{b: px[0], g: px[1], r: px[2], a: px[3]}
}

// fillRect fills [left,left+w) x [top,top+h) with p.
func fillRect(g PixelGrid, left, top, w, h int, p bgra) {
	stride := g.Stride()
	pix := g.Pix()
	for y := top; y < top+h; y++ {
		row := y * stride
		for x := left; x < left+w; x++ {
			i := row + x*4
			pix[i] = p.b
			pix[i+1] = p.g
			pix[i+2] = p.r
			pix[i+3] = p.a
		}
	}
}
