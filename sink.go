package gifcore

// Sink is a growable byte buffer that a writer callback appends to. It is
// the default capability behind the destination an Encoder serializes
// into: a page-at-a-time buffer so that growing it never needs to
// reallocate and copy everything written so far.
type Sink struct {
	pages    [][]byte
	page     int
	cursor   int
	pageSize int
}

const defaultSinkPageSize = 4096

// NewSink creates an empty Sink using the default page size.
func NewSink() *Sink {
	s := &Sink{page: -1, pageSize: defaultSinkPageSize}
	s.newPage()
	return s
}

func (s *Sink) newPage() {
	s.page++
	s.pages = append(s.pages, make([]byte, s.pageSize))
	s.cursor = 0
}

// WriteByte appends a single byte, satisfying io.ByteWriter.
func (s *Sink) WriteByte(b byte) error {
	if s.cursor >= s.pageSize {
		s.newPage()
	}
	s.pages[s.page][s.cursor] = b
	s.cursor++
	return nil
}

// Write appends p, satisfying io.Writer.
func (s *Sink) Write(p []byte) (int, error) {
	for _, b := range p {
		_ = s.WriteByte(b)
	}
	return len(p), nil
}

// Bytes returns everything written so far as one contiguous slice.
func (s *Sink) Bytes() []byte {
	out := make([]byte, 0, s.page*s.pageSize+s.cursor)
	for i, page := range s.pages {
		if i < len(s.pages)-1 {
			out = append(out, page...)
		} else {
			out = append(out, page[:s.cursor]...)
		}
	}
	return out
}
