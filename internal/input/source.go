package input

import (
	"io"
)

// Queue is a scripted Source. It returns io.EOF once drained.
type Queue struct {
	units []int
}

// NewQueue returns a Queue that yields units in order.
func NewQueue(units ...int) *Queue {
	return &Queue{units: append([]int(nil), units...)}
}

// QueueString returns a Queue yielding the UTF-8 bytes of s.
func QueueString(s string) *Queue {
	units := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		units[i] = int(s[i])
	}
	return &Queue{units: units}
}

// Push appends units to the end of the queue.
func (q *Queue) Push(units ...int) {
	q.units = append(q.units, units...)
}

// Len returns the number of units not yet read.
func (q *Queue) Len() int {
	return len(q.units)
}

// ReadUnit implements Source.
func (q *Queue) ReadUnit() (int, error) {
	if len(q.units) == 0 {
		return 0, io.EOF
	}
	u := q.units[0]
	q.units = q.units[1:]
	return u, nil
}

// ReaderSource reads one byte per unit from an io.Reader.
type ReaderSource struct {
	r   io.Reader
	buf [1]byte
}

// NewReaderSource wraps r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// ReadUnit implements Source.
func (s *ReaderSource) ReadUnit() (int, error) {
	for {
		n, err := s.r.Read(s.buf[:])
		if n == 1 {
			return int(s.buf[0]), nil
		}
		if err != nil {
			return 0, err
		}
	}
}
