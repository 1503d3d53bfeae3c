package monitor

// DefaultHistorySize is the number of mean-CPU samples kept for the trend graph.
const DefaultHistorySize = 60

// History is a fixed-capacity FIFO of samples backed by a ring buffer.
// Once full, every Push evicts the oldest value. History is owned by the
// dashboard loop and is not safe for concurrent use.
type History struct {
	data  []float64
	head  int
	count int
}

// NewHistory creates a history holding at most size samples.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{data: make([]float64, size)}
}

// Push appends v, evicting the oldest sample when the history is full.
func (h *History) Push(v float64) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len returns the number of stored samples.
func (h *History) Len() int { return h.count }

// Cap returns the capacity.
func (h *History) Cap() int { return len(h.data) }

// Last returns up to n of the most recent samples, oldest first.
func (h *History) Last(n int) []float64 {
	if n <= 0 || h.count == 0 {
		return nil
	}
	if n > h.count {
		n = h.count
	}

	size := len(h.data)
	// head is the next write position, so the newest value sits at head-1.
	start := (h.head - n + size) % size

	out := make([]float64, n)
	for i := range out {
		out[i] = h.data[(start+i)%size]
	}
	return out
}

// Values returns every stored sample, oldest first.
func (h *History) Values() []float64 {
	return h.Last(h.count)
}

// Latest returns the newest sample.
func (h *History) Latest() (float64, bool) {
	if h.count == 0 {
		return 0, false
	}
	return h.data[(h.head-1+len(h.data))%len(h.data)], true
}
