package boundary

import (
	"sync"
)

// ResponseBuffer is the memory block handed to the caller by
// ExecuteRequest. The boundary owns it until FreeResponseBuffer releases it;
// after release the contents are no longer valid.
type ResponseBuffer struct {
	data   []byte
	handle uint64
}

// Bytes returns the encoded response envelope. Valid until the buffer is
// released.
func (b *ResponseBuffer) Bytes() []byte { return b.data }

// Len returns the length of the response in bytes.
func (b *ResponseBuffer) Len() int { return len(b.data) }

// Cap returns the capacity of the underlying block.
func (b *ResponseBuffer) Cap() int { return cap(b.data) }

// bufferTable tracks live response buffers by handle so that release is
// observably exactly-once. Handles are never reused within a table's
// lifetime.
type bufferTable struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]*ResponseBuffer
}

func newBufferTable() *bufferTable {
	return &bufferTable{live: make(map[uint64]*ResponseBuffer)}
}

// insert registers buf and returns its handle.
func (t *bufferTable) insert(buf *ResponseBuffer) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.live[t.next] = buf
	return t.next
}

// remove drops the handle and reports whether it identified buf as a live
// buffer of this table.
func (t *bufferTable) remove(handle uint64, buf *ResponseBuffer) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	registered, ok := t.live[handle]
	if !ok || registered != buf {
		return false
	}
	delete(t.live, handle)
	return true
}

// count returns the number of live buffers.
func (t *bufferTable) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}
