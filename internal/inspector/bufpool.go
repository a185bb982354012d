package inspector

import "sync"

// BytePool — пул переиспользуемых []byte буферов для read-циклов прокси.
type BytePool struct {
	pool sync.Pool
	size int
}

// NewBytePool создаёт пул буферов фиксированного размера.
func NewBytePool(size int) *BytePool {
	p := &BytePool{size: size}
	p.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return p
}

// Get возвращает буфер длиной size.
func (p *BytePool) Get() *[]byte {
	return p.pool.Get().(*[]byte)
}

// Put возвращает буфер в пул. Буферы чужого размера отбрасываются.
func (p *BytePool) Put(b *[]byte) {
	if b == nil || len(*b) != p.size {
		return
	}
	p.pool.Put(b)
}
