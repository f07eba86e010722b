package cpu

import (
	"github.com/djeday123/subperm/backend"
)

// storage is a CPU memory buffer backed by a Go byte slice.
type storage struct {
	data []byte
}

func newStorage(byteLen int) *storage {
	return &storage{data: make([]byte, byteLen)}
}

func (s *storage) Device() backend.Device { return backend.CPU0 }
func (s *storage) Bytes() []byte          { return s.data }
func (s *storage) ByteLen() int           { return len(s.data) }

func (s *storage) Free() {
	s.data = nil
}
