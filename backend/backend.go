package backend

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/djeday123/subperm/core"
)

// DeviceType represents the compute device.
type DeviceType uint8

const (
	CPU DeviceType = iota
)

func (d DeviceType) String() string {
	names := [...]string{"cpu"}
	if int(d) < len(names) {
		return names[d]
	}
	return fmt.Sprintf("device(%d)", d)
}

// Device identifies a specific device (type + index).
type Device struct {
	Type  DeviceType
	Index int
}

var CPU0 = Device{Type: CPU, Index: 0}

func (d Device) String() string {
	if d.Type == CPU {
		return "cpu"
	}
	return fmt.Sprintf("%s:%d", d.Type, d.Index)
}

// Storage represents a raw memory buffer on a device.
type Storage interface {
	// Device returns which device this storage lives on.
	Device() Device

	// Bytes returns the underlying byte slice.
	Bytes() []byte

	// ByteLen returns the total size in bytes.
	ByteLen() int

	// Free releases the memory.
	Free()
}

// Backend defines the memory and layout primitives a device must provide
// for tensors to be created, reshaped and transposed on it.
type Backend interface {
	Name() string
	DeviceType() DeviceType

	// Memory management
	Alloc(byteLen int) (Storage, error)
	Free(s Storage)
	Copy(dst, src Storage, byteLen int) error

	// Gather copies the strided view of src described by shape, byte
	// strides and byte offset into dst, densely in row-major order.
	Gather(dst, src Storage, shape core.Shape, strides core.Strides, offset int, dtype core.DType) error

	// Fill ops
	Fill(dst Storage, shape core.Shape, value float64, dtype core.DType) error
	Arange(dst Storage, start, step float64, n int, dtype core.DType) error
}

var (
	mu       sync.RWMutex
	registry = map[DeviceType]Backend{}
)

// Register adds a backend to the global registry.
func Register(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	registry[b.DeviceType()] = b
}

// Get returns the backend for a device type.
func Get(dt DeviceType) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := registry[dt]
	if !ok {
		return nil, errors.Errorf("backend %s not registered", dt)
	}
	return b, nil
}

// GetForDevice returns the backend for a specific device.
func GetForDevice(d Device) (Backend, error) {
	return Get(d.Type)
}
