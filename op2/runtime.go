package op2

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/notargets/gocca"
	"go.uber.org/zap"
)

const DefaultDeviceProperties = `{"mode": "Serial"}`

type Config struct {
	// DeviceProperties is the OCCA device description, Serial when empty
	DeviceProperties string
	Logger           *zap.Logger
}

// Runtime owns an OCCA device and the device copies of uploaded dats and
// maps, keyed by name
type Runtime struct {
	device *gocca.OCCADevice
	log    *zap.Logger

	mu     sync.Mutex
	memory map[string]*gocca.OCCAMemory
	bytes  map[string]int64
}

func NewRuntime(cfg Config) (*Runtime, error) {
	props := cfg.DeviceProperties
	if props == "" {
		props = DefaultDeviceProperties
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	device, err := gocca.NewDevice(props)
	if err != nil {
		return nil, fmt.Errorf("failed to create device %s: %w", props, err)
	}
	log.Debug("op2 runtime started", zap.String("mode", device.Mode()))
	return &Runtime{
		device: device,
		log:    log,
		memory: make(map[string]*gocca.OCCAMemory),
		bytes:  make(map[string]int64),
	}, nil
}

// Mode returns the OCCA device mode, empty after Free
func (rt *Runtime) Mode() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.device == nil {
		return ""
	}
	return rt.device.Mode()
}

// Memory returns the device copy stored under key, nil if there is none
func (rt *Runtime) Memory(key string) *gocca.OCCAMemory {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.memory[key]
}

// Allocated returns the number of device bytes held by the runtime
func (rt *Runtime) Allocated() (total int64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, n := range rt.bytes {
		total += n
	}
	return
}

// store replaces the allocation under key with a fresh one initialised from
// ptr
func (rt *Runtime) store(key string, nbytes int64, ptr unsafe.Pointer) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.device == nil {
		return fmt.Errorf("%w: cannot store %s", ErrFreed, key)
	}
	if old, ok := rt.memory[key]; ok {
		old.Free()
	}
	rt.memory[key] = rt.device.Malloc(nbytes, ptr, nil)
	rt.bytes[key] = nbytes
	rt.log.Debug("device allocation", zap.String("key", key), zap.Int64("bytes", nbytes))
	return nil
}

// Free releases every device allocation and the device itself
func (rt *Runtime) Free() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for key, mem := range rt.memory {
		if mem != nil {
			mem.Free()
		}
		delete(rt.memory, key)
		delete(rt.bytes, key)
	}
	if rt.device != nil {
		rt.device.Free()
		rt.device = nil
	}
}

func datKey(name string) string { return "dat:" + name }
func mapKey(name string) string { return "map:" + name }

// Upload copies the dat to the device in its DataType precision
func (d *Dat) Upload(rt *Runtime) error {
	if len(d.Data) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidDat, d.Name)
	}
	switch d.DataType {
	case Float64:
		return rt.store(datKey(d.Name), d.Bytes(), unsafe.Pointer(&d.Data[0]))
	case Float32:
		buf := make([]float32, len(d.Data))
		for i, v := range d.Data {
			buf[i] = float32(v)
		}
		return rt.store(datKey(d.Name), d.Bytes(), unsafe.Pointer(&buf[0]))
	default:
		return fmt.Errorf("%w: %s has non real type %s", ErrInvalidDat, d.Name, d.DataType)
	}
}

// Download copies the device values of the dat back into d.Data
func (d *Dat) Download(rt *Runtime) error {
	mem := rt.Memory(datKey(d.Name))
	if mem == nil {
		return fmt.Errorf("%w: dat %s", ErrNotUploaded, d.Name)
	}
	switch d.DataType {
	case Float64:
		mem.CopyTo(unsafe.Pointer(&d.Data[0]), d.Bytes())
	case Float32:
		buf := make([]float32, len(d.Data))
		mem.CopyTo(unsafe.Pointer(&buf[0]), d.Bytes())
		for i, v := range buf {
			d.Data[i] = float64(v)
		}
	}
	return nil
}

// Upload copies the map values to the device as int32
func (m *Map) Upload(rt *Runtime) error {
	if len(m.Values) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidMap, m.Name)
	}
	return rt.store(mapKey(m.Name), int64(len(m.Values))*Int32.Size(), unsafe.Pointer(&m.Values[0]))
}

// Download reads the device copy of the map values
func (m *Map) Download(rt *Runtime) ([]int32, error) {
	mem := rt.Memory(mapKey(m.Name))
	if mem == nil {
		return nil, fmt.Errorf("%w: map %s", ErrNotUploaded, m.Name)
	}
	values := make([]int32, len(m.Values))
	mem.CopyTo(unsafe.Pointer(&values[0]), int64(len(values))*Int32.Size())
	return values, nil
}
