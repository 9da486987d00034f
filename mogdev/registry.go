package mogdev

import (
	"errors"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// Registry tracks named devices for multi-instrument bench setups. The
// registry itself is safe for concurrent use; the Devices it holds are not —
// each Device still serves one request at a time and callers must serialize
// access per Device.
type Registry struct {
	devices *xsync.MapOf[string, *Device]
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: xsync.NewMapOf[string, *Device](),
	}
}

// Open connects a device at addr and registers it under name. Opening a name
// that is already registered is an error; Close it first.
func (r *Registry) Open(name, addr string, opts ...Option) (*Device, error) {
	if _, ok := r.devices.Load(name); ok {
		return nil, fmt.Errorf("mogdev: device %q already registered", name)
	}

	dev, err := Connect(addr, opts...)
	if err != nil {
		return nil, err
	}

	if _, loaded := r.devices.LoadOrStore(name, dev); loaded {
		// Lost a concurrent registration race; this connection is surplus.
		_ = dev.Close()

		return nil, fmt.Errorf("mogdev: device %q already registered", name)
	}

	return dev, nil
}

// Get returns the device registered under name.
func (r *Registry) Get(name string) (*Device, bool) {
	return r.devices.Load(name)
}

// Close closes and removes the device registered under name. Closing an
// unknown name is a no-op.
func (r *Registry) Close(name string) error {
	dev, ok := r.devices.LoadAndDelete(name)
	if !ok {
		return nil
	}

	return dev.Close()
}

// CloseAll closes and removes every registered device, joining any close
// errors.
func (r *Registry) CloseAll() error {
	var errs []error

	r.devices.Range(func(name string, dev *Device) bool {
		if err := dev.Close(); err != nil {
			errs = append(errs, fmt.Errorf("mogdev: close %q: %w", name, err))
		}
		r.devices.Delete(name)

		return true
	})

	return errors.Join(errs...)
}

// Range calls fn for each registered device until fn returns false.
func (r *Registry) Range(fn func(name string, dev *Device) bool) {
	r.devices.Range(fn)
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	return r.devices.Size()
}
