package mogdev

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-mogdev/logger"
)

const (
	// DefaultPort is the TCP port MOG devices listen on when none is given.
	DefaultPort = 7802

	// DefaultTimeout is the default read timeout for device responses.
	DefaultTimeout = 1 * time.Second

	// DefaultSettleWindow is the idle window used to infer that a
	// multi-packet text response is complete.
	DefaultSettleWindow = 100 * time.Millisecond

	// DefaultBufferSize is the per-read buffer size for text responses.
	DefaultBufferSize = 256
)

// config holds all configuration for a Device. Options are applied in order
// at Connect time; the zero values are never used directly.
type config struct {
	port         int // explicit port; -1 when unset
	timeout      time.Duration
	settleWindow time.Duration
	bufferSize   int
	checkAlive   bool
	logger       logger.Logger
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		port:         -1,
		timeout:      DefaultTimeout,
		settleWindow: DefaultSettleWindow,
		bufferSize:   DefaultBufferSize,
		checkAlive:   true,
		logger:       logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Option is a functional option for configuring a Device.
type Option interface {
	apply(*config) error
}

type optFunc func(*config) error

func (f optFunc) apply(cfg *config) error { return f(cfg) }

// WithPort sets an explicit port. For network targets it overrides the
// default TCP port; for serial targets it composes a "COM<n>" device path.
func WithPort(port int) Option {
	return optFunc(func(cfg *config) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("mogdev: port %d out of range [0, 65535]", port)
		}
		cfg.port = port

		return nil
	})
}

// WithTimeout sets the read timeout for device responses.
func WithTimeout(d time.Duration) Option {
	return optFunc(func(cfg *config) error {
		if d <= 0 {
			return errors.New("mogdev: timeout must be positive")
		}
		cfg.timeout = d

		return nil
	})
}

// WithSettleWindow sets the idle window used to decide that a multi-packet
// text response is complete. Widen it for slow links.
func WithSettleWindow(d time.Duration) Option {
	return optFunc(func(cfg *config) error {
		if d <= 0 {
			return errors.New("mogdev: settle window must be positive")
		}
		cfg.settleWindow = d

		return nil
	})
}

// WithBufferSize sets the per-read buffer size for text responses.
func WithBufferSize(size int) Option {
	return optFunc(func(cfg *config) error {
		if size < 1 {
			return errors.New("mogdev: buffer size must be >= 1")
		}
		cfg.bufferSize = size

		return nil
	})
}

// WithLivenessCheck enables or disables the "info" query issued at connect
// time to verify the device is responding. Enabled by default.
func WithLivenessCheck(enabled bool) Option {
	return optFunc(func(cfg *config) error {
		cfg.checkAlive = enabled

		return nil
	})
}

// WithLogger sets the logger for the Device.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *config) error {
		if l == nil {
			return errors.New("mogdev: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
