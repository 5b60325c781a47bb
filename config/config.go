// Package config loads and saves hub configuration from JSON files.
//
// A config file selects the storage backend and the hub's runtime knobs:
//
//	{
//	  "backend": "fixed",
//	  "max_signals": 16,
//	  "max_subscriptions": 64,
//	  "max_name_length": 32,
//	  "max_slots_per_signal": 8,
//	  "deferred_capacity": 128,
//	  "capture_capacity": 16,
//	  "thread_safe": true,
//	  "profiling": false,
//	  "namespace": "app"
//	}
//
// Missing fields keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/sigslot"
	"github.com/dshills/sigslot/storage"
)

// Backend selector values.
const (
	BackendDynamic = "dynamic"
	BackendFixed   = "fixed"
)

// ErrInvalidConfig is returned for malformed JSON or unknown field values.
var ErrInvalidConfig = errors.New("invalid config")

// Config mirrors the hub's construction-time knobs. A zero MaxNameLength
// means "backend default": unbounded for dynamic storage, the fixed
// backend's buffer size otherwise.
type Config struct {
	Backend           string
	MaxSignals        int
	MaxSubscriptions  int
	MaxNameLength     int
	MaxSlotsPerSignal int
	DeferredCapacity  int
	CaptureCapacity   int
	ThreadSafe        bool
	Profiling         bool
	Namespace         string
}

// Default returns the configuration matching sigslot.NewHub with no
// options.
func Default() Config {
	return Config{
		Backend:           BackendDynamic,
		MaxSignals:        storage.DefaultMaxSignals,
		MaxSubscriptions:  storage.DefaultMaxSubscriptions,
		MaxSlotsPerSignal: sigslot.DefaultMaxSlotsPerSignal,
		DeferredCapacity:  sigslot.DefaultDeferredCapacity,
		ThreadSafe:        true,
	}
}

// Parse reads a JSON document into a Config, starting from Default.
func Parse(data []byte) (Config, error) {
	if !gjson.ValidBytes(data) {
		return Config{}, fmt.Errorf("%w: malformed JSON", ErrInvalidConfig)
	}

	c := Default()
	if v := gjson.GetBytes(data, "backend"); v.Exists() {
		c.Backend = v.String()
	}
	if c.Backend != BackendDynamic && c.Backend != BackendFixed {
		return Config{}, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if v := gjson.GetBytes(data, "max_signals"); v.Exists() {
		c.MaxSignals = int(v.Int())
	}
	if v := gjson.GetBytes(data, "max_subscriptions"); v.Exists() {
		c.MaxSubscriptions = int(v.Int())
	}
	if v := gjson.GetBytes(data, "max_name_length"); v.Exists() {
		c.MaxNameLength = int(v.Int())
	}
	if v := gjson.GetBytes(data, "max_slots_per_signal"); v.Exists() {
		c.MaxSlotsPerSignal = int(v.Int())
	}
	if v := gjson.GetBytes(data, "deferred_capacity"); v.Exists() {
		c.DeferredCapacity = int(v.Int())
	}
	if v := gjson.GetBytes(data, "capture_capacity"); v.Exists() {
		c.CaptureCapacity = int(v.Int())
	}
	if v := gjson.GetBytes(data, "thread_safe"); v.Exists() {
		c.ThreadSafe = v.Bool()
	}
	if v := gjson.GetBytes(data, "profiling"); v.Exists() {
		c.Profiling = v.Bool()
	}
	if v := gjson.GetBytes(data, "namespace"); v.Exists() {
		c.Namespace = v.String()
	}
	return c, nil
}

// Load reads and parses a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Marshal serializes the config as a JSON document.
func (c Config) Marshal() ([]byte, error) {
	out := []byte("{}")
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	set("backend", c.Backend)
	set("max_signals", c.MaxSignals)
	set("max_subscriptions", c.MaxSubscriptions)
	set("max_name_length", c.MaxNameLength)
	set("max_slots_per_signal", c.MaxSlotsPerSignal)
	set("deferred_capacity", c.DeferredCapacity)
	set("capture_capacity", c.CaptureCapacity)
	set("thread_safe", c.ThreadSafe)
	set("profiling", c.Profiling)
	set("namespace", c.Namespace)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}

// Save writes the config to a JSON file.
func (c Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Options translates the config into hub construction options.
func (c Config) Options() ([]sigslot.Option, error) {
	var backend storage.Backend
	switch c.Backend {
	case BackendDynamic, "":
		backend = storage.NewDynamic()
	case BackendFixed:
		backend = storage.NewFixed(
			storage.WithSignalCapacity(c.MaxSignals),
			storage.WithSubscriptionCapacity(c.MaxSubscriptions),
			storage.WithNameLength(c.MaxNameLength),
		)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	opts := []sigslot.Option{
		sigslot.WithBackend(backend),
		sigslot.WithMaxSlotsPerSignal(c.MaxSlotsPerSignal),
		sigslot.WithDeferredCapacity(c.DeferredCapacity),
		sigslot.WithThreadSafety(c.ThreadSafe),
		sigslot.WithProfiling(c.Profiling),
	}
	if c.MaxNameLength > 0 && c.Backend != BackendFixed {
		opts = append(opts, sigslot.WithMaxNameLength(c.MaxNameLength))
	}
	if c.CaptureCapacity > 0 {
		opts = append(opts, sigslot.WithCaptureQueue(c.CaptureCapacity))
	}
	if c.Namespace != "" {
		opts = append(opts, sigslot.WithNamespace(c.Namespace))
	}
	return opts, nil
}
