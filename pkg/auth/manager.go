package auth

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrymomot/authbridge/pkg/logger"
)

// Manager registers capability drivers, routes calls to them, and runs the
// identity protocols that combine the user, storage and persistence
// capabilities.
type Manager struct {
	mu         sync.RWMutex
	cfg        Config
	log        *slog.Logger
	drivers    map[string]Driver
	order      []string
	methods    map[string][]route
	lastErrors map[string]error
}

// route is one routing-table entry: a driver under its registered name.
type route struct {
	name   string
	driver Driver
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithLogger sets the logger used for event delivery and shadow login
// diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithUseAllDrivers toggles the fan-out mode without replacing the whole
// configuration.
func WithUseAllDrivers(useAll bool) Option {
	return func(m *Manager) {
		m.cfg.UseAllDrivers = useAll
	}
}

// New creates a Manager with no drivers registered.
func New(opts ...Option) *Manager {
	m := &Manager{
		cfg:     DefaultConfig(),
		log:     logger.Discard(),
		drivers: make(map[string]Driver),
		methods: make(map[string][]route),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddDriver registers a driver under the given name. It fails when the name
// is taken, when the driver implements no capability interface, or when a
// capability is already served by a registered driver and either side does
// not tolerate concurrency. A failed registration leaves the routing table
// untouched.
func (m *Manager) AddDriver(name string, d Driver) error {
	if d == nil {
		return ErrNilDriver
	}
	if name == "" {
		return fmt.Errorf("%w: driver name is empty", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.drivers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDriverExists, name)
	}

	var matched []capability
	for _, c := range capabilities {
		if c.match(d) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return ErrNoCapability
	}

	// Validate every capability before touching the table, so a conflict on
	// the second capability can not leave entries for the first behind.
	for _, c := range matched {
		for otherName, other := range m.drivers {
			if !c.match(other) {
				continue
			}
			if !d.HasConcurrency() || !other.HasConcurrency() {
				return fmt.Errorf("%w: capability %q is held by driver %q", ErrDriverConflict, c.name, otherName)
			}
		}
	}

	for _, c := range matched {
		for _, method := range c.methods {
			m.methods[method] = append(m.methods[method], route{name: name, driver: d})
		}
	}

	m.drivers[name] = d
	m.order = append(m.order, name)

	if aware, ok := d.(ResolverAware); ok {
		aware.BindResolver(m)
	}
	return nil
}

// RemoveDriver unregisters a driver, pruning it from every routing-table
// entry and dropping entries that end up empty.
func (m *Manager) RemoveDriver(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.drivers[name]; !exists {
		return fmt.Errorf("%w: %s", ErrDriverNotFound, name)
	}

	for method, routes := range m.methods {
		routes = slices.DeleteFunc(routes, func(r route) bool { return r.name == name })
		if len(routes) == 0 {
			delete(m.methods, method)
		} else {
			m.methods[method] = routes
		}
	}

	delete(m.drivers, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	return nil
}

// GetDriver returns the driver registered under the given name.
func (m *Manager) GetDriver(name string) (Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDriverNotFound, name)
	}
	return d, nil
}

// Drivers returns the registered driver names in registration order.
func (m *Manager) Drivers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Routes returns the driver names serving a routing-table method, in
// dispatch order. It is primarily an introspection aid.
func (m *Manager) Routes(method string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.methods[method]))
	for _, r := range m.methods[method] {
		names = append(names, r.name)
	}
	return names
}

// LastErrors returns the per-driver errors isolated during the most recent
// fan-out call.
func (m *Manager) LastErrors() map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.lastErrors)
}

// StorageDriver returns the registered storage driver, or ErrNoStorage.
func (m *Manager) StorageDriver() (StorageDriver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, name := range m.order {
		if s, ok := m.drivers[name].(StorageDriver); ok {
			return s, nil
		}
	}
	return nil, ErrNoStorage
}

// PersistenceDriver returns the registered persistence driver. Persistence
// is optional; callers get a nil driver and a false flag when none is
// registered.
func (m *Manager) PersistenceDriver() (PersistenceDriver, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, name := range m.order {
		if p, ok := m.drivers[name].(PersistenceDriver); ok {
			return p, true
		}
	}
	return nil, false
}

func (m *Manager) routes(method string) []route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.methods[method])
}

func (m *Manager) setLastErrors(errs map[string]error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErrors = maps.Clone(errs)
}
