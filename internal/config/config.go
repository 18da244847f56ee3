package config

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/prefs/internal/config/layer"
	"github.com/dshills/prefs/internal/config/loader"
	"github.com/dshills/prefs/internal/config/notify"
	"github.com/dshills/prefs/internal/config/registry"
	"github.com/dshills/prefs/internal/config/schema"
	"github.com/dshills/prefs/internal/config/setting"
	"github.com/dshills/prefs/internal/config/store"
	"github.com/dshills/prefs/internal/config/watcher"
)

// Change sources reported to observers.
const (
	SourceUser    = "user"
	SourceSession = "session"
	SourceReset   = "reset"
)

// Config resolves every registered setting against the hardcoded
// defaults, the defaults sources and the persisted store.
//
// A single mutex guards the whole resolver: a mutation updates the cell,
// persists it and only then releases the lock. Observers are notified
// after the lock is released and may call back into the Config.
type Config struct {
	mu sync.Mutex

	reg    *registry.Registry
	schema *schema.Schema
	store  store.Store

	// Cells in registry order.
	order []*registry.Definition
	cells map[*registry.Definition]setting.Cell

	// Defaults sources merged by priority.
	layers  *layer.Manager
	sources []defaultsSource

	// File watcher for live reload of defaults files
	watcher       *watcher.Watcher
	enableWatcher bool

	notifier    *notify.Notifier
	ownNotifier bool

	migrator *Migrator
	metrics  *Metrics
	logger   *slog.Logger

	closed bool
}

// defaultsSource is a named defaults loader and its layer placement.
type defaultsSource struct {
	name     string
	loader   loader.Loader
	source   layer.Source
	priority int
}

// Option configures a Config instance.
type Option func(*Config)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry replaces the registry of settings. The default is
// registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(c *Config) {
		if r != nil {
			c.reg = r
		}
	}
}

// WithNotifier sets the change notifier. The Config does not close a
// notifier it did not create.
func WithNotifier(n *notify.Notifier) Option {
	return func(c *Config) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithMetrics sets the Prometheus collectors to update.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.metrics = m
	}
}

// WithMigrator upgrades persisted entries from older schema versions
// before they are read.
func WithMigrator(m *Migrator) Option {
	return func(c *Config) {
		c.migrator = m
	}
}

// WithWatcher enables reloading when a defaults file changes.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithDefaultsSource adds a named defaults source at the given priority.
// Higher priorities win when sources define the same key.
func WithDefaultsSource(name string, l loader.Loader, priority int) Option {
	return func(c *Config) {
		c.addSource(defaultsSource{name: name, loader: l, source: sourceKind(l), priority: priority})
	}
}

// WithDefaultsFile adds a defaults file, picking the loader by extension.
func WithDefaultsFile(path string) Option {
	return WithDefaultsSource(path, loader.ForPath(path), layer.PriorityFile)
}

// New creates a Config over the persisted store. Every setting holds its
// hardcoded default until Load is called.
func New(s store.Store, opts ...Option) *Config {
	c := &Config{
		store:  s,
		layers: layer.NewManager(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.reg == nil {
		c.reg = registry.Default()
	}
	c.schema = schema.FromRegistry(c.reg)
	if c.notifier == nil {
		c.notifier = notify.New()
		c.ownNotifier = true
	}
	if c.enableWatcher {
		c.watcher = watcher.New(watcher.WithErrorHandler(func(err error) {
			c.logger.Warn("defaults watcher error", "error", err)
		}))
		c.watcher.OnChange(c.handleFileChange)
	}

	c.applyHardcodedDefaults()
	return c
}

// Load runs the resolution phases and starts the watcher, if enabled.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.migrate()
	c.resolve()
	w := c.watcher
	var paths []string
	for _, src := range c.sources {
		if fl, ok := src.loader.(loader.FileLoader); ok {
			paths = append(paths, fl.Path())
		}
	}
	c.mu.Unlock()

	// Start the watcher outside the lock: its handler resets the Config.
	if w != nil {
		for _, p := range paths {
			if err := w.Watch(p); err != nil {
				c.logger.Warn("cannot watch defaults file", "path", p, "error", err)
			}
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("starting defaults watcher: %w", err)
		}
	}
	return nil
}

// migrate runs pending store migrations. A failure is logged and the
// store is read as it is.
func (c *Config) migrate() {
	if c.migrator == nil || !c.migrator.NeedsMigration(c.store) {
		return
	}
	results, err := c.migrator.Migrate(c.store)
	for _, r := range results {
		if r.Success {
			c.logger.Info("migrated preferences", "from", r.FromVersion, "to", r.ToVersion, "description", r.Description)
		}
	}
	if err != nil {
		c.logger.Warn("preferences migration failed", "error", err)
		c.metrics.recordPersistFailure("migrate")
	}
}

// Reset re-runs every resolution phase from scratch and notifies
// observers once.
func (c *Config) Reset() {
	c.reset(SourceReset)
}

func (c *Config) reset(source string) {
	c.mu.Lock()
	c.resolve()
	c.mu.Unlock()

	c.logger.Info("settings reset", "source", source)
	c.emit(notify.Change{Type: notify.ChangeReload, Source: source})
}

// InstallProfile adds a defaults source above the defaults files and
// resets, so the profile takes over default computation. Installing a
// profile under an existing name replaces it.
func (c *Config) InstallProfile(name string, l loader.Loader) {
	c.mu.Lock()
	c.addSource(defaultsSource{name: name, loader: l, source: layer.SourceProfile, priority: layer.PriorityProfile})
	c.mu.Unlock()

	c.reset("profile:" + name)
}

// RemoveProfile removes an installed profile and resets. It reports
// whether the profile existed.
func (c *Config) RemoveProfile(name string) bool {
	c.mu.Lock()
	found := c.removeSource(name)
	c.mu.Unlock()

	if found {
		c.reset("profile:" + name)
	}
	return found
}

// Close stops the watcher and the notifier. The store is left open.
func (c *Config) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	if c.watcher != nil {
		c.watcher.Stop()
	}
	if c.ownNotifier {
		c.notifier.Close()
	}
}

// Registry returns the registry the Config resolves.
func (c *Config) Registry() *registry.Registry {
	return c.reg
}

// Schema returns the schema of every persisted key.
func (c *Config) Schema() *schema.Schema {
	return c.schema
}

// Subscribe registers an observer for every change.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribeKey registers an observer for changes to one setting. Reloads
// are delivered too.
func (c *Config) SubscribeKey(key string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribeKey(key, observer)
}

// Origin names the defaults layer that supplied the default of the
// setting, or "builtin" when the hardcoded default applies.
func (c *Config) Origin(key string) (string, error) {
	d, err := c.lookup(key)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.cell(d).Keys() {
		if name := c.layers.WhichLayer(k); name != "" {
			return name, nil
		}
	}
	return layer.StandardLayerName(layer.SourceBuiltin), nil
}

// Overridden returns the keys of settings whose value differs from the
// default, in registry order.
func (c *Config) Overridden() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var keys []string
	for _, d := range c.order {
		if !c.cells[d].IsDefault() {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// Get returns the current value of a setting.
func Get[T any](c *Config, d registry.Def[T]) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return typed(c, d).Value()
}

// GetDefault returns the default value of a setting.
func GetDefault[T any](c *Config, d registry.Def[T]) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return typed(c, d).Default()
}

// IsDefault reports whether a setting holds its default value.
func IsDefault[T any](c *Config, d registry.Def[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cell(d.Definition).IsDefault()
}

// Set changes a setting and persists it. Setting the current value again
// does nothing. Otherwise observers are notified exactly once, whether or
// not the store accepted the write.
func Set[T comparable](c *Config, d registry.Def[T], v T) {
	v = normalize(v)
	c.mu.Lock()
	cell := typed(c, d)
	if cell.Value() == v {
		c.mu.Unlock()
		return
	}
	cell.SetValue(v)
	c.persist(d.Definition, cell, false)
	c.updateOverridden()
	c.mu.Unlock()

	c.emit(notify.Change{Key: d.Key, Type: notify.ChangeSet, Source: SourceUser})
}

// SetToDefault restores the default and removes the persisted override.
func SetToDefault[T any](c *Config, d registry.Def[T]) {
	c.setToDefault(d.Definition)
}

// SetNonPersistent changes a setting for this session only. The store is
// never touched. Unset sentinels such as value.NoColor are rejected with
// ErrUnsetValue.
func SetNonPersistent[T comparable](c *Config, d registry.Def[T], v T) error {
	if u, ok := any(v).(interface{ Unset() bool }); ok && u.Unset() {
		return fmt.Errorf("%s: %w", d.Key, ErrUnsetValue)
	}
	v = normalize(v)

	c.mu.Lock()
	cell := typed(c, d)
	if cell.Value() == v {
		c.mu.Unlock()
		return nil
	}
	cell.SetValue(v)
	c.updateOverridden()
	c.mu.Unlock()

	c.emit(notify.Change{Key: d.Key, Type: notify.ChangeSession, Source: SourceSession})
	return nil
}

// normalize maps v onto the form its cell stores, so that equality checks
// see what a read would return.
func normalize[T any](v T) T {
	if n, ok := any(v).(interface{ Normalized() T }); ok {
		return n.Normalized()
	}
	return v
}

// SetToDefaultKey restores the default of the setting with the given key.
func (c *Config) SetToDefaultKey(key string) error {
	d, err := c.lookup(key)
	if err != nil {
		return err
	}
	c.setToDefault(d)
	return nil
}

func (c *Config) setToDefault(d *registry.Definition) {
	c.mu.Lock()
	cell := c.cell(d)
	if cell.IsDefault() {
		c.mu.Unlock()
		return
	}
	cell.SetToDefault()
	c.persist(d, cell, true)
	c.updateOverridden()
	c.mu.Unlock()

	c.emit(notify.Change{Key: d.Key, Type: notify.ChangeReset, Source: SourceUser})
}

// applyHardcodedDefaults rebuilds every cell from its definition.
// The caller must hold c.mu or own c exclusively.
func (c *Config) applyHardcodedDefaults() {
	c.order = c.reg.All()
	c.cells = make(map[*registry.Definition]setting.Cell, len(c.order))
	for _, d := range c.order {
		cell := d.NewCell()
		cell.SetToDefault()
		c.cells[d] = cell
	}
}

// resolve runs the three phases. The caller must hold c.mu.
func (c *Config) resolve() {
	c.applyHardcodedDefaults()

	props := c.loadDefaultsLayers()
	if len(props) > 0 {
		for _, d := range c.order {
			cell := c.cells[d]
			cell.LoadDefaults(props)
			cell.SetToDefault()
		}
	}

	for _, d := range c.order {
		c.cells[d].Load(c.store)
	}
	c.updateOverridden()
}

// loadDefaultsLayers reloads every defaults source into its layer and
// returns the merged map. A failing source is logged and dropped.
func (c *Config) loadDefaultsLayers() map[string]string {
	for _, src := range c.sources {
		data, err := src.loader.Load()
		if err != nil {
			c.logger.Warn("defaults source failed, using hardcoded defaults",
				"source", src.name, "error", err)
			c.metrics.recordSourceFailure(src.name)
			c.layers.RemoveLayer(src.name)
			continue
		}

		if err := schema.NewValidator(c.schema).Validate(data); err != nil {
			c.logger.Warn("defaults source has invalid entries",
				"source", src.name, "error", err)
		}

		l := layer.NewLayerWithData(src.name, src.source, src.priority, data)
		if fl, ok := src.loader.(loader.FileLoader); ok {
			l.Path = fl.Path()
		}
		c.layers.AddLayer(l)
	}
	return c.layers.Merge()
}

// persist writes or removes the cell's entries and flushes. Failures are
// logged and counted; the in-memory value stays authoritative.
func (c *Config) persist(d *registry.Definition, cell setting.Cell, remove bool) {
	op := "write"
	var err error
	if remove {
		op = "remove"
		err = cell.Remove(c.store)
	} else {
		err = cell.Write(c.store)
	}
	if err == nil {
		if !remove {
			c.metrics.recordWrite(d.Kind.String())
		}
		op = "flush"
		err = c.store.Flush()
	}
	if err != nil {
		c.metrics.recordPersistFailure(op)
		c.logger.Debug("setting not persisted", "key", d.Key, "op", op, "error", err)
	}
}

// emit delivers a change. Must be called without holding c.mu.
func (c *Config) emit(change notify.Change) {
	c.metrics.recordNotification(change.Type.String())
	c.notifier.Notify(change)
}

// updateOverridden refreshes the overridden gauge. The caller must hold c.mu.
func (c *Config) updateOverridden() {
	if c.metrics == nil {
		return
	}
	n := 0
	for _, cell := range c.cells {
		if !cell.IsDefault() {
			n++
		}
	}
	c.metrics.setOverridden(n)
}

// cell returns the cell of a definition. Definitions outside the
// registry are a programming error.
func (c *Config) cell(d *registry.Definition) setting.Cell {
	cell, ok := c.cells[d]
	if !ok {
		panic(fmt.Sprintf("config: %v: %q", ErrUnknownSetting, d.Key))
	}
	return cell
}

func typed[T any](c *Config, d registry.Def[T]) setting.Typed[T] {
	t, ok := c.cell(d.Definition).(setting.Typed[T])
	if !ok {
		panic(fmt.Sprintf("config: %v: %q", ErrTypeMismatch, d.Key))
	}
	return t
}

// lookup resolves a key to its definition.
func (c *Config) lookup(key string) (*registry.Definition, error) {
	d := c.reg.ByKey(key)
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return d, nil
}

// lookupKind resolves a key and checks its kind.
func (c *Config) lookupKind(key string, kind registry.Kind) (*registry.Definition, error) {
	d, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	if d.Kind != kind {
		return nil, &TypeError{Key: key, Expected: kind, Actual: d.Kind}
	}
	return d, nil
}

// addSource adds or replaces a defaults source by name.
func (c *Config) addSource(src defaultsSource) {
	for i := range c.sources {
		if c.sources[i].name == src.name {
			c.sources[i] = src
			return
		}
	}
	c.sources = append(c.sources, src)
}

// removeSource removes a defaults source and its layer.
func (c *Config) removeSource(name string) bool {
	for i := range c.sources {
		if c.sources[i].name == name {
			c.sources = append(c.sources[:i], c.sources[i+1:]...)
			c.layers.RemoveLayer(name)
			return true
		}
	}
	return false
}

// handleFileChange resets the Config when a watched defaults file changes.
func (c *Config) handleFileChange(event watcher.Event) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	c.logger.Debug("defaults file changed", "path", event.Path, "op", event.Op.String())
	c.reset(event.Path)
}

// sourceKind classifies a loader for its layer.
func sourceKind(l loader.Loader) layer.Source {
	switch l.(type) {
	case *loader.EnvLoader:
		return layer.SourceEnv
	case loader.FileLoader:
		return layer.SourceFile
	default:
		return layer.SourceArgs
	}
}
