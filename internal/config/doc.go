// Package config resolves typed preferences.
//
// Every setting registered in the registry is resolved in three phases,
// run at Load and again at every Reset:
//
//	┌──────────────────────────────┐
//	│  3. Persisted store          │  ← user overrides, highest priority
//	├──────────────────────────────┤
//	│  2. Defaults sources         │  ← defaults files, profiles, env
//	├──────────────────────────────┤
//	│  1. Hardcoded defaults       │  ← compiled into the registry
//	└──────────────────────────────┘
//
// Defaults sources are themselves merged by priority (see the layer
// package) before being applied. A source that fails to load is logged
// and skipped. Reads never touch the store.
//
// # Sub-packages
//
//   - value: colors, fonts, syntax styles and token ids
//   - setting: primitive, derived and composite cells
//   - registry: setting definitions grouped by kind, with legacy ids
//   - store: persisted backends (memory, JSON file, SQLite, Redis, NATS KV)
//   - loader: defaults sources (properties, TOML, YAML, Lua, environment)
//   - layer: defaults layer management and merging
//   - schema: JSON Schema of persisted keys and defaults validation
//   - watcher: live reload of defaults files
//   - notify: change notification
//
// # Basic Usage
//
//	st, err := store.OpenJSONFile(path)
//	if err != nil {
//	    return err
//	}
//	cfg := config.New(st,
//	    config.WithDefaultsFile("defaults.properties"),
//	    config.WithWatcher(true),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	tab := cfg.Editor().TabSize
//	config.Set(cfg, registry.EditorFont, value.NewFont("Courier", "Bold", "14"))
//
// Stores written by older releases can be upgraded before they are read
// by passing WithMigrator(DefaultMigrator()).
//
// # Change Notification
//
// A successful Set, SetToDefault or SetNonPersistent fires exactly one
// change. Reset and reloads fire one reload change. Observers run after
// the Config's lock is released and should re-read what they need:
//
//	sub := cfg.Subscribe(func(change notify.Change) {
//	    redraw(cfg.SyntaxStyles())
//	})
//	defer sub.Unsubscribe()
//
// # Failures
//
// Store write failures are logged at debug level and counted; the
// in-memory value stays authoritative. Values that do not parse are
// ignored. The only errors surfaced to callers are stale legacy ids
// (ErrInvalidLegacyID), unknown keys, rejected text and unset session
// values.
package config
