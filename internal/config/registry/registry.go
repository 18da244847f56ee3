package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/prefs/internal/config/value"
)

// Registry maintains all known setting definitions.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[string]*Definition
	groups map[Kind][]*Definition // Definitions grouped by kind, in registration order
	styles map[value.Token]*Definition
}

// New creates an empty settings registry.
func New() *Registry {
	return &Registry{
		byKey:  make(map[string]*Definition),
		groups: make(map[Kind][]*Definition),
		styles: make(map[value.Token]*Definition),
	}
}

// NewWithDefaults creates a registry with the built-in settings.
// It panics if the built-in set is inconsistent.
func NewWithDefaults() *Registry {
	r := New()
	r.RegisterDefaults()
	if err := r.CheckSyntaxStyles(); err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = sync.OnceValue(NewWithDefaults)

// Default returns the shared built-in registry.
func Default() *Registry {
	return defaultRegistry()
}

// Register adds a definition to the registry.
// Returns an error if a definition with the same key already exists, or if
// its legacy id is already taken within its kind.
func (r *Registry) Register(d *Definition) error {
	if d == nil || d.newCell == nil {
		return errors.New("definition was not built by a typed constructor")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[d.Key]; exists {
		return fmt.Errorf("%w: %s", ErrSettingAlreadyRegistered, d.Key)
	}
	if d.HasLegacyID() {
		for _, other := range r.groups[d.Kind] {
			if other.LegacyID == d.LegacyID {
				return fmt.Errorf("%w: %s id %d used by %s", ErrSettingAlreadyRegistered, d.Kind, d.LegacyID, other.Key)
			}
		}
	}

	r.byKey[d.Key] = d
	r.groups[d.Kind] = append(r.groups[d.Kind], d)
	if d.Kind == KindSyntaxStyle {
		r.styles[value.Token(d.LegacyID)] = d
	}
	return nil
}

// MustRegister registers a definition and panics on error.
// Useful for registering built-in settings at init time.
func (r *Registry) MustRegister(d *Definition) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// ByKey returns the definition for the given key.
// Returns nil if the key is not registered.
func (r *Registry) ByKey(key string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKey[key]
}

// Has checks if a key is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.byKey[key]
	return exists
}

// Group returns the definitions of one kind in registration order.
func (r *Registry) Group(kind Kind) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := r.groups[kind]
	result := make([]*Definition, len(defs))
	copy(result, defs)
	return result
}

// All returns every definition: booleans, strings, fonts, colors, then
// syntax styles, each group in registration order.
func (r *Registry) All() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Definition, 0, len(r.byKey))
	for _, kind := range Kinds() {
		result = append(result, r.groups[kind]...)
	}
	return result
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// ByLegacyID returns the definition of the given kind carrying id.
// Only the group of that kind is searched.
func (r *Registry) ByLegacyID(kind Kind, id int) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id != NoLegacyID {
		for _, d := range r.groups[kind] {
			if d.LegacyID == id {
				return d, nil
			}
		}
	}
	return nil, &LegacyIDError{Kind: kind, ID: id}
}

// SyntaxStyleForToken returns the syntax style definition for token.
func (r *Registry) SyntaxStyleForToken(token value.Token) (Def[value.SyntaxStyle], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.styles[token]
	if !ok {
		return Def[value.SyntaxStyle]{}, false
	}
	return Def[value.SyntaxStyle]{d}, true
}

// CheckSyntaxStyles verifies that every token id has a syntax style.
func (r *Registry) CheckSyntaxStyles() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []string
	for t := value.Token(0); int(t) < value.TokenCount; t++ {
		if _, ok := r.styles[t]; !ok {
			missing = append(missing, t.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no syntax style for tokens: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Search finds definitions matching a query string.
// Searches key, description, and tags.
func (r *Registry) Search(query string) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = strings.ToLower(query)
	var result []*Definition

	for _, d := range r.byKey {
		if matchesDefinition(d, query) {
			result = append(result, d)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// ByTag returns all definitions with the given tag.
func (r *Registry) ByTag(tag string) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Definition
	for _, d := range r.byKey {
		for _, t := range d.Tags {
			if t == tag {
				result = append(result, d)
				break
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Defaults returns the hardcoded default of every definition in text form.
func (r *Registry) Defaults() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.byKey))
	for key, d := range r.byKey {
		result[key] = d.Default
	}
	return result
}

// matchesDefinition checks if a definition matches a search query.
func matchesDefinition(d *Definition, query string) bool {
	if strings.Contains(strings.ToLower(d.Key), query) {
		return true
	}

	if strings.Contains(strings.ToLower(d.Description), query) {
		return true
	}

	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}

	return false
}

// ErrSettingAlreadyRegistered is returned when attempting to register a duplicate setting.
var ErrSettingAlreadyRegistered = errors.New("setting already registered")

// ErrInvalidLegacyID is returned when no definition carries a legacy id.
var ErrInvalidLegacyID = errors.New("invalid legacy setting id")

// LegacyIDError reports a legacy id with no matching definition.
type LegacyIDError struct {
	Kind Kind
	ID   int
}

func (e *LegacyIDError) Error() string {
	return fmt.Sprintf("invalid %s setting id %d", e.Kind, e.ID)
}

// Is reports whether target is ErrInvalidLegacyID.
func (e *LegacyIDError) Is(target error) bool {
	return target == ErrInvalidLegacyID
}
