package config

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/prefs/internal/config/layer"
	"github.com/dshills/prefs/internal/config/loader"
	"github.com/dshills/prefs/internal/config/notify"
	"github.com/dshills/prefs/internal/config/registry"
	"github.com/dshills/prefs/internal/config/store"
	"github.com/dshills/prefs/internal/config/value"
)

// newLoaded creates a loaded Config over st and closes it with the test.
func newLoaded(t *testing.T, st store.Store, opts ...Option) *Config {
	t.Helper()
	c := New(st, opts...)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// recorder collects changes delivered to an observer.
type recorder struct {
	mu      sync.Mutex
	changes []notify.Change
}

func (r *recorder) observe(change notify.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func (r *recorder) all() []notify.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Change(nil), r.changes...)
}

func TestNew_HardcodedDefaults(t *testing.T) {
	c := New(store.NewMemory())
	defer c.Close()

	for _, d := range c.Registry().All() {
		got, err := c.FormatText(d.Key)
		if err != nil {
			t.Fatalf("FormatText(%q) failed: %v", d.Key, err)
		}
		def, _ := c.DefaultText(d.Key)
		if got != def {
			t.Errorf("%s: value %q != default %q", d.Key, got, def)
		}
		if def != d.Default {
			t.Errorf("%s: default %q != hardcoded %q", d.Key, def, d.Default)
		}
	}
	if keys := c.Overridden(); len(keys) != 0 {
		t.Errorf("Overridden() = %v, want none", keys)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	c := New(store.NewMemory())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_AfterClose(t *testing.T) {
	c := New(store.NewMemory())
	c.Close()
	c.Close()

	if err := c.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() error = %v, want ErrClosed", err)
	}
}

func TestSet_NoOpOnEqualValue(t *testing.T) {
	st := store.NewMemory()
	c := newLoaded(t, st)

	rec := &recorder{}
	c.Subscribe(rec.observe)

	Set(c, registry.EditorTabSize, Get(c, registry.EditorTabSize))
	Set(c, registry.EditorFont, Get(c, registry.EditorFont))
	Set(c, registry.EvenRowBackground, Get(c, registry.EvenRowBackground))
	Set(c, registry.SyntaxStyleLabel, Get(c, registry.SyntaxStyleLabel))
	Set(c, registry.DelayedBranching, Get(c, registry.DelayedBranching))

	if n := len(rec.all()); n != 0 {
		t.Errorf("received %d notifications, want 0", n)
	}
	if puts, removes, flushes := st.Stats(); puts+removes+flushes != 0 {
		t.Errorf("store touched: puts=%d removes=%d flushes=%d", puts, removes, flushes)
	}
}

func TestSet_PersistsAndNotifiesOnce(t *testing.T) {
	st := store.NewMemory()
	c := newLoaded(t, st)

	rec := &recorder{}
	c.Subscribe(rec.observe)

	Set(c, registry.EditorTabSize, "4")

	if got := Get(c, registry.EditorTabSize); got != "4" {
		t.Errorf("Get() = %q, want %q", got, "4")
	}
	if got := st.GetString("EditorTabSize", ""); got != "4" {
		t.Errorf("stored value = %q, want %q", got, "4")
	}
	if _, _, flushes := st.Stats(); flushes != 1 {
		t.Errorf("flushes = %d, want 1", flushes)
	}

	changes := rec.all()
	if len(changes) != 1 {
		t.Fatalf("received %d notifications, want 1", len(changes))
	}
	want := notify.Change{Key: "EditorTabSize", Type: notify.ChangeSet, Source: SourceUser}
	if changes[0] != want {
		t.Errorf("change = %+v, want %+v", changes[0], want)
	}
}

func TestSet_PersistenceRoundTrip(t *testing.T) {
	st := store.NewMemory()
	c := newLoaded(t, st)

	font := value.Font{Family: "Courier", Style: value.StyleBold, Size: 16}
	color := value.FromRGB(0x123456)
	style := value.SyntaxStyle{Color: value.FromRGB(0xabcdef), Bold: true}

	Set(c, registry.EditorFont, font)
	Set(c, registry.OddRowBackground, color)
	Set(c, registry.SyntaxStyleKeyword1, style)
	Set(c, registry.BareMachine, true)
	Set(c, registry.ExceptionHandler, "/tmp/handler.asm")

	fresh := newLoaded(t, st)

	if got := Get(fresh, registry.EditorFont); got != font {
		t.Errorf("font = %v, want %v", got, font)
	}
	if got := Get(fresh, registry.OddRowBackground); got != color {
		t.Errorf("color = %v, want %v", got, color)
	}
	if got := Get(fresh, registry.SyntaxStyleKeyword1); got != style {
		t.Errorf("style = %v, want %v", got, style)
	}
	if !Get(fresh, registry.BareMachine) {
		t.Error("BareMachine = false, want true")
	}
	if got := Get(fresh, registry.ExceptionHandler); got != "/tmp/handler.asm" {
		t.Errorf("ExceptionHandler = %q", got)
	}
}

func TestSetToDefault_RemovesOverride(t *testing.T) {
	st := store.NewMemory()
	c := newLoaded(t, st)

	rec := &recorder{}
	c.Subscribe(rec.observe)

	Set(c, registry.EditorFont, value.Font{Family: "Courier", Style: value.StyleItalic, Size: 20})
	SetToDefault(c, registry.EditorFont)

	if got, want := Get(c, registry.EditorFont), GetDefault(c, registry.EditorFont); got != want {
		t.Errorf("Get() = %v, want default %v", got, want)
	}
	for _, key := range []string{"EditorFontFamily", "EditorFontStyle", "EditorFontSize"} {
		if st.Has(key) {
			t.Errorf("stale override %q left in store", key)
		}
	}

	fresh := newLoaded(t, st)
	if !IsDefault(fresh, registry.EditorFont) {
		t.Error("fresh load is not default")
	}

	changes := rec.all()
	if len(changes) != 2 || changes[1].Type != notify.ChangeReset {
		t.Errorf("changes = %+v, want set then reset", changes)
	}

	// Already default: nothing happens.
	SetToDefault(c, registry.EditorFont)
	if n := len(rec.all()); n != 2 {
		t.Errorf("received %d notifications, want 2", n)
	}
}

func TestSetToDefaultKey(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	Set(c, registry.DelayedBranching, true)
	if err := c.SetToDefaultKey("DelayedBranching"); err != nil {
		t.Fatalf("SetToDefaultKey failed: %v", err)
	}
	if Get(c, registry.DelayedBranching) {
		t.Error("DelayedBranching not reset")
	}
	if err := c.SetToDefaultKey("NoSuchSetting"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("error = %v, want ErrUnknownSetting", err)
	}
}

func TestFont_IsDefaultNeedsEveryPart(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	if !IsDefault(c, registry.EditorFont) {
		t.Fatal("EditorFont not default initially")
	}

	f := Get(c, registry.EditorFont)
	f.Family = "Courier"
	Set(c, registry.EditorFont, f)
	if IsDefault(c, registry.EditorFont) {
		t.Error("IsDefault() = true after changing only the family")
	}

	f.Family = value.DefaultFontFamily
	Set(c, registry.EditorFont, f)
	if !IsDefault(c, registry.EditorFont) {
		t.Error("IsDefault() = false with every part at default")
	}
}

func TestColor_AlphaIgnoredForDefault(t *testing.T) {
	for _, stored := range []string{"0x00e0e0e0", "0xffe0e0e0"} {
		st := store.NewMemoryWithData(map[string]string{"EvenRowBackground": stored})
		c := newLoaded(t, st)

		if !IsDefault(c, registry.EvenRowBackground) {
			t.Errorf("%s: IsDefault() = false", stored)
		}
		if got := Get(c, registry.EvenRowBackground).RGB(); got != 0xe0e0e0 {
			t.Errorf("%s: RGB() = %#x", stored, got)
		}
	}
}

func TestLoad_UnparseableStoredValueKeepsDefault(t *testing.T) {
	st := store.NewMemoryWithData(map[string]string{
		"DisplayValuesInHex": "maybe",
	})
	c := newLoaded(t, st)

	if !Get(c, registry.DisplayValuesInHex) {
		t.Error("unparseable boolean replaced the default")
	}
}

func TestLoad_UnparseableDerivedValuesKeepPrior(t *testing.T) {
	st := store.NewMemoryWithData(map[string]string{
		"EvenRowBackground": "not a color",
		"EditorFontSize":    "huge",
		"EditorFontStyle":   "Bold",
	})
	c := newLoaded(t, st, WithDefaultsSource("defaults", loader.Static{
		"OddRowBackground": "garbage",
		"EvenRowFontSize":  "enormous",
	}, layer.PriorityFile))

	if got := Get(c, registry.EvenRowBackground).RGB(); got != 0xe0e0e0 {
		t.Errorf("EvenRowBackground = %#x, want the default", got)
	}
	if !IsDefault(c, registry.EvenRowBackground) {
		t.Error("EvenRowBackground should still be default")
	}

	font := Get(c, registry.EditorFont)
	if font.Size != 12 || font.Style != value.StyleBold {
		t.Errorf("EditorFont = %v, want Monospaced:Bold:12", font)
	}

	if got := GetDefault(c, registry.OddRowBackground); got.Unset() {
		t.Error("unparseable external color default lost the hardcoded default")
	}
	if got := GetDefault(c, registry.EvenRowFont).Size; got != 12 {
		t.Errorf("EvenRowFont default size = %d, want 12", got)
	}
}

func TestFont_DefaultComparesParsedParts(t *testing.T) {
	st := store.NewMemory()
	c := newLoaded(t, st, WithDefaultsSource("defaults", loader.Static{
		"EditorFontStyle": "bold",
		"EditorFontSize":  " 12",
	}, layer.PriorityFile))

	if !IsDefault(c, registry.EditorFont) {
		t.Fatal("font loaded from defaults should be default")
	}

	def := GetDefault(c, registry.EditorFont)
	Set(c, registry.EditorFont, value.NewFont("Courier", "Plain", "14"))
	Set(c, registry.EditorFont, def)

	if !IsDefault(c, registry.EditorFont) {
		t.Errorf("font set back to %v should be default", def)
	}
	if keys := c.Overridden(); len(keys) != 0 {
		t.Errorf("Overridden() = %v, want none", keys)
	}
}

func TestSet_NormalizesFontSize(t *testing.T) {
	st := store.NewMemory()
	c := newLoaded(t, st)

	rec := &recorder{}
	c.Subscribe(rec.observe)

	big := value.Font{Family: "Courier", Style: value.StylePlain, Size: 100}
	Set(c, registry.EditorFont, big)
	Set(c, registry.EditorFont, big)

	if n := len(rec.all()); n != 1 {
		t.Errorf("received %d notifications, want 1", n)
	}
	if got := st.GetString("EditorFontSize", ""); got != "72" {
		t.Errorf("stored size = %q, want %q", got, "72")
	}
	if got := Get(c, registry.EditorFont).Size; got != 72 {
		t.Errorf("Size = %d, want 72", got)
	}
}

func TestSetNonPersistent(t *testing.T) {
	st := store.NewMemory()
	c := newLoaded(t, st)

	rec := &recorder{}
	c.Subscribe(rec.observe)

	if err := SetNonPersistent(c, registry.EditorTabSize, "2"); err != nil {
		t.Fatalf("SetNonPersistent failed: %v", err)
	}
	if got := Get(c, registry.EditorTabSize); got != "2" {
		t.Errorf("Get() = %q, want %q", got, "2")
	}
	if st.Len() != 0 {
		t.Errorf("store has %d entries, want 0", st.Len())
	}

	changes := rec.all()
	if len(changes) != 1 || changes[0].Type != notify.ChangeSession || changes[0].Source != SourceSession {
		t.Errorf("changes = %+v, want one session change", changes)
	}

	fresh := newLoaded(t, st)
	if got := Get(fresh, registry.EditorTabSize); got != "8" {
		t.Errorf("fresh Get() = %q, want %q", got, "8")
	}
}

func TestSetNonPersistent_RejectsUnset(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	err := SetNonPersistent(c, registry.EvenRowBackground, value.NoColor)
	if !errors.Is(err, ErrUnsetValue) {
		t.Errorf("color error = %v, want ErrUnsetValue", err)
	}
	err = SetNonPersistent(c, registry.SyntaxStyleLabel, value.SyntaxStyle{Bold: true})
	if !errors.Is(err, ErrUnsetValue) {
		t.Errorf("style error = %v, want ErrUnsetValue", err)
	}
	err = SetNonPersistent(c, registry.EditorFont, value.Font{})
	if !errors.Is(err, ErrUnsetValue) {
		t.Errorf("font error = %v, want ErrUnsetValue", err)
	}
	if !IsDefault(c, registry.EvenRowBackground) {
		t.Error("rejected value was applied")
	}
}

func TestSet_BackendFailureKeepsValue(t *testing.T) {
	st := store.NewMemory()
	st.FailWrites(store.ErrPermission)

	m, _ := NewMetrics(nil)
	c := newLoaded(t, st, WithMetrics(m))

	rec := &recorder{}
	c.Subscribe(rec.observe)

	want := value.FromRGB(0xff0000)
	Set(c, registry.RegisterHighlightBackground, want)
	Set(c, registry.EditorFont, value.Font{Family: "Courier", Size: 10})

	if got := Get(c, registry.RegisterHighlightBackground); got != want {
		t.Errorf("Get() = %v, want %v", got, want)
	}
	if IsDefault(c, registry.EditorFont) {
		t.Error("font rolled back after failed write")
	}
	if n := len(rec.all()); n != 2 {
		t.Errorf("received %d notifications, want 2", n)
	}
	if st.Len() != 0 {
		t.Errorf("store has %d entries, want 0", st.Len())
	}
}

func TestLoad_DefaultsSource(t *testing.T) {
	st := store.NewMemoryWithData(map[string]string{"OddRowBackground": "0x00000001"})
	c := newLoaded(t, st, WithDefaultsSource("defaults", loader.Static{
		"EditorTabSize":     "4",
		"EditorFontFamily":  "Courier",
		"OddRowBackground":  "0x00ff0000",
		"DelayedBranching":  "TRUE",
		"EvenRowBackground": "not a color",
	}, layer.PriorityFile))

	if got := Get(c, registry.EditorTabSize); got != "4" {
		t.Errorf("EditorTabSize = %q, want %q", got, "4")
	}
	if !IsDefault(c, registry.EditorTabSize) {
		t.Error("external default did not become the default")
	}
	if got := GetDefault(c, registry.EditorFont).Family; got != "Courier" {
		t.Errorf("font family default = %q", got)
	}
	if !Get(c, registry.DelayedBranching) {
		t.Error("DelayedBranching = false, want true")
	}
	if got := GetDefault(c, registry.OddRowBackground).RGB(); got != 0xff0000 {
		t.Errorf("OddRowBackground default = %#x", got)
	}
	if got := Get(c, registry.OddRowBackground).RGB(); got != 1 {
		t.Errorf("stored override lost: %#x", got)
	}
	if got := GetDefault(c, registry.EvenRowBackground).RGB(); got != 0xe0e0e0 {
		t.Errorf("unparseable color default replaced the hardcoded one: %#x", got)
	}
}

func TestLoad_FailingSourceFallsBack(t *testing.T) {
	m, _ := NewMetrics(nil)
	failing := loader.Func(func() (map[string]string, error) {
		return nil, errors.New("corrupt")
	})
	c := newLoaded(t, store.NewMemory(),
		WithMetrics(m),
		WithDefaultsSource("broken", failing, layer.PriorityFile),
		WithDefaultsSource("good", loader.Static{"CaretBlinkRate": "250"}, layer.PriorityFile),
	)

	if got := Get(c, registry.CaretBlinkRate); got != "250" {
		t.Errorf("CaretBlinkRate = %q, want %q", got, "250")
	}
	if got := Get(c, registry.EditorTabSize); got != "8" {
		t.Errorf("EditorTabSize = %q, want hardcoded %q", got, "8")
	}
}

func TestLoad_MissingDefaultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.properties")
	c := newLoaded(t, store.NewMemory(), WithDefaultsFile(path))

	if !IsDefault(c, registry.EditorTabSize) || Get(c, registry.EditorTabSize) != "8" {
		t.Error("missing defaults file changed defaults")
	}
}

func TestLoad_SourcePriority(t *testing.T) {
	c := newLoaded(t, store.NewMemory(),
		WithDefaultsSource("high", loader.Static{"EditorTabSize": "2"}, layer.PriorityEnv),
		WithDefaultsSource("low", loader.Static{"EditorTabSize": "4", "CaretBlinkRate": "100"}, layer.PriorityFile),
	)

	if got := Get(c, registry.EditorTabSize); got != "2" {
		t.Errorf("EditorTabSize = %q, want %q", got, "2")
	}

	tests := []struct {
		key  string
		want string
	}{
		{"EditorTabSize", "high"},
		{"CaretBlinkRate", "low"},
		{"EditorPopupPrefixLength", "builtin"},
		{"EditorFont", "builtin"},
	}
	for _, tt := range tests {
		got, err := c.Origin(tt.key)
		if err != nil {
			t.Fatalf("Origin(%q) failed: %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("Origin(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestReset_RerunsPhases(t *testing.T) {
	st := store.NewMemoryWithData(map[string]string{"EditorTabSize": "6"})
	c := newLoaded(t, st)

	_ = SetNonPersistent(c, registry.EditorTabSize, "3")
	_ = SetNonPersistent(c, registry.AutoIndent, false)

	rec := &recorder{}
	c.Subscribe(rec.observe)
	c.Reset()

	if got := Get(c, registry.EditorTabSize); got != "6" {
		t.Errorf("EditorTabSize = %q, want stored %q", got, "6")
	}
	if !Get(c, registry.AutoIndent) {
		t.Error("AutoIndent session value survived reset")
	}

	changes := rec.all()
	if len(changes) != 1 || changes[0].Type != notify.ChangeReload {
		t.Errorf("changes = %+v, want one reload", changes)
	}
}

func TestInstallProfile(t *testing.T) {
	c := newLoaded(t, store.NewMemory(),
		WithDefaultsSource("defaults", loader.Static{"EvenRowBackground": "0x00111111"}, layer.PriorityFile),
	)

	rec := &recorder{}
	c.Subscribe(rec.observe)

	c.InstallProfile("dark", loader.Static{"EvenRowBackground": "0x00222222"})
	if got := Get(c, registry.EvenRowBackground).RGB(); got != 0x222222 {
		t.Errorf("after install = %#x, want 0x222222", got)
	}
	if origin, _ := c.Origin("EvenRowBackground"); origin != "dark" {
		t.Errorf("Origin() = %q, want %q", origin, "dark")
	}

	if !c.RemoveProfile("dark") {
		t.Fatal("RemoveProfile() = false")
	}
	if got := Get(c, registry.EvenRowBackground).RGB(); got != 0x111111 {
		t.Errorf("after remove = %#x, want 0x111111", got)
	}
	if c.RemoveProfile("dark") {
		t.Error("second RemoveProfile() = true")
	}

	changes := rec.all()
	if len(changes) != 2 || changes[0].Source != "profile:dark" {
		t.Errorf("changes = %+v, want two profile reloads", changes)
	}
}

func TestLegacyIDAccess(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	if b, err := c.BoolByLegacyID(0); err != nil || !b {
		t.Errorf("BoolByLegacyID(0) = %v, %v", b, err)
	}
	if s, err := c.StringByLegacyID(5); err != nil || s != "8" {
		t.Errorf("StringByLegacyID(5) = %q, %v", s, err)
	}
	if col, err := c.ColorByLegacyID(0); err != nil || col.RGB() != 0xe0e0e0 {
		t.Errorf("ColorByLegacyID(0) = %v, %v", col, err)
	}
	if f, err := c.FontByLegacyID(0); err != nil || f.Family != value.DefaultFontFamily {
		t.Errorf("FontByLegacyID(0) = %v, %v", f, err)
	}

	if err := c.SetBoolByLegacyID(8, true); err != nil || !Get(c, registry.DelayedBranching) {
		t.Errorf("SetBoolByLegacyID(8) = %v", err)
	}
	if err := c.SetStringByLegacyID(4, "0"); err != nil || Get(c, registry.CaretBlinkRate) != "0" {
		t.Errorf("SetStringByLegacyID(4) = %v", err)
	}
	red := value.RGB(255, 0, 0)
	if err := c.SetColorByLegacyID(10, red); err != nil || Get(c, registry.RegisterHighlightBackground) != red {
		t.Errorf("SetColorByLegacyID(10) = %v", err)
	}
	if def, _ := c.DefaultColorByLegacyID(10); def.RGB() != 0x99cc55 {
		t.Errorf("DefaultColorByLegacyID(10) = %v", def)
	}
	f := value.Font{Family: "Serif", Style: value.StyleBold, Size: 9}
	if err := c.SetFontByLegacyID(6, f); err != nil || Get(c, registry.RegisterHighlightFont) != f {
		t.Errorf("SetFontByLegacyID(6) = %v", err)
	}
	if def, _ := c.DefaultFontByLegacyID(6); def.Size != value.DefaultFontSize {
		t.Errorf("DefaultFontByLegacyID(6) = %v", def)
	}

	stale := []func() error{
		func() error { _, err := c.BoolByLegacyID(21); return err },
		func() error { _, err := c.StringByLegacyID(99); return err },
		func() error { _, err := c.ColorByLegacyID(12); return err },
		func() error { _, err := c.FontByLegacyID(7); return err },
		func() error { return c.SetBoolByLegacyID(-5, true) },
		func() error { _, err := c.DefaultFontByLegacyID(40); return err },
	}
	for i, fn := range stale {
		if err := fn(); !errors.Is(err, ErrInvalidLegacyID) {
			t.Errorf("stale id %d: error = %v, want ErrInvalidLegacyID", i, err)
		}
	}
}

func TestColorByKey(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	col, err := c.ColorByKey("DataSegmentHighlightBackground")
	if err != nil || col.RGB() != 0x99ccff {
		t.Errorf("ColorByKey() = %v, %v", col, err)
	}

	blue := value.RGB(0, 0, 255)
	if err := c.SetColorByKey("DataSegmentHighlightBackground", blue); err != nil {
		t.Fatalf("SetColorByKey failed: %v", err)
	}
	if got := Get(c, registry.DataSegmentHighlightBackground); got != blue {
		t.Errorf("Get() = %v, want %v", got, blue)
	}
	if def, _ := c.DefaultColorByKey("DataSegmentHighlightBackground"); def.RGB() != 0x99ccff {
		t.Errorf("DefaultColorByKey() = %v", def)
	}

	if _, err := c.ColorByKey("Nope"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("unknown key error = %v", err)
	}
	var typeErr *TypeError
	if err := c.SetColorByKey("EditorFont", blue); !errors.As(err, &typeErr) || !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("wrong kind error = %v", err)
	}
}

func TestSyntaxStyles(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	styles := c.SyntaxStyles()
	if len(styles) != value.TokenCount {
		t.Fatalf("len = %d, want %d", len(styles), value.TokenCount)
	}
	want := value.SyntaxStyle{Color: value.FromRGB(0x00cc33), Italic: true}
	if styles[value.TokenComment1] != want {
		t.Errorf("comment1 = %v, want %v", styles[value.TokenComment1], want)
	}

	bold := value.SyntaxStyle{Color: value.FromRGB(0x123456), Bold: true}
	if err := c.SetSyntaxStyleByToken(value.TokenLabel, bold); err != nil {
		t.Fatalf("SetSyntaxStyleByToken failed: %v", err)
	}
	if got := c.SyntaxStyles()[value.TokenLabel]; got != bold {
		t.Errorf("label = %v, want %v", got, bold)
	}
	if got := c.DefaultSyntaxStyles()[value.TokenLabel]; got == bold {
		t.Error("default changed by Set")
	}

	err := c.SetSyntaxStyleByToken(value.Token(value.TokenCount), bold)
	if !errors.Is(err, ErrInvalidLegacyID) {
		t.Errorf("out of range token error = %v", err)
	}
}

func TestSetText(t *testing.T) {
	tests := []struct {
		key     string
		text    string
		want    string
		wantErr bool
	}{
		{"DisplayValuesInHex", "false", "false", false},
		{"DisplayValuesInHex", "nope", "", true},
		{"EditorTabSize", "4", "4", false},
		{"EditorTabSize", "40", "", true},
		{"EditorTabSize", "four", "", true},
		{"TextColumnOrder", "4 3 2 1 0", "4 3 2 1 0", false},
		{"TextColumnOrder", "a b", "", true},
		{"EvenRowBackground", "#ff0000", "0x00ff0000", false},
		{"EvenRowBackground", "chartreuse-ish", "", true},
		{"EditorFont", "Courier:Bold:14", "Courier:Bold:14", false},
		{"EditorFont", "Courier:Italic", "Courier:Italic:12", false},
		{"SyntaxStyle_1", "0x0000ff,bold", "0x000000ff,bold", false},
		{"SyntaxStyle_1", "0x0000ff,underline", "", true},
		{"NoSuchSetting", "x", "", true},
	}

	for _, tt := range tests {
		c := newLoaded(t, store.NewMemory())
		err := c.SetText(tt.key, tt.text)
		if (err != nil) != tt.wantErr {
			t.Errorf("SetText(%q, %q) error = %v, wantErr %v", tt.key, tt.text, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		got, _ := c.FormatText(tt.key)
		if got != tt.want {
			t.Errorf("SetText(%q, %q) -> %q, want %q", tt.key, tt.text, got, tt.want)
		}
	}
}

func TestSetText_ErrorType(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	var textErr *TextError
	if err := c.SetText("EditorPopupPrefixLength", "0"); !errors.As(err, &textErr) {
		t.Fatalf("error = %v, want *TextError", err)
	}
	if textErr.Key != "EditorPopupPrefixLength" || textErr.Text != "0" {
		t.Errorf("TextError = %+v", textErr)
	}
}

func TestSubscribeKey(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	rec := &recorder{}
	sub := c.SubscribeKey("EditorTabSize", rec.observe)

	Set(c, registry.CaretBlinkRate, "100")
	Set(c, registry.EditorTabSize, "2")
	c.Reset()

	changes := rec.all()
	if len(changes) != 2 {
		t.Fatalf("received %d changes, want 2 (key + reload)", len(changes))
	}
	if changes[0].Key != "EditorTabSize" || changes[1].Type != notify.ChangeReload {
		t.Errorf("changes = %+v", changes)
	}

	sub.Unsubscribe()
	Set(c, registry.EditorTabSize, "3")
	if n := len(rec.all()); n != 2 {
		t.Errorf("received %d changes after unsubscribe, want 2", n)
	}
}

func TestObserverMayReadBack(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	var seen atomic.Value
	c.Subscribe(func(notify.Change) {
		seen.Store(Get(c, registry.EditorTabSize))
	})

	done := make(chan struct{})
	go func() {
		Set(c, registry.EditorTabSize, "5")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("observer deadlocked against the Config lock")
	}
	if got := seen.Load(); got != "5" {
		t.Errorf("observer read %v, want %q", got, "5")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				Set(c, registry.EditorTabSize, []string{"2", "4"}[(i+j)%2])
				_ = Get(c, registry.EditorTabSize)
				_ = c.Editor()
				_ = c.SyntaxStyles()
			}
		}(i)
	}
	wg.Wait()

	if got := Get(c, registry.EditorTabSize); got != "2" && got != "4" {
		t.Errorf("EditorTabSize = %q", got)
	}
}

func TestOverridden(t *testing.T) {
	c := newLoaded(t, store.NewMemory())

	Set(c, registry.BareMachine, true)
	Set(c, registry.EditorFont, value.Font{Family: "Courier", Size: 12})

	got := c.Overridden()
	if len(got) != 2 || got[0] != "BareMachine" || got[1] != "EditorFont" {
		t.Errorf("Overridden() = %v", got)
	}
}

func TestConfig_FileWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file watch test in short mode")
	}

	path := filepath.Join(t.TempDir(), "defaults.properties")
	if err := os.WriteFile(path, []byte("EditorTabSize=4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := newLoaded(t, store.NewMemory(), WithDefaultsFile(path), WithWatcher(true))
	if got := Get(c, registry.EditorTabSize); got != "4" {
		t.Fatalf("EditorTabSize = %q, want %q", got, "4")
	}

	var reloaded atomic.Bool
	c.Subscribe(func(change notify.Change) {
		if change.Type == notify.ChangeReload {
			reloaded.Store(true)
		}
	})

	if err := os.WriteFile(path, []byte("EditorTabSize=2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for !reloaded.Load() && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if !reloaded.Load() {
		t.Fatal("no reload after defaults file changed")
	}
	if got := Get(c, registry.EditorTabSize); got != "2" {
		t.Errorf("EditorTabSize = %q, want %q", got, "2")
	}
}

func TestConfig_InvalidDefaultsAreReported(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	c := newLoaded(t, store.NewMemory(),
		WithLogger(logger),
		WithDefaultsSource("defaults", loader.Static{
			"EditorTabSize":  "99",
			"CaretBlinkRate": "250",
		}, layer.PriorityFile),
	)

	if !strings.Contains(buf.String(), "defaults source has invalid entries") ||
		!strings.Contains(buf.String(), "EditorTabSize") {
		t.Errorf("log = %q", buf.String())
	}
	if got := c.Editor().CaretBlinkRate; got != 250 {
		t.Errorf("CaretBlinkRate = %d, want 250", got)
	}
	if c.Schema().Property("EditorTabSize") == nil {
		t.Error("Schema() should describe EditorTabSize")
	}
}
