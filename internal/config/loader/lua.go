package loader

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultLuaTimeout bounds the run time of a defaults script.
const DefaultLuaTimeout = 2 * time.Second

// LuaLoader loads defaults from a Lua script that returns a table.
//
//	return {
//	  EditorTabSize = 4,
//	  EditorFont = { Family = "Courier", Size = 14 },
//	  TextColumnOrder = { 4, 3, 2, 1, 0 },
//	}
//
// Scripts run with only the base, table, string and math libraries.
type LuaLoader struct {
	fs      FileSystem
	path    string
	timeout time.Duration
}

// NewLuaLoader creates a Lua loader for the given path.
func NewLuaLoader(path string) *LuaLoader {
	return NewLuaLoaderWithFS(DefaultFS(), path)
}

// NewLuaLoaderWithFS creates a Lua loader with a custom file system.
func NewLuaLoaderWithFS(fs FileSystem, path string) *LuaLoader {
	return &LuaLoader{fs: fs, path: path, timeout: DefaultLuaTimeout}
}

// SetTimeout changes the script run time limit.
func (l *LuaLoader) SetTimeout(d time.Duration) {
	if d > 0 {
		l.timeout = d
	}
}

// Path returns the configured path.
func (l *LuaLoader) Path() string {
	return l.path
}

// Load runs the script at the configured path.
func (l *LuaLoader) Load() (map[string]string, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom runs the script at a specific path.
func (l *LuaLoader) LoadFrom(path string) (map[string]string, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.run(path, string(data))
}

// LoadFromReader runs a script read from r.
func (l *LuaLoader) LoadFromReader(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading defaults: %w", err)
	}
	return l.run("<reader>", string(data))
}

func (l *LuaLoader) run(source, code string) (result map[string]string, err error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	L.SetContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &ParseError{Path: source, Message: fmt.Sprintf("lua panic: %v", r)}
		}
	}()

	fn, err := L.LoadString(code)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	ret := L.Get(-1)
	L.Pop(1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, &ParseError{Path: source, Message: fmt.Sprintf("script must return a table, got %s", ret.Type())}
	}

	out := make(map[string]string)
	if err := flattenLua(out, "", tbl); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return out, nil
}

// openSafeLibraries opens only the side-effect free standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func flattenLua(out map[string]string, prefix string, tbl *lua.LTable) error {
	var ferr error
	tbl.ForEach(func(k, v lua.LValue) {
		if ferr != nil {
			return
		}
		name, ok := k.(lua.LString)
		if !ok {
			ferr = fmt.Errorf("table key %s under %q is not a string", k, prefix)
			return
		}
		key := prefix + string(name)

		if sub, ok := v.(*lua.LTable); ok {
			if sub.MaxN() > 0 {
				text, err := luaList(sub)
				if err != nil {
					ferr = fmt.Errorf("%s: %w", key, err)
					return
				}
				out[key] = text
				return
			}
			ferr = flattenLua(out, key, sub)
			return
		}

		text, err := luaScalar(v)
		if err != nil {
			ferr = fmt.Errorf("%s: %w", key, err)
			return
		}
		out[key] = text
	})
	return ferr
}

func luaList(tbl *lua.LTable) (string, error) {
	items := make([]any, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		text, err := luaScalar(tbl.RawGetInt(i))
		if err != nil {
			return "", err
		}
		items = append(items, text)
	}
	return FormatScalar(items), nil
}

func luaScalar(v lua.LValue) (string, error) {
	switch val := v.(type) {
	case lua.LString:
		return string(val), nil
	case lua.LNumber:
		return strconv.FormatFloat(float64(val), 'f', -1, 64), nil
	case lua.LBool:
		return strconv.FormatBool(bool(val)), nil
	default:
		if v == lua.LNil {
			return "", nil
		}
		return "", fmt.Errorf("unsupported value type %s", v.Type())
	}
}
