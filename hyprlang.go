// Package hyprlang implements a processor for a Hyprland-style
// declarative, hierarchical configuration language: variables, typed
// values with write-time coercion, category and special-category
// nesting, conditional directives, file inclusion, and handler-keyword
// dispatch.
package hyprlang

import (
	"github.com/hyprlang-go/hyprlang/pkg/binder"
	"github.com/hyprlang-go/hyprlang/pkg/serialize"
	"github.com/hyprlang-go/hyprlang/pkg/specialcat"
	"github.com/hyprlang-go/hyprlang/pkg/store"
	"github.com/hyprlang-go/hyprlang/pkg/types"
	"github.com/hyprlang-go/hyprlang/pkg/variables"
)

// Re-exported so callers never need to import pkg/types directly for the
// common path.
type (
	Value    = types.Value
	Vec2     = types.Vec2
	Color    = types.Color
	Location = types.Location
)

// SpecialCategoryKind classifies how a registered special category's
// instances are addressed.
type SpecialCategoryKind = specialcat.Kind

const (
	Keyed     = specialcat.Keyed
	Static    = specialcat.Static
	Anonymous = specialcat.Anonymous
)

// HandlerContext is passed to a registered handler callback.
type HandlerContext = binder.HandlerContext

// HandlerFn is a registered handler callback.
type HandlerFn = binder.HandlerFn

// ConfigOptions controls parsing behavior: whether parse errors abort
// immediately or accumulate, whether a second top-level Parse call is
// permitted, and the directory "source" paths resolve against.
type ConfigOptions struct {
	ThrowAllErrors      bool
	AllowDynamicParsing bool
	BaseDir             string
}

// Config is the entry point: one Config owns one Store, one variable
// Table, and one special-category Registry, bound together by a Binder.
type Config struct {
	store      *store.Store
	vars       *variables.Table
	specialReg *specialcat.Registry
	bind       *binder.Binder
}

// New creates a Config with default options.
func New() *Config {
	return WithOptions(ConfigOptions{})
}

// WithOptions creates a Config with explicit options.
func WithOptions(opts ConfigOptions) *Config {
	st := store.New()
	vars := variables.New()
	reg := specialcat.New(func() specialcat.Entries { return store.New() })
	b := binder.New(binder.Options{
		ThrowAllErrors:      opts.ThrowAllErrors,
		AllowDynamicParsing: opts.AllowDynamicParsing,
		BaseDir:             opts.BaseDir,
	}, st, vars, reg)
	return &Config{store: st, vars: vars, specialReg: reg, bind: b}
}

// Parse binds source text into the Config's store.
func (c *Config) Parse(text string) error {
	return c.bind.Bind(text, "<string>")
}

// ParseFile resolves path against BaseDir (or the working directory) and
// binds its contents.
func (c *Config) ParseFile(path string) error {
	return c.bind.BindFile(path)
}

// Get retrieves the raw Value stored at key.
func (c *Config) Get(key string) (Value, bool) {
	return c.store.Get(key)
}

func (c *Config) GetInt(key string) (int64, error)       { return c.store.GetInt(key) }
func (c *Config) GetFloat(key string) (float64, error)   { return c.store.GetFloat(key) }
func (c *Config) GetString(key string) (string, error)   { return c.store.GetString(key) }
func (c *Config) GetVec2(key string) (Vec2, error)        { return c.store.GetVec2(key) }
func (c *Config) GetColor(key string) (Color, error)      { return c.store.GetColor(key) }
func (c *Config) Has(key string) bool                     { return c.store.Has(key) }
func (c *Config) Keys() []string                          { return c.store.Keys() }

// Variables returns the user-defined variables in insertion order.
func (c *Config) Variables() []struct{ Name, Value string } {
	return c.vars.All()
}

// GetHandlerCalls returns the ordered raw right-hand sides recorded for a
// handler keyword (root-level, or "category:keyword" for a category
// handler).
func (c *Config) GetHandlerCalls(name string) []string {
	return c.store.HandlerCalls(name)
}

// AllHandlerCalls returns every handler name with invocations recorded so
// far.
func (c *Config) AllHandlerCalls() map[string][]string {
	return c.store.AllHandlerCalls()
}

// Set writes a pre-coerced value directly, bypassing parsing.
func (c *Config) Set(key string, v Value) {
	c.store.Set(key, v)
}

// SetVariable assigns a variable's raw text directly, bypassing parsing.
func (c *Config) SetVariable(name, value string) {
	c.vars.Set(name, value)
}

// RegisterHandlerFn registers a root-level handler keyword.
func (c *Config) RegisterHandlerFn(keyword string, fn HandlerFn) {
	c.bind.RegisterHandlerFn(keyword, fn)
}

// RegisterCategoryHandlerFn registers a handler keyword scoped to a
// category.
func (c *Config) RegisterCategoryHandlerFn(category, keyword string, fn HandlerFn) {
	c.bind.RegisterCategoryHandlerFn(category, keyword, fn)
}

// RegisterSpecialCategory registers a special-category descriptor so
// that subsequent "<name>[...]" (or bare "<name> {" for Static/Anonymous)
// blocks in parsed text open instances of it.
func (c *Config) RegisterSpecialCategory(name string, kind SpecialCategoryKind) error {
	return c.specialReg.Register(name, kind)
}

// GetSpecialCategory retrieves a previously opened special-category
// instance by its descriptor name and instance key.
func (c *Config) GetSpecialCategory(name, instanceKey string) (*specialcat.Instance, bool) {
	return c.specialReg.Get(name, instanceKey)
}

// SpecialCategoryKeys lists the instance keys opened under a registered
// special category.
func (c *Config) SpecialCategoryKeys(name string) []string {
	return c.specialReg.Keys(name)
}

// Serialize emits the canonical round-trippable text form of the current
// store and variable table.
func (c *Config) Serialize() string {
	return serialize.Write(c.vars, c.store)
}
