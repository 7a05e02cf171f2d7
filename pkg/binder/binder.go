// Package binder implements the Binder/Driver: it consumes the ordered
// ParseItem stream from pkg/grammar, maintains the category-path and
// conditional-skip stacks, performs variable and expression resolution on
// right-hand sides, routes assignments to the store or to special-category
// instances, dispatches registered handler keywords, and resolves
// "source" directives with cycle and depth detection.
package binder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hyprlang-go/hyprlang/pkg/expr"
	"github.com/hyprlang-go/hyprlang/pkg/grammar"
	"github.com/hyprlang-go/hyprlang/pkg/specialcat"
	"github.com/hyprlang-go/hyprlang/pkg/store"
	"github.com/hyprlang-go/hyprlang/pkg/types"
	"github.com/hyprlang-go/hyprlang/pkg/variables"
)

// maxSourceDepth is the safety-net recursion bound for "source"
// inclusion, independent of the cycle detector.
const maxSourceDepth = 64

// HandlerContext is passed to a registered handler callback: the resolved
// (variable- and expression-expanded) right-hand side, the fully composed
// key it was invoked under, and the source Location of the invoking line.
type HandlerContext struct {
	RawRHS string
	Key    string
	Loc    types.Location
}

// HandlerFn is a registered handler callback. Per the concurrency model,
// handlers must not mutate the store during dispatch.
type HandlerFn func(ctx HandlerContext) error

// Options mirrors ConfigOptions: throw_all_errors, allow_dynamic_parsing,
// base_dir.
type Options struct {
	ThrowAllErrors      bool
	AllowDynamicParsing bool
	BaseDir             string
}

type frame struct {
	special  bool
	name     string // category frame: the opened name
	instance *specialcat.Instance
}

// Binder is the stateful driver over one Store/VariableTable/registry
// triple. Its exported methods assume single-writer access, matching the
// processor's concurrency model.
type Binder struct {
	opts       Options
	store      *store.Store
	vars       *variables.Table
	specialReg *specialcat.Registry

	rootHandlers map[string]HandlerFn
	catHandlers  map[string]HandlerFn

	stack        []frame
	condStack    []bool
	noErrorFlag  bool
	sourceStack  []string
	sourceDepth  int
	parsed       bool
}

func New(opts Options, st *store.Store, vars *variables.Table, reg *specialcat.Registry) *Binder {
	return &Binder{
		opts:         opts,
		store:        st,
		vars:         vars,
		specialReg:   reg,
		rootHandlers: make(map[string]HandlerFn),
		catHandlers:  make(map[string]HandlerFn),
	}
}

func (b *Binder) RegisterHandlerFn(keyword string, fn HandlerFn) {
	b.rootHandlers[keyword] = fn
}

func (b *Binder) RegisterCategoryHandlerFn(category, keyword string, fn HandlerFn) {
	b.catHandlers[category+":"+keyword] = fn
}

// Bind parses source text and processes the resulting items. sourceLabel
// identifies the text in Locations and errors (a file path, or a label
// like "<string>" for in-memory input).
func (b *Binder) Bind(source, sourceLabel string) error {
	if b.parsed && !b.opts.AllowDynamicParsing {
		return types.NewParseError(types.Location{Source: sourceLabel}, "a second parse call requires allow_dynamic_parsing")
	}
	b.parsed = true

	items, err := grammar.Parse(source, sourceLabel)
	if err != nil {
		return err
	}
	return b.bindItems(items)
}

// BindFile resolves and parses a file relative to base_dir. It is the
// top-level ParseFile entry point and, like Bind, refuses a second
// top-level parse unless allow_dynamic_parsing is set; "source"
// directives go through bindSourceFile directly.
func (b *Binder) BindFile(path string) error {
	if b.parsed && !b.opts.AllowDynamicParsing {
		return types.NewParseError(types.Location{Source: path}, "a second parse call requires allow_dynamic_parsing")
	}
	b.parsed = true

	resolved, err := b.resolvePath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return types.NewSourceIoError(resolved, err)
	}
	return b.bindSourceFile(resolved, string(data))
}

func (b *Binder) resolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	base := b.opts.BaseDir
	if base == "" {
		var err error
		base, err = os.Getwd()
		if err != nil {
			return "", types.NewSourceIoError(path, err)
		}
	}
	return filepath.Clean(filepath.Join(base, path)), nil
}

// bindSourceFile is the recursive entry used by Source directives: it
// tracks the inclusion stack for cycle and depth detection, then parses
// and binds the included file's own items with a fresh category stack
// (its declarations begin and end at file scope).
func (b *Binder) bindSourceFile(resolved, content string) error {
	for _, seen := range b.sourceStack {
		if seen == resolved {
			return types.NewSourceCycle(resolved)
		}
	}
	if b.sourceDepth >= maxSourceDepth {
		return types.NewSourceDepthExceeded(types.Location{Source: resolved})
	}

	items, err := grammar.Parse(content, resolved)
	if err != nil {
		return err
	}

	b.sourceStack = append(b.sourceStack, resolved)
	b.sourceDepth++
	savedStack := b.stack
	b.stack = nil
	err = b.bindItems(items)
	b.stack = savedStack
	b.sourceDepth--
	b.sourceStack = b.sourceStack[:len(b.sourceStack)-1]
	return err
}

func (b *Binder) active() bool {
	for _, c := range b.condStack {
		if !c {
			return false
		}
	}
	return true
}

func (b *Binder) bindItems(items []grammar.ParseItem) error {
	var accumulated []*types.ConfigError

	for _, item := range items {
		if !b.active() && item.Kind != grammar.KindIfDirective && item.Kind != grammar.KindEndIf {
			continue
		}

		err := b.bindItem(item)
		if err != nil {
			if b.noErrorFlag {
				err = nil
			} else if b.opts.ThrowAllErrors {
				if ce, ok := err.(*types.ConfigError); ok {
					accumulated = append(accumulated, ce)
					err = nil
				}
			}
		}
		if isContentItem(item.Kind) {
			b.noErrorFlag = false
		}
		if err != nil {
			return err
		}
	}

	if len(accumulated) > 0 {
		return types.NewMultiple(accumulated)
	}
	return nil
}

func (b *Binder) bindItem(item grammar.ParseItem) error {
	switch item.Kind {
	case grammar.KindNoError:
		b.noErrorFlag = true
		return nil

	case grammar.KindIfDirective:
		if !b.active() {
			b.condStack = append(b.condStack, false)
			return nil
		}
		cond, err := b.vars.Expand(item.Cond, true)
		if err != nil {
			return err
		}
		p, err := expr.NewParser(cond)
		if err != nil {
			return types.NewParseError(item.Loc, err.Error())
		}
		node, err := p.ParseCondition()
		if err != nil {
			return types.NewParseError(item.Loc, err.Error())
		}
		result, err := expr.EvalCondition(node, item.Loc)
		if err != nil {
			return err
		}
		b.condStack = append(b.condStack, result)
		return nil

	case grammar.KindEndIf:
		if len(b.condStack) == 0 {
			return types.NewUnmatchedEndif(item.Loc)
		}
		b.condStack = b.condStack[:len(b.condStack)-1]
		return nil

	case grammar.KindAssignVar:
		// The raw text is stored; "$name" and "{{ }}" inside it resolve
		// when the variable is used, so a reference cycle between
		// variables surfaces as VarCycle at the use site.
		b.vars.Set(item.Name, item.RawRHS)
		return nil

	case grammar.KindOpenCat:
		if b.specialReg.IsRegistered(item.Name) {
			d, _ := b.specialReg.Descriptor(item.Name)
			if d.Kind == specialcat.Static || d.Kind == specialcat.Anonymous {
				return b.openSpecial(item.Name, nil)
			}
		}
		b.stack = append(b.stack, frame{name: item.Name})
		return nil

	case grammar.KindOpenSpecial:
		return b.openSpecial(item.Name, item.Key)

	case grammar.KindCloseCat:
		if len(b.stack) == 0 {
			return types.NewUnmatchedClose(item.Loc)
		}
		b.stack = b.stack[:len(b.stack)-1]
		return nil

	case grammar.KindSource:
		path, err := b.vars.Expand(item.Path, false)
		if err != nil {
			return err
		}
		resolved, err := b.resolvePath(path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return types.NewSourceIoError(resolved, err)
		}
		return b.bindSourceFile(resolved, string(data))

	case grammar.KindAssign:
		return b.bindAssign(item)
	}
	return nil
}

func (b *Binder) openSpecial(name string, key *string) error {
	inst, err := b.specialReg.Open(name, key)
	if err != nil {
		return err
	}
	b.stack = append(b.stack, frame{special: true, name: name, instance: inst})
	return nil
}

// resolveRHS expands variables and then any "{{ ... }}" arithmetic spans,
// leaving a fully-resolved raw string with no remaining $name or {{...}}
// tokens.
func (b *Binder) resolveRHS(raw string, loc types.Location) (string, error) {
	expanded, err := b.vars.Expand(raw, false)
	if err != nil {
		return "", err
	}
	return evalExpressionSpans(expanded, loc)
}

// evalExpressionSpans finds "{{ ... }}" spans in s and replaces each with
// its arithmetic evaluation.
func evalExpressionSpans(s string, loc types.Location) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(s) {
		start := strings.Index(s[i:], "{{")
		if start == -1 {
			out.WriteString(s[i:])
			break
		}
		start += i
		out.WriteString(s[i:start])
		end := strings.Index(s[start+2:], "}}")
		if end == -1 {
			return "", types.NewParseError(loc, "unterminated '{{' expression span")
		}
		end += start + 2
		body := s[start+2 : end]

		p, err := expr.NewParser(body)
		if err != nil {
			return "", types.NewParseError(loc, err.Error())
		}
		node, err := p.ParseExpr()
		if err != nil {
			return "", types.NewParseError(loc, err.Error())
		}
		val, err := expr.EvalArith(node, loc)
		if err != nil {
			return "", err
		}
		out.WriteString(val.String())
		i = end + 2
	}
	return out.String(), nil
}

func (b *Binder) currentSpecial() *specialcat.Instance {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].special {
			return b.stack[i].instance
		}
	}
	return nil
}

func (b *Binder) bindAssign(item grammar.ParseItem) error {
	inSpecial := b.currentSpecial()

	if inSpecial == nil && len(item.Segs) == 1 {
		keyword := item.Segs[0]
		if len(b.stack) == 0 {
			if fn, ok := b.rootHandlers[keyword]; ok {
				return b.dispatchHandler(keyword, fn, item)
			}
		} else {
			cat := b.stack[len(b.stack)-1].name
			if fn, ok := b.catHandlers[cat+":"+keyword]; ok {
				return b.dispatchHandler(cat+":"+keyword, fn, item)
			}
		}
	}

	resolved, err := b.resolveRHS(item.RawRHS, item.Loc)
	if err != nil {
		return err
	}
	value := types.Coerce(resolved)

	if inSpecial != nil {
		localSegs := b.localSegsSinceSpecial()
		key := strings.Join(append(localSegs, item.Segs...), ":")
		inSpecial.Set(key, value)
		return nil
	}

	fullKey := strings.Join(append(b.categoryNames(), item.Segs...), ":")
	b.store.Set(fullKey, value)
	return nil
}

func (b *Binder) dispatchHandler(name string, fn HandlerFn, item grammar.ParseItem) error {
	resolved, err := b.resolveRHS(item.RawRHS, item.Loc)
	if err != nil {
		return err
	}
	fullKey := strings.Join(append(b.categoryNames(), item.Segs...), ":")
	b.store.AppendHandlerCall(name, resolved)
	if fn == nil {
		return nil
	}
	return fn(HandlerContext{RawRHS: resolved, Key: fullKey, Loc: item.Loc})
}

// categoryNames returns the plain-category frame names on the stack, in
// order, for composing a main-store key.
func (b *Binder) categoryNames() []string {
	names := make([]string, 0, len(b.stack))
	for _, f := range b.stack {
		names = append(names, f.name)
	}
	return names
}

// localSegsSinceSpecial returns the category frame names opened after the
// most recent special frame, for composing a key local to that instance.
func (b *Binder) localSegsSinceSpecial() []string {
	var names []string
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].special {
			break
		}
		names = append([]string{b.stack[i].name}, names...)
	}
	return names
}

// isContentItem reports whether kind is a line that actually assigns,
// dispatches, or includes something, as opposed to a directive
// (IfDirective/EndIf/NoError) that only adjusts binder state. The noerror
// flag is only consumed by the next content item, so an intervening
// "endif" or nested "if" does not swallow the suppression early.
func isContentItem(kind grammar.ItemKind) bool {
	switch kind {
	case grammar.KindAssign, grammar.KindAssignVar, grammar.KindOpenCat,
		grammar.KindOpenSpecial, grammar.KindCloseCat, grammar.KindSource:
		return true
	}
	return false
}
