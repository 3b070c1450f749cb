package script

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Hook function names recognized in plugins.
const (
	HookPreValidateSentence = "preValidateSentence"
	HookPreValidateSection  = "preValidateSection"
	HookValidateDocument    = "validateDocument"
	HookValidateSentence    = "validateSentence"
	HookValidateSection     = "validateSection"
)

// Hooks lists every recognized hook name.
var Hooks = []string{
	HookPreValidateSentence,
	HookPreValidateSection,
	HookValidateDocument,
	HookValidateSentence,
	HookValidateSection,
}

// messageVar is the optional template variable of a plugin.
const messageVar = "message"

type hookState int

const (
	hookUnknown hookState = iota
	hookPresent
	hookAbsent
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Plugin is one compiled rule file.
type Plugin struct {
	name    string
	path    string
	message string

	mu      sync.Mutex
	interp  *interp.Interpreter
	hooks   map[string]hookState
	funcs   map[string]reflect.Value
	lookups int
}

// Compile interprets src and returns the resulting plugin. name is the
// plugin display name, path is used in error messages only.
func Compile(name, path, src string) (*Plugin, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, &LoadError{Plugin: name, FilePath: path, Message: "failed to load standard library symbols", Cause: err}
	}
	if err := i.Use(Symbols); err != nil {
		return nil, &LoadError{Plugin: name, FilePath: path, Message: "failed to load rule symbols", Cause: err}
	}
	if _, err := i.Eval(src); err != nil {
		return nil, &LoadError{Plugin: name, FilePath: path, Message: "compilation failed", Cause: err}
	}

	p := &Plugin{
		name:   name,
		path:   path,
		interp: i,
		hooks:  make(map[string]hookState, len(Hooks)),
		funcs:  make(map[string]reflect.Value, len(Hooks)),
	}

	if v, err := i.Eval(messageVar); err == nil && v.IsValid() {
		if v.Kind() != reflect.String {
			return nil, &LoadError{
				Plugin:   name,
				FilePath: path,
				Message:  fmt.Sprintf("%s must be a string, got %s", messageVar, v.Kind()),
			}
		}
		p.message = v.String()
	}

	return p, nil
}

// Name returns the plugin name (the file base name).
func (p *Plugin) Name() string { return p.name }

// Path returns the plugin file path.
func (p *Plugin) Path() string { return p.path }

// Message returns the declared message template, or "" when none.
func (p *Plugin) Message() string { return p.message }

// HasHook reports whether the plugin defines hook.
func (p *Plugin) HasHook(hook string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.lookup(hook)
	return ok
}

// DefinedHooks returns the recognized hooks the plugin defines.
func (p *Plugin) DefinedHooks() []string {
	var defined []string
	for _, hook := range Hooks {
		if p.HasHook(hook) {
			defined = append(defined, hook)
		}
	}
	return defined
}

// Lookups returns how many times a hook was looked up in the interpreter.
// Each hook name is looked up at most once.
func (p *Plugin) Lookups() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lookups
}

// Invoke calls hook with args. An undefined hook is a no-op. Failures of the
// hook are returned as *RuntimeError.
func (p *Plugin) Invoke(hook string, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn, ok := p.lookup(hook)
	if !ok {
		return nil
	}
	return p.call(hook, fn, args)
}

// lookup resolves hook once and memoizes the outcome. p.mu must be held.
func (p *Plugin) lookup(hook string) (reflect.Value, bool) {
	switch p.hooks[hook] {
	case hookPresent:
		return p.funcs[hook], true
	case hookAbsent:
		return reflect.Value{}, false
	}

	p.lookups++
	v, err := p.interp.Eval(hook)
	if err != nil || !v.IsValid() || v.Kind() != reflect.Func {
		p.hooks[hook] = hookAbsent
		return reflect.Value{}, false
	}
	p.hooks[hook] = hookPresent
	p.funcs[hook] = v
	return v, true
}

func (p *Plugin) call(hook string, fn reflect.Value, args []any) (err error) {
	t := fn.Type()
	if t.NumIn() != len(args) {
		return &RuntimeError{
			Plugin: p.name,
			Hook:   hook,
			Cause:  fmt.Errorf("hook takes %d arguments, called with %d", t.NumIn(), len(args)),
		}
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := t.In(i)
		if arg == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(want) {
			return &RuntimeError{
				Plugin: p.name,
				Hook:   hook,
				Cause:  fmt.Errorf("argument %d: %s is not assignable to %s", i+1, v.Type(), want),
			}
		}
		in[i] = v
	}

	defer func() {
		if r := recover(); r != nil {
			err = &RuntimeError{Plugin: p.name, Hook: hook, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	out := fn.Call(in)
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if !last.Type().Implements(errorType) {
		return nil
	}
	if (last.Kind() == reflect.Interface || last.Kind() == reflect.Pointer) && last.IsNil() {
		return nil
	}
	if hookErr, ok := last.Interface().(error); ok && hookErr != nil {
		return &RuntimeError{Plugin: p.name, Hook: hook, Cause: hookErr}
	}
	return nil
}

// IsRuntimeError reports whether err is a hook failure.
func IsRuntimeError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re)
}
