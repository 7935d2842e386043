package interpreter

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/Peter-Roger/relathon/pkg/driver"
	"github.com/Peter-Roger/relathon/pkg/parser"
	"github.com/Peter-Roger/relathon/pkg/relation"
	"github.com/Peter-Roger/relathon/pkg/runtime"
)

// DefaultMaxDepth bounds nested calls when no limit is configured.
const DefaultMaxDepth = 1000

const (
	builtinsScope = "_builtins_"
	globalsScope  = "globals"
)

// ModuleLoader resolves an import name to source text. Load wraps
// driver.ErrModuleNotFound when nothing matches.
type ModuleLoader interface {
	Load(name string) (*driver.Module, error)
}

// Options configures an interpreter.
type Options struct {
	Logger   *slog.Logger
	Output   io.Writer
	Loader   ModuleLoader
	Display  relation.Display
	MaxDepth int
	Random   *rand.Rand
	Sources  *driver.Sources
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the structured logger for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithOutput redirects print.
func WithOutput(w io.Writer) Option {
	return func(o *Options) { o.Output = w }
}

// WithLoader sets the import resolver.
func WithLoader(loader ModuleLoader) Option {
	return func(o *Options) { o.Loader = loader }
}

// WithDisplay sets the initial glyphs for set and unset bits.
func WithDisplay(display relation.Display) Option {
	return func(o *Options) { o.Display = display }
}

// WithMaxDepth limits nested calls; n <= 0 keeps the default.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithRandom supplies the generator used by random().
func WithRandom(rng *rand.Rand) Option {
	return func(o *Options) { o.Random = rng }
}

// WithSources shares a source registry with the caller.
func WithSources(sources *driver.Sources) Option {
	return func(o *Options) { o.Sources = sources }
}

func defaultOptions() Options {
	return Options{
		Logger:   slog.Default(),
		Output:   os.Stdout,
		Display:  relation.DefaultDisplay,
		MaxDepth: DefaultMaxDepth,
	}
}

// Interpreter evaluates parsed modules against a builtins root and a
// globals scope that persist across calls.
type Interpreter struct {
	logger    *slog.Logger
	output    io.Writer
	loader    ModuleLoader
	display   relation.Display
	maxDepth  int
	rng       *rand.Rand
	sources   *driver.Sources
	builtins  *runtime.Environment
	globals   *runtime.Environment
	callStack []CallFrame
	importing map[string]bool
	trueRel   runtime.RelationValue
	falseRel  runtime.RelationValue
}

// New returns an interpreter with the builtins installed.
func New(opts ...Option) *Interpreter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Output == nil {
		o.Output = io.Discard
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Random == nil {
		o.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Sources == nil {
		o.Sources = driver.NewSources()
	}

	i := &Interpreter{
		logger:    o.Logger,
		output:    o.Output,
		loader:    o.Loader,
		display:   o.Display,
		maxDepth:  o.MaxDepth,
		rng:       o.Random,
		sources:   o.Sources,
		importing: make(map[string]bool),
	}
	trueRel, _ := relation.New(1, 1, relation.Pair{Row: 0, Col: 0})
	falseRel, _ := relation.New(1, 1)
	i.trueRel = runtime.RelationValue{Rel: trueRel}
	i.falseRel = runtime.RelationValue{Rel: falseRel}

	i.builtins = runtime.NewEnvironment(builtinsScope, nil)
	i.initBuiltins()
	i.globals = runtime.NewEnvironment(globalsScope, i.builtins)
	return i
}

// Globals is the program scope.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// Builtins is the shared root scope.
func (i *Interpreter) Builtins() *runtime.Environment {
	return i.builtins
}

// Display returns the glyphs currently used to print relations.
func (i *Interpreter) Display() relation.Display {
	return i.display
}

// Sources is the registry consulted when rendering diagnostics.
func (i *Interpreter) Sources() *driver.Sources {
	return i.sources
}

// CallStack returns a copy of the active call frames.
func (i *Interpreter) CallStack() []CallFrame {
	out := make([]CallFrame, len(i.callStack))
	copy(out, i.callStack)
	return out
}

// EvaluateModule runs every statement of module in the globals scope. A
// top-level return ends the module.
func (i *Interpreter) EvaluateModule(ctx context.Context, module *ast.Module) (*runtime.Environment, error) {
	if err := i.runModule(ctx, module, i.globals); err != nil {
		i.callStack = i.callStack[:0]
		return nil, err
	}
	return i.globals, nil
}

// EvaluateStatement runs one interactive statement in the globals scope.
// The value is that of an expression statement and None otherwise.
func (i *Interpreter) EvaluateStatement(ctx context.Context, stmt ast.Statement) (runtime.Value, error) {
	val, err := i.evaluateStatement(ctx, stmt, i.globals)
	if err != nil {
		i.callStack = i.callStack[:0]
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	if _, ok := stmt.(ast.Expression); !ok || val == nil {
		return runtime.None, nil
	}
	return val, nil
}

// RunSource parses and evaluates a whole program. Syntax errors are
// returned as parser.Diagnostic values.
func (i *Interpreter) RunSource(ctx context.Context, name, source string) error {
	i.sources.Add(name, source)
	module, err := parser.ParseModule(name, source)
	if err != nil {
		return err
	}
	_, err = i.EvaluateModule(ctx, module)
	return err
}

func (i *Interpreter) runModule(ctx context.Context, module *ast.Module, env *runtime.Environment) error {
	for _, stmt := range module.Statements {
		if _, err := i.evaluateStatement(ctx, stmt, env); err != nil {
			if _, ok := err.(returnSignal); ok {
				return nil
			}
			return err
		}
	}
	return nil
}

func (i *Interpreter) pushCall(loc ast.Location, scope string) {
	i.callStack = append(i.callStack, CallFrame{Location: loc, Scope: scope})
	i.logger.Debug("push call frame", "scope", scope, "depth", len(i.callStack))
}

func (i *Interpreter) popCall() {
	if len(i.callStack) == 0 {
		return
	}
	top := i.callStack[len(i.callStack)-1]
	i.callStack = i.callStack[:len(i.callStack)-1]
	i.logger.Debug("pop call frame", "scope", top.Scope, "depth", len(i.callStack))
}

// truth returns a copy of the True or False relation.
func (i *Interpreter) truth(b bool) runtime.RelationValue {
	if b {
		return runtime.RelationValue{Rel: i.trueRel.Rel.Copy()}
	}
	return runtime.RelationValue{Rel: i.falseRel.Rel.Copy()}
}
