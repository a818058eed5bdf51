package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/vvalues/internal/instrument"
	"github.com/roach88/vvalues/internal/intercept"
	"github.com/roach88/vvalues/internal/native"
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/store"
	"github.com/roach88/vvalues/internal/symbolic"
	"github.com/roach88/vvalues/internal/testutil"
	"github.com/roach88/vvalues/internal/trace"
	"github.com/roach88/vvalues/internal/value"
)

// Harness executes one scenario.
type Harness struct {
	ic       *intercept.Interceptor
	rec      *trace.Recorder
	store    *store.Store
	handlers map[string]*handlerInstance
	order    []string
	bindings map[string]value.Value
	logger   *slog.Logger
}

// handlerInstance is a declared handler made concrete on the interceptor.
type handlerInstance struct {
	decl    HandlerDecl
	key     any
	handler intercept.Handler
	family  *symbolic.Family
	meter   *instrument.Meter
}

// RunOption configures a run.
type RunOption func(*runConfig)

type runConfig struct {
	sessions trace.SessionGenerator
	clock    trace.Sequencer
	logger   *slog.Logger
}

// WithSessionGenerator supplies session IDs for scenarios that don't fix
// their own. The default is testutil.FixedSessionGenerator.
func WithSessionGenerator(g trace.SessionGenerator) RunOption {
	return func(c *runConfig) { c.sessions = g }
}

// WithClock stamps trace events from c instead of a fresh deterministic
// clock. Pass trace.NewClockAt(last) to continue a stored session.
func WithClock(c trace.Sequencer) RunOption {
	return func(cfg *runConfig) { cfg.clock = c }
}

// WithLogger routes interceptor diagnostics to logger. Runs are silent by
// default.
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) { c.logger = logger }
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Validate the scenario
//  2. Build a fresh Interceptor with a recording observer
//  3. Instantiate the declared handlers
//  4. Execute steps, checking expectations
//  5. Round-trip the trace through an in-memory store
//  6. Evaluate assertions
//
// A returned error means the scenario could not run at all; failed
// expectations and assertions are reported in Result.Errors.
func Run(scenario *Scenario, opts ...RunOption) (*Result, error) {
	cfg := runConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	session := scenario.Session
	if session == "" {
		if cfg.sessions == nil {
			cfg.sessions = testutil.NewFixedSessionGenerator("")
		}
		session = cfg.sessions.Generate()
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ic, rec := testutil.NewRecordingInterceptor(session, cfg.clock, intercept.WithLogger(cfg.logger))
	h := &Harness{
		ic:       ic,
		rec:      rec,
		store:    st,
		handlers: make(map[string]*handlerInstance),
		bindings: make(map[string]value.Value),
		logger:   cfg.logger,
	}
	h.declare(scenario.Handlers)

	result := NewResult(session)
	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}
	result.Depth = ic.Depth()
	result.Live = ic.Len()

	ctx := context.Background()
	if err := rec.Flush(ctx, st); err != nil {
		return nil, err
	}
	stored, err := st.ReadSession(ctx, session)
	if err != nil {
		return nil, err
	}
	result.Trace = stored

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) declare(decls []HandlerDecl) {
	for _, d := range decls {
		inst := &handlerInstance{decl: d}
		switch d.Kind {
		case KindSymbolic:
			inst.family = symbolic.NewFamily(h.ic, d.Name)
			inst.key = inst.family.Key()
		case KindInstrument:
			inst.meter = instrument.NewMeter(h.ic, d.Name)
			inst.key = inst.meter.Key()
		case KindInert:
			inst.handler = &struct{ name string }{d.Name}
			inst.key = intercept.NewKey(d.Name)
		case KindTag:
			inst.handler = tagHandler(d.Name)
			inst.key = intercept.NewKey(d.Name)
		}
		h.handlers[d.Name] = inst
		h.order = append(h.order, d.Name)
	}
}

// tagHandler answers every site with "<name>.<route> <operator>".
func tagHandler(name string) *intercept.Funcs {
	tag := func(route string, o op.Operator) value.Value {
		return value.String(name + "." + route + " " + string(o))
	}
	return &intercept.Funcs{
		UnaryFunc: func(_ value.Value, o op.Operator, _ value.Value) (value.Value, error) {
			return tag("unary", o), nil
		},
		LeftFunc: func(_ value.Value, o op.Operator, _ value.Value) (value.Value, error) {
			return tag("left", o), nil
		},
		RightFunc: func(_ value.Value, o op.Operator, _ value.Value) (value.Value, error) {
			return tag("right", o), nil
		},
		AssignFunc: func(_, _, _ value.Value, _ intercept.Thunk) (value.Value, error) {
			return tag("assign", op.Assign), nil
		},
		BranchFunc: func(_, _ value.Value, _, _ intercept.Thunk) (value.Value, error) {
			return tag("branch", op.Conditional), nil
		},
	}
}

func (h *Harness) executeStep(index int, step Step, result *Result) {
	got, err := h.execute(step)

	sr := StepResult{Index: index, Op: step.Op, Value: value.Inspect(got)}
	if err == nil {
		sr.Render = h.render(got)
	} else {
		sr.Error = err.Error()
	}
	result.Steps = append(result.Steps, sr)

	prefix := fmt.Sprintf("steps[%d] %s", index, step.Op)
	switch {
	case step.ExpectError != "":
		if err == nil {
			result.AddError(fmt.Sprintf("%s: expected error %s, got %s", prefix, step.ExpectError, value.Inspect(got)))
		} else if code := errorCode(err); code != step.ExpectError {
			result.AddError(fmt.Sprintf("%s: expected error %s, got %v", prefix, step.ExpectError, err))
		}
		return
	case err != nil:
		result.AddError(fmt.Sprintf("%s: %v", prefix, err))
		return
	}

	if step.As != "" {
		h.bindings[step.As] = got
	}
	if step.Expect != nil {
		ok, err := h.matches(step.Expect, got)
		if err != nil {
			result.AddError(fmt.Sprintf("%s: expect: %v", prefix, err))
		} else if !ok {
			result.AddError(fmt.Sprintf("%s: expected %v, got %s", prefix, step.Expect, value.Inspect(got)))
		}
	}
	if step.ExpectRender != "" && sr.Render != step.ExpectRender {
		result.AddError(fmt.Sprintf("%s: expected render %q, got %q", prefix, step.ExpectRender, sr.Render))
	}
}

func (h *Harness) execute(step Step) (value.Value, error) {
	switch step.Op {
	case OpWrap:
		return h.wrap(step)
	case OpUnary:
		args, err := h.resolveAll(step.Args)
		if err != nil {
			return value.Undefined, err
		}
		return h.ic.Unary(op.Operator(step.Operator), args[0])
	case OpBinary:
		args, err := h.resolveAll(step.Args)
		if err != nil {
			return value.Undefined, err
		}
		return h.ic.Binary(op.Operator(step.Operator), args[0], args[1])
	case OpAssign:
		args, err := h.resolveAll(step.Args)
		if err != nil {
			return value.Undefined, err
		}
		return h.ic.Assign(args[0], args[1], args[2], nativeAssign(args[0], args[1], args[2]))
	case OpBranch:
		return h.branch(step)
	case OpPop:
		v, _ := h.ic.PopContext()
		return v, nil
	case OpPeek:
		v, _ := h.ic.PeekContext()
		return v, nil
	}

	v, err := h.resolve(step.Value)
	if err != nil {
		return value.Undefined, err
	}
	switch step.Op {
	case OpPush:
		return value.Bool(h.ic.PushContext(v)), nil
	case OpUnwrap:
		return value.Bool(h.ic.Unwrap(v, h.key(step.Key)) != nil), nil
	case OpTarget:
		target, _ := h.ic.UnwrapTarget(v, h.key(step.Key))
		return value.Unbox(target), nil
	case OpRelease:
		return value.Bool(h.ic.Release(v)), nil
	case OpIsWrapped:
		return value.Bool(h.ic.IsWrapped(v)), nil
	case OpIsBranchable:
		return value.Bool(h.ic.IsBranchable(v)), nil
	}
	return value.Undefined, fmt.Errorf("unknown op %q", step.Op)
}

func (h *Harness) wrap(step Step) (value.Value, error) {
	inst := h.handlers[step.Handler]
	if inst == nil {
		return value.Undefined, fmt.Errorf("unknown handler %q", step.Handler)
	}
	if step.Var != "" {
		return inst.family.Var(step.Var), nil
	}
	v, err := h.resolve(step.Value)
	if err != nil {
		return value.Undefined, err
	}
	switch {
	case inst.family != nil:
		return inst.family.Lift(symbolic.Const{Value: v}), nil
	case inst.meter != nil:
		return inst.meter.Wrap(v), nil
	default:
		return h.ic.Wrap(v, inst.handler, inst.key), nil
	}
}

func (h *Harness) branch(step Step) (value.Value, error) {
	args, err := h.resolveAll(step.Args)
	if err != nil {
		return value.Undefined, err
	}
	test := value.Undefined
	if len(args) > 1 {
		test = args[1]
	}
	return h.ic.Branch(args[0], test, h.thunk(step.Then), h.thunk(step.Else))
}

func (h *Harness) thunk(lit any) intercept.Thunk {
	return func() (value.Value, error) {
		if lit == nil {
			return value.Undefined, nil
		}
		return h.resolve(lit)
	}
}

// key maps a step's key name to the key presented to the interceptor.
func (h *Harness) key(name string) any {
	if name == "none" {
		return nil
	}
	if inst, ok := h.handlers[name]; ok {
		return inst.key
	}
	return intercept.NewKey(name)
}

// render shows v through the first handler family that owns it.
func (h *Harness) render(v value.Value) string {
	for _, name := range h.order {
		inst := h.handlers[name]
		switch {
		case inst.family != nil:
			if e, ok := inst.family.Expr(v); ok {
				return e.String()
			}
		case inst.meter != nil:
			if _, ok := h.ic.UnwrapTarget(v, inst.meter.Key()); ok {
				return value.Inspect(inst.meter.Value(v))
			}
		}
	}
	return value.Inspect(v)
}

// nativeAssign is the host assignment: ctx[left] = right on plain objects.
func nativeAssign(ctx, left, right value.Value) intercept.Thunk {
	return func() (value.Value, error) {
		if obj := ctx.AsObject(); obj != nil {
			obj.Set(value.ToString(left), right)
		}
		return right, nil
	}
}

// errorCode extracts the code of a dispatch or native error.
func errorCode(err error) string {
	var de *intercept.DispatchError
	if errors.As(err, &de) {
		return string(de.Code)
	}
	var ne *native.Error
	if errors.As(err, &ne) {
		return string(ne.Code)
	}
	return err.Error()
}
