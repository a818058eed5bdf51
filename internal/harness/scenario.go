package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/vvalues/internal/op"
)

// Scenario is an interception test: a set of handlers, a sequence of
// steps over them, and assertions about the resulting trace.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Session is an optional fixed session ID. Empty means the run's
	// session generator decides.
	Session string `yaml:"session,omitempty"`

	// Handlers declares the handler instances steps may wrap with.
	Handlers []HandlerDecl `yaml:"handlers,omitempty"`

	// Steps run in order on one Interceptor.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and engine state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// HandlerDecl declares one handler instance. Each instance has its own
// unwrap key.
type HandlerDecl struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// Handler kinds.
const (
	KindSymbolic   = "symbolic"
	KindInstrument = "instrument"
	KindInert      = "inert"
	KindTag        = "tag"
)

// Step is one engine operation.
type Step struct {
	// Op selects the operation (see the Op* constants).
	Op string `yaml:"op"`

	// Operator is the operator symbol for unary and binary steps.
	Operator string `yaml:"operator,omitempty"`

	// Handler names the declared handler a wrap step uses.
	Handler string `yaml:"handler,omitempty"`

	// Key is the key presented by unwrap and target steps: a handler name,
	// "none" for a nil key, anything else for a key nobody holds.
	Key string `yaml:"key,omitempty"`

	// Value is the single operand of wrap, push, unwrap, target, release,
	// is_wrapped and is_branchable.
	Value any `yaml:"value,omitempty"`

	// Var makes a symbolic wrap produce a variable instead of a constant.
	Var string `yaml:"var,omitempty"`

	// Args are the operands of unary, binary, assign and branch steps.
	// Branch takes the condition and an optional test value.
	Args []any `yaml:"args,omitempty"`

	// Then and Else are what the branch thunks return.
	Then any `yaml:"then,omitempty"`
	Else any `yaml:"else,omitempty"`

	// As binds the step's result for later "$name" references.
	As string `yaml:"as,omitempty"`

	// Expect is compared with the step result.
	Expect any `yaml:"expect,omitempty"`

	// ExpectRender is compared with the result rendered through its
	// handler family.
	ExpectRender string `yaml:"expect_render,omitempty"`

	// ExpectError is the error code the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step operations.
const (
	OpWrap         = "wrap"
	OpUnary        = "unary"
	OpBinary       = "binary"
	OpAssign       = "assign"
	OpBranch       = "branch"
	OpPush         = "push"
	OpPop          = "pop"
	OpPeek         = "peek"
	OpUnwrap       = "unwrap"
	OpTarget       = "target"
	OpRelease      = "release"
	OpIsWrapped    = "is_wrapped"
	OpIsBranchable = "is_branchable"
)

// Assertion validates the trace or final engine state.
type Assertion struct {
	// Type specifies the assertion type (see the Assert* constants).
	Type string `yaml:"type"`

	// Site, Operator and Route select events. Empty fields match anything.
	Site     string `yaml:"site,omitempty"`
	Operator string `yaml:"operator,omitempty"`
	Route    string `yaml:"route,omitempty"`

	// Count is the expected number for trace_count, context_depth and
	// live_wrappers.
	Count int `yaml:"count"`

	// Operators is the expected first-occurrence order for trace_order.
	Operators []string `yaml:"operators,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
	AssertTraceOrder    = "trace_order"
	AssertContextDepth  = "context_depth"
	AssertLiveWrappers  = "live_wrappers"
)

// LoadScenario reads, schema-checks and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, violates the
// schema, contains unknown fields (typos), or references undeclared
// handlers or unbound names.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario is LoadScenario for in-memory YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks what the schema cannot: handler references,
// name binding order and operator spelling.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	handlers := make(map[string]string, len(s.Handlers))
	for i, h := range s.Handlers {
		if _, dup := handlers[h.Name]; dup {
			return fmt.Errorf("handlers[%d]: duplicate handler %q", i, h.Name)
		}
		switch h.Kind {
		case KindSymbolic, KindInstrument, KindInert, KindTag:
		default:
			return fmt.Errorf("handlers[%d]: unknown kind %q", i, h.Kind)
		}
		handlers[h.Name] = h.Kind
	}

	bound := make(map[string]bool)
	for i, step := range s.Steps {
		if err := validateStep(i, step, handlers, bound); err != nil {
			return err
		}
		if step.As != "" {
			bound[step.As] = true
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step, handlers map[string]string, bound map[string]bool) error {
	switch step.Op {
	case OpWrap:
		kind, ok := handlers[step.Handler]
		if !ok {
			return fmt.Errorf("steps[%d]: unknown handler %q", index, step.Handler)
		}
		if step.Var != "" && kind != KindSymbolic {
			return fmt.Errorf("steps[%d]: var is only valid for symbolic handlers", index)
		}
	case OpUnary:
		if len(step.Args) != 1 {
			return fmt.Errorf("steps[%d]: unary takes 1 arg, got %d", index, len(step.Args))
		}
	case OpBinary:
		if len(step.Args) != 2 {
			return fmt.Errorf("steps[%d]: binary takes 2 args, got %d", index, len(step.Args))
		}
		if op.IsUnary(op.Operator(step.Operator)) && !op.IsBinary(op.Operator(step.Operator)) {
			return fmt.Errorf("steps[%d]: %q is a unary operator", index, step.Operator)
		}
	case OpAssign:
		if len(step.Args) != 3 {
			return fmt.Errorf("steps[%d]: assign takes ctx, left and right, got %d args", index, len(step.Args))
		}
	case OpBranch:
		if len(step.Args) < 1 || len(step.Args) > 2 {
			return fmt.Errorf("steps[%d]: branch takes a condition and an optional test", index)
		}
	case OpUnwrap, OpTarget:
		if step.Key == "" {
			return fmt.Errorf("steps[%d]: %s requires key", index, step.Op)
		}
	case OpPush, OpPop, OpPeek, OpRelease, OpIsWrapped, OpIsBranchable:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	refs := append([]any{step.Value, step.Then, step.Else, step.Expect}, step.Args...)
	for _, r := range refs {
		if name, ok := refName(r); ok && !bound[name] {
			return fmt.Errorf("steps[%d]: %q is not bound by an earlier step", index, "$"+name)
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Site == "" && a.Operator == "" && a.Route == "" {
			return fmt.Errorf("assertions[%d]: trace_contains needs site, operator or route", index)
		}
	case AssertTraceCount, AssertContextDepth, AssertLiveWrappers:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertTraceOrder:
		if len(a.Operators) == 0 {
			return fmt.Errorf("assertions[%d]: operators list is required for trace_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// refName reports whether v is a "$name" reference.
func refName(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "$") || len(s) < 2 {
		return "", false
	}
	return s[1:], true
}
