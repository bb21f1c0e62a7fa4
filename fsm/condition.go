package fsm

import (
	"errors"
	"fmt"
	"math"
)

// DefaultEpsilon is the tolerance used by OpEqual unless a condition is built
// with CompareEps.
const DefaultEpsilon = 1e-6

// Kind tags the variant held by a Condition.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindThreshold
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindThreshold:
		return "threshold"
	case KindAny:
		return "any"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Op is a numeric comparison.
type Op uint8

const (
	OpLess Op = iota + 1
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpEqual
)

var opNames = map[Op]string{
	OpLess:           "<",
	OpLessOrEqual:    "<=",
	OpGreater:        ">",
	OpGreaterOrEqual: ">=",
	OpEqual:          "==",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// ParseOp accepts the symbolic names used in FSM definitions.
func ParseOp(s string) (Op, error) {
	switch s {
	case "<", "lt":
		return OpLess, nil
	case "<=", "le":
		return OpLessOrEqual, nil
	case ">", "gt":
		return OpGreater, nil
	case ">=", "ge":
		return OpGreaterOrEqual, nil
	case "==", "=", "~", "eq":
		return OpEqual, nil
	default:
		return 0, fmt.Errorf("fsm: unknown comparison %q", s)
	}
}

// Condition is a closed tagged variant: a boolean probe check, a numeric
// threshold check, or an OR over child conditions. Eval dispatches on Kind.
type Condition[C any] struct {
	Kind Kind

	// KindBool
	Probe    func(ctx C) bool
	Expected bool

	// KindThreshold. The probe is expected to return a squared quantity and is
	// compared against Threshold*Threshold.
	Scalar    func(ctx C) float64
	Op        Op
	Threshold float64
	Epsilon   float64

	// KindAny
	Any []Condition[C]
}

// Is fires when probe returns expected.
func Is[C any](probe func(ctx C) bool, expected bool) Condition[C] {
	return Condition[C]{Kind: KindBool, Probe: probe, Expected: expected}
}

// Compare fires when the squared probe value compares to threshold² by op.
func Compare[C any](probe func(ctx C) float64, op Op, threshold float64) Condition[C] {
	return CompareEps(probe, op, threshold, DefaultEpsilon)
}

func CompareEps[C any](probe func(ctx C) float64, op Op, threshold, eps float64) Condition[C] {
	return Condition[C]{Kind: KindThreshold, Scalar: probe, Op: op, Threshold: threshold, Epsilon: eps}
}

// AnyOf fires when any child fires, evaluating children in order.
func AnyOf[C any](children ...Condition[C]) Condition[C] {
	return Condition[C]{Kind: KindAny, Any: children}
}

// Eval evaluates the condition against ctx.
func (c Condition[C]) Eval(ctx C) bool {
	switch c.Kind {
	case KindBool:
		return c.Probe(ctx) == c.Expected
	case KindThreshold:
		value := c.Scalar(ctx)
		thresholdSq := c.Threshold * c.Threshold
		switch c.Op {
		case OpLess:
			return value < thresholdSq
		case OpLessOrEqual:
			return value <= thresholdSq
		case OpGreater:
			return value > thresholdSq
		case OpGreaterOrEqual:
			return value >= thresholdSq
		case OpEqual:
			return math.Abs(value-thresholdSq) < c.Epsilon
		}
		return false
	case KindAny:
		for _, child := range c.Any {
			if child.Eval(ctx) {
				return true
			}
		}
		return false
	}
	return false
}

// Validate reports a condition that could never be evaluated.
func (c Condition[C]) Validate() error {
	switch c.Kind {
	case KindBool:
		if c.Probe == nil {
			return errors.New("bool condition without probe")
		}
	case KindThreshold:
		if c.Scalar == nil {
			return errors.New("threshold condition without probe")
		}
		if _, ok := opNames[c.Op]; !ok {
			return fmt.Errorf("threshold condition with %v", c.Op)
		}
		if c.Op == OpEqual && c.Epsilon <= 0 {
			return errors.New("approximate comparison needs a positive epsilon")
		}
	case KindAny:
		for i, child := range c.Any {
			if err := child.Validate(); err != nil {
				return fmt.Errorf("any[%d]: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown condition %v", c.Kind)
	}
	return nil
}
