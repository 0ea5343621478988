// Package policy evaluates operator-defined guard expressions over kernel
// runs. Guards are CEL expressions that must hold after every run; a guard
// that fails to compile, fails to evaluate, or returns a non-bool counts
// as violated. Failing closed here means a broken guard surfaces as an
// alert instead of silently passing.
package policy

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/jeantrail/kernel/pkg/contracts"
)

// Guard is a named invariant over a kernel run. Expr must evaluate to a
// bool: true means the run is acceptable.
type Guard struct {
	Name string
	Expr string
}

// Violation reports one guard that did not hold for a run.
type Violation struct {
	Guard  string
	Reason string
}

// GuardEvaluator compiles guard expressions once and caches the programs.
// Safe for concurrent use.
type GuardEvaluator struct {
	env   *cel.Env
	mu    sync.RWMutex
	cache map[string]cel.Program
}

// NewGuardEvaluator builds the CEL environment guards run in. Expressions
// see the run as two dynamic maps, input and output, plus a timestamp.
func NewGuardEvaluator() (*GuardEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("input", cel.DynType),
		cel.Variable("output", cel.DynType),
		cel.Variable("timestamp", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("guard environment: %w", err)
	}
	return &GuardEvaluator{
		env:   env,
		cache: make(map[string]cel.Program),
	}, nil
}

// Check evaluates every guard against one kernel run and returns the
// violations. An empty slice means all guards held.
func (e *GuardEvaluator) Check(guards []Guard, in contracts.KernelInput, out contracts.KernelOutput) []Violation {
	activation := map[string]any{
		"timestamp": time.Now().Unix(),
		"input": map[string]any{
			"presence":           string(in.Signals.Presence),
			"audio_energy_level": in.Signals.AudioEnergyLevel,
			"silence_ms":         in.Signals.SilenceDurationMs,
			"spike_hz":           in.Signals.SpikeFrequencyHz,
			"thoughts_count":     in.ThoughtsCount,
			"avg_confidence":     in.AvgConfidence,
			"action":             string(in.Action),
			"autonomy_mode":      string(in.AutonomyMode),
			"execution_count":    in.ExecutionCount,
			"execution_limit":    in.ExecutionLimit,
		},
		"output": map[string]any{
			"intent":      string(out.Intent),
			"decision":    string(out.Decision),
			"eligibility": string(out.Eligibility),
			"execution":   string(out.ExecutionResult),
		},
	}

	var violations []Violation
	for _, g := range guards {
		ok, err := e.evaluate(g.Expr, activation)
		if err != nil {
			violations = append(violations, Violation{Guard: g.Name, Reason: err.Error()})
			continue
		}
		if !ok {
			violations = append(violations, Violation{Guard: g.Name, Reason: "guard expression returned false"})
		}
	}
	return violations
}

func (e *GuardEvaluator) evaluate(expr string, activation map[string]any) (bool, error) {
	e.mu.RLock()
	prg, hit := e.cache[expr]
	e.mu.RUnlock()

	if !hit {
		e.mu.Lock()
		if prg, hit = e.cache[expr]; !hit {
			ast, issues := e.env.Compile(expr)
			if issues != nil && issues.Err() != nil {
				e.mu.Unlock()
				return false, fmt.Errorf("compile: %w", issues.Err())
			}
			p, err := e.env.Program(ast,
				cel.InterruptCheckFrequency(100),
				cel.CostLimit(10000),
			)
			if err != nil {
				e.mu.Unlock()
				return false, fmt.Errorf("program: %w", err)
			}
			e.cache[expr] = p
			prg = p
		}
		e.mu.Unlock()
	}

	out, _, err := prg.Eval(activation)
	if err != nil {
		return false, fmt.Errorf("eval: %w", err)
	}
	val, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("guard result is %T, want bool", out.Value())
	}
	return val, nil
}

// DefaultGuards are the invariants every deployment checks: nothing
// executes for real through the symbolic layer, budget exhaustion is
// always surfaced, and a hold decision never lets speech through.
func DefaultGuards() []Guard {
	return []Guard{
		{
			Name: "no_real_execution",
			Expr: `output.execution != "executed"`,
		},
		{
			Name: "budget_exhaustion_reported",
			Expr: `input.execution_count < input.execution_limit || output.execution != "executed"`,
		},
		{
			Name: "hold_never_speaks",
			Expr: `output.decision != "hold" || input.action != "speak" || output.eligibility == "denied"`,
		},
	}
}
