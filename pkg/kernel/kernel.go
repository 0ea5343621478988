// Package kernel is the synchronous facade over the governance pipeline:
// classify intent, evaluate the decision policy, check action
// eligibility, run the autonomy gate, and (behind it) the controlled
// executor. One call per perception tick; the kernel holds no session
// state between calls.
package kernel

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jeantrail/kernel/pkg/action"
	"github.com/jeantrail/kernel/pkg/autonomy"
	"github.com/jeantrail/kernel/pkg/contracts"
	"github.com/jeantrail/kernel/pkg/decision"
	"github.com/jeantrail/kernel/pkg/executor"
	"github.com/jeantrail/kernel/pkg/intent"
	"github.com/jeantrail/kernel/pkg/observability"
	"github.com/jeantrail/kernel/pkg/policy"
	"github.com/jeantrail/kernel/pkg/store"
)

// Kernel wires the pipeline stages with the ambient collaborators:
// telemetry, receipt persistence, and post-run guard checks. All three
// are optional; a zero-configured kernel still runs the full pipeline.
type Kernel struct {
	obs      *observability.Provider
	receipts store.ReceiptStore
	guards   []policy.Guard
	guardEv  *policy.GuardEvaluator
	logger   *slog.Logger
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithObservability attaches the OTel provider; each run gets a span and
// RED metrics.
func WithObservability(p *observability.Provider) Option {
	return func(k *Kernel) { k.obs = p }
}

// WithReceiptStore persists a receipt for every run.
func WithReceiptStore(s store.ReceiptStore) Option {
	return func(k *Kernel) { k.receipts = s }
}

// WithGuards evaluates the given guard expressions after every run and
// logs violations. Guard failures never change the run's outcome.
func WithGuards(ev *policy.GuardEvaluator, guards []policy.Guard) Option {
	return func(k *Kernel) {
		k.guardEv = ev
		k.guards = guards
	}
}

// New builds a kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{logger: slog.Default().With("component", "kernel")}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Run executes one governance tick. It never returns an error: every
// input, however malformed, maps to a defined output, and refusals are
// values. The context bounds only the ambient work (tracing, receipt
// persistence).
func (k *Kernel) Run(ctx context.Context, in contracts.KernelInput) contracts.KernelOutput {
	var done func(error)
	if k.obs != nil {
		ctx, done = k.obs.TrackOperation(ctx, "kernel.run",
			attribute.String("presence", string(in.Signals.Presence)),
			attribute.String("autonomy_mode", string(in.AutonomyMode)),
		)
		defer func() { done(nil) }()
	}

	classified := intent.Classify(in.Signals)
	decided := decision.Evaluate(decision.Input{
		Intent:        string(classified),
		ThoughtsCount: in.ThoughtsCount,
		AvgConfidence: in.AvgConfidence,
		Presence:      in.Signals.Presence,
	})
	eligible := action.Eligibility(in.Action, decided, in.Signals.Presence)
	result := autonomy.Execute(in.Action, decided, eligible, in.AutonomyMode,
		in.ExecutionCount, in.ExecutionLimit)

	out := contracts.KernelOutput{
		Intent:          classified,
		Decision:        decided,
		Eligibility:     eligible,
		ExecutionResult: result,
	}

	if k.obs != nil {
		span := trace.SpanFromContext(ctx)
		span.SetAttributes(
			attribute.String("intent", string(classified)),
			attribute.String("decision", string(decided)),
			attribute.String("eligibility", string(eligible)),
			attribute.String("execution_result", string(result)),
		)
	}

	if k.receipts != nil {
		receipt := executor.NewReceipt(contracts.ReceiptModeSymbolic, receiptStatus(result), executor.ReceiptOptions{
			Action: in.Action,
			Report: string(result),
			Metadata: map[string]any{
				"intent":   string(classified),
				"decision": string(decided),
			},
		})
		if err := k.receipts.Store(ctx, &receipt); err != nil {
			k.logger.WarnContext(ctx, "receipt persistence failed", "error", err)
		}
	}

	if k.guardEv != nil && len(k.guards) > 0 {
		for _, v := range k.guardEv.Check(k.guards, in, out) {
			k.logger.ErrorContext(ctx, "guard violated",
				"guard", v.Guard, "reason", v.Reason)
		}
	}

	return out
}

func receiptStatus(result contracts.AutonomyResult) contracts.ReceiptStatus {
	switch result {
	case contracts.ResultExecuted:
		return contracts.ReceiptStatusSuccess
	case contracts.ResultAutonomyDisabled:
		return contracts.ReceiptStatusSkipped
	default:
		return contracts.ReceiptStatusBlocked
	}
}
