package contracts

import "time"

// ReceiptMode distinguishes symbolic (no real-world effect) execution from
// real effector execution.
type ReceiptMode string

const (
	ReceiptModeSymbolic ReceiptMode = "symbolic"
	ReceiptModeReal     ReceiptMode = "real"
)

// ReceiptStatus is the recorded outcome of an execution attempt.
type ReceiptStatus string

const (
	ReceiptStatusSuccess ReceiptStatus = "success"
	ReceiptStatusSkipped ReceiptStatus = "skipped"
	ReceiptStatusBlocked ReceiptStatus = "blocked"
	ReceiptStatusError   ReceiptStatus = "error"
)

// ExecutionReceipt is an immutable record of an attempted execution's
// outcome. IDs are monotonically unique per process; a receipt is never
// mutated after creation; correction means appending a new receipt.
type ExecutionReceipt struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Mode       ReceiptMode    `json:"mode"`
	Status     ReceiptStatus  `json:"status"`
	Action     Action         `json:"action,omitempty"`
	ToolID     string         `json:"tool_id,omitempty"`
	Reversible bool           `json:"reversible"`
	Report     string         `json:"report,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// KernelInput is the facade call payload: one perception tick plus the
// session-owned aggregates the kernel itself does not persist.
type KernelInput struct {
	Signals        Signals      `json:"signals"`
	ThoughtsCount  int          `json:"thoughtsCount"`
	AvgConfidence  float64      `json:"avgConfidence"`
	Action         Action       `json:"action"`
	AutonomyMode   AutonomyMode `json:"autonomyMode"`
	ExecutionCount int          `json:"executionCount"`
	ExecutionLimit int          `json:"executionLimit"`
}

// KernelOutput is the facade result for one tick.
type KernelOutput struct {
	Intent          Intent         `json:"intent"`
	Decision        Decision       `json:"decision"`
	Eligibility     Eligibility    `json:"eligibility"`
	ExecutionResult AutonomyResult `json:"executionResult"`
}
