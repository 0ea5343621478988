package executor

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jeantrail/kernel/pkg/contracts"
)

// receiptSeq guarantees per-process monotonic uniqueness even if two
// receipts are minted in the same UUID generation window.
var receiptSeq atomic.Uint64

// ReceiptOptions carries the optional fields of a receipt.
type ReceiptOptions struct {
	Action     contracts.Action
	ToolID     string
	Reversible bool
	Report     string
	Metadata   map[string]any
}

// NewReceipt mints an immutable execution record. Callers must treat the
// returned value as append-only evidence: corrections are new receipts.
func NewReceipt(mode contracts.ReceiptMode, status contracts.ReceiptStatus, opts ReceiptOptions) contracts.ExecutionReceipt {
	seq := receiptSeq.Add(1)
	return contracts.ExecutionReceipt{
		ID:         fmt.Sprintf("rcpt-%s-%d", uuid.New().String(), seq),
		Timestamp:  time.Now().UTC(),
		Mode:       mode,
		Status:     status,
		Action:     opts.Action,
		ToolID:     opts.ToolID,
		Reversible: opts.Reversible,
		Report:     opts.Report,
		Metadata:   opts.Metadata,
	}
}

// ExecuteWithReceipt runs the controlled executor and mints the matching
// receipt in one step, so every refusal leaves evidence.
func ExecuteWithReceipt(
	action contracts.Action,
	decision contracts.Decision,
	eligibility contracts.Eligibility,
	mode contracts.ReceiptMode,
) (contracts.ExecutionResult, contracts.ExecutionReceipt) {
	result := Execute(action, decision, eligibility, mode)
	status := contracts.ReceiptStatusBlocked
	if result == contracts.ExecutionExecuted {
		status = contracts.ReceiptStatusSuccess
	}
	return result, NewReceipt(contracts.ReceiptModeSymbolic, status, ReceiptOptions{
		Action:     action,
		Reversible: false,
	})
}
