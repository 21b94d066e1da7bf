// Package workflows holds the Temporal workflows and activities that audit
// the commodity registry and archive its snapshots.
package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/domain/registry"
)

// AuditWorkflowID is the fixed id of the scheduled audit.
const AuditWorkflowID = "commodity-audit"

// ErrSnapshotsDisabled is returned by ExportSnapshot when no object store is configured.
var ErrSnapshotsDisabled = errors.New("snapshot export is not configured")

// RegistryReader is the read side of the registry the activities need.
type RegistryReader interface {
	Audit(ctx context.Context) (*registry.AuditReport, error)
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

// SnapshotWriter stores exported snapshots.
type SnapshotWriter interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// AuditParams configures one audit run.
type AuditParams struct {
	ExportSnapshot bool `json:"export_snapshot"`
}

// AuditResult summarizes one audit run.
type AuditResult struct {
	Items       int    `json:"items"`
	Accounts    int    `json:"accounts"`
	Total       uint32 `json:"total"`
	Violations  int    `json:"violations"`
	SnapshotKey string `json:"snapshot_key,omitempty"`
}

// AuditWorkflow checks the registry invariants and optionally archives a
// snapshot. Violations do not fail the workflow; they are reported in the result.
func AuditWorkflow(ctx workflow.Context, params AuditParams) (*AuditResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{"SnapshotsDisabled"},
		},
	})
	log := workflow.GetLogger(ctx)

	var acts *Activities
	var report registry.AuditReport
	if err := workflow.ExecuteActivity(ctx, acts.AuditRegistry).Get(ctx, &report); err != nil {
		return nil, fmt.Errorf("audit registry: %w", err)
	}

	result := &AuditResult{
		Items:      report.Items,
		Accounts:   report.Accounts,
		Total:      report.Total,
		Violations: len(report.Violations),
	}
	if !report.Healthy() {
		log.Warn("registry audit found violations", "violations", result.Violations)
	}

	if params.ExportSnapshot {
		if err := workflow.ExecuteActivity(ctx, acts.ExportSnapshot).Get(ctx, &result.SnapshotKey); err != nil {
			return nil, fmt.Errorf("export snapshot: %w", err)
		}
	}

	log.Info("registry audit complete", "items", result.Items, "total", result.Total, "violations", result.Violations)
	return result, nil
}

// Activities implements the audit activities. Blob may be nil.
type Activities struct {
	Registry RegistryReader
	Blob     SnapshotWriter
	Clock    func() time.Time
}

// AuditRegistry runs the invariant check.
func (a *Activities) AuditRegistry(ctx context.Context) (*registry.AuditReport, error) {
	return a.Registry.Audit(ctx)
}

// ExportSnapshot writes a JSON snapshot of the registry and returns its key.
func (a *Activities) ExportSnapshot(ctx context.Context) (string, error) {
	if a.Blob == nil {
		return "", temporal.NewNonRetryableApplicationError(ErrSnapshotsDisabled.Error(), "SnapshotsDisabled", ErrSnapshotsDisabled)
	}

	snap, err := a.Registry.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := SnapshotKey(a.now())
	if err := a.Blob.Put(ctx, key, body, "application/json"); err != nil {
		return "", err
	}
	if activity.IsActivity(ctx) {
		activity.GetLogger(ctx).Info("registry snapshot exported", "key", key, "bytes", len(body))
	}
	return key, nil
}

func (a *Activities) now() time.Time {
	if a.Clock != nil {
		return a.Clock()
	}
	return time.Now()
}

// SnapshotKey names the object a snapshot taken at t is stored under.
func SnapshotKey(t time.Time) string {
	return "snapshots/" + t.UTC().Format("20060102T150405Z") + ".json"
}

// Register adds the audit workflow and activities to w.
func Register(w worker.Registry, acts *Activities) {
	w.RegisterWorkflow(AuditWorkflow)
	w.RegisterActivity(acts)
}
