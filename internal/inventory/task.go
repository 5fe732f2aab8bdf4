package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25/methods"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"

	"github.com/arielsanchezmora/vdoc/internal/config"
)

// PatchScanResult is the flattened outcome of a host patch scan.
type PatchScanResult struct {
	Status  string
	Message string
}

const (
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
	ScanStatusTimedOut  = "timed out"
)

// ScanHostPatches starts a patch scan task on the named host and polls it
// until it finishes or the configured deadline elapses. A deadline is
// mandatory here: a scan task that never completes must not hang the run.
func (c *Client) ScanHostPatches(ctx context.Context, name string) (*PatchScanResult, error) {
	host, err := c.HostProperties(ctx, name, []string{"configManager.patchManager"})
	if err != nil {
		return nil, err
	}
	pm := host.ConfigManager.PatchManager
	if pm == nil {
		return nil, fmt.Errorf("host %q has no patch manager", name)
	}

	res, err := methods.ScanHostPatchV2_Task(ctx, c.vim, &types.ScanHostPatchV2_Task{This: *pm})
	if err != nil {
		return nil, fmt.Errorf("starting patch scan on %q: %w", name, err)
	}
	taskRef := res.Returnval

	pollInterval := c.taskPollInterval.Duration
	if pollInterval <= 0 {
		pollInterval = config.DefaultTaskPollInterval
	}
	timeout := c.taskTimeout.Duration
	if timeout <= 0 {
		timeout = config.DefaultTaskTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pc := property.DefaultCollector(c.vim)
	info, err := pollTask(ctx, pollInterval, func(ctx context.Context) (*types.TaskInfo, error) {
		var task mo.Task
		if err := pc.RetrieveOne(ctx, taskRef, []string{"info"}, &task); err != nil {
			return nil, err
		}
		return &task.Info, nil
	})
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		zap.S().Named("inventory").Warnf("patch scan on %s did not finish within %s", name, timeout)
		return &PatchScanResult{Status: ScanStatusTimedOut, Message: fmt.Sprintf("scan exceeded %s", timeout)}, nil
	case err != nil:
		return nil, err
	}

	switch info.State {
	case types.TaskInfoStateSuccess:
		return &PatchScanResult{Status: ScanStatusCompleted}, nil
	case types.TaskInfoStateError:
		msg := "scan task failed"
		if info.Error != nil {
			msg = info.Error.LocalizedMessage
		}
		return &PatchScanResult{Status: ScanStatusFailed, Message: msg}, nil
	}
	return &PatchScanResult{Status: string(info.State)}, nil
}

// pollTask reads task info on a jittered interval until the task leaves the
// running states or the context expires.
func pollTask(ctx context.Context, interval time.Duration, read func(context.Context) (*types.TaskInfo, error)) (*types.TaskInfo, error) {
	ticker := jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / 10})
	defer ticker.Stop()

	for {
		info, err := read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		if info.State == types.TaskInfoStateSuccess || info.State == types.TaskInfoStateError {
			return info, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
