// Package activity runs operation builders inside Temporal activities.
// It maps classified operation failures onto Temporal application errors and
// provides logging helpers that work both inside and outside an activity.
package activity

import (
	"context"

	"go.temporal.io/sdk/activity"
)

// ExecutionContext identifies the Temporal activity an operation runs in.
// Outside an activity every field is empty.
type ExecutionContext struct {
	WorkflowID   string
	RunID        string
	ActivityID   string
	ActivityType string
}

// InActivity reports whether the context belonged to a running activity.
func (e ExecutionContext) InActivity() bool { return e.ActivityID != "" }

// GetExecutionContext safely extracts activity metadata from ctx.
// activity.GetInfo panics outside an activity, which is recovered here.
func GetExecutionContext(ctx context.Context) ExecutionContext {
	var ec ExecutionContext

	func() {
		defer func() {
			if recover() != nil {
				ec = ExecutionContext{}
			}
		}()

		info := activity.GetInfo(ctx)
		ec.WorkflowID = info.WorkflowExecution.ID
		ec.RunID = info.WorkflowExecution.RunID
		ec.ActivityID = info.ActivityID
		ec.ActivityType = info.ActivityType.Name
	}()

	return ec
}

// SafeLog logs at info level through the activity logger.
// Outside an activity context the call is ignored.
func SafeLog(ctx context.Context, msg string, keyvals ...any) {
	defer func() {
		if recover() != nil {
			// Not an activity context, ignore
		}
	}()
	activity.GetLogger(ctx).Info(msg, keyvals...)
}

// SafeLogError logs at error level through the activity logger.
// Outside an activity context the call is ignored.
func SafeLogError(ctx context.Context, msg string, keyvals ...any) {
	defer func() {
		if recover() != nil {
			// Not an activity context, ignore
		}
	}()
	activity.GetLogger(ctx).Error(msg, keyvals...)
}
