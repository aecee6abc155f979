// Package recovery implements the Recovery Coordinator: at
// startup, before the engine accepts new work, it reconciles any
// WorkflowExecution or NodeExecution rows left in PENDING or RUNNING by a
// prior process that was killed mid-workflow.
//
// Recovery is pessimistic and runs exactly once, synchronously: every
// in-flight row is reset to PENDING with an explanatory error message.
// Nothing is auto-restarted — resuming a partially-executed workflow is a
// decision left to an operator or a higher-level scheduler, since blindly
// re-running tools with side effects (a heavy compute job, an external API
// call) could duplicate work.
package recovery
