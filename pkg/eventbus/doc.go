// Package eventbus rebroadcasts Workflow Engine events (the
// observer.Event stream) onto a Redis pub/sub channel so that out-of-process
// subscribers (a notification service, a second API replica, a dashboard)
// can follow a workflow's progress without being attached in-process as an
// observer.Observer.
//
// Publishing happens on a per-workflow channel named "taskflow.workflow.<id>"
// so a subscriber only pays for the events of workflows it cares about.
// The bus is optional: an Engine with no eventbus.Publisher configured
// behaves identically, just without the Redis fan-out.
package eventbus
