// Package breaker wraps github.com/sony/gobreaker to give the Node Runner
// one circuit breaker per tool name, so a failing external collaborator
// (an unreachable HTTP endpoint, for example) doesn't get hammered by
// every concurrent node in a batch that happens to invoke it.
package breaker
