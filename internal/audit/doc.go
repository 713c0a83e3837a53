// Package audit implements asynchronous login-history and security event
// dispatch for authcore.
//
// Events are pure bookkeeping: a slow or failing sink never blocks or fails
// the authentication flow that emitted the event. The dispatcher forwards
// events to a single Sink on a dedicated goroutine and either drops or
// backpressures when the buffer is full, depending on configuration.
//
// # What this package must NOT do
//
//   - Influence control flow of any engine operation.
//   - Import authcore or any sibling package.
package audit
