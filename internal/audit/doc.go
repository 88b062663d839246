// Package audit owns the concurrent batch controller and the result
// projection it maintains.
//
// A batch turns input rows into ordered work items, fans them out across a
// small fixed worker pool against the match oracle, and mutates the
// projection in place as items complete. Element order is fixed at batch
// creation; completion order is unconstrained. Pause blocks the next dequeue
// without interrupting in-flight calls. Stop synchronously forces every
// non-terminal item to an error state and suppresses any oracle result that
// resolves afterwards, so a stopped projection can never be resurrected to
// completed.
package audit
