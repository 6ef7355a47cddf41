// Package runs implements the lifecycle of parcour runs.
//
// States:
//   - pending -> completed | aborted
//
// A run is created pending with null timestamps and transitions to a
// terminal outcome at most once. The transition is enforced at the
// store layer via a guarded conditional update that only matches a row
// still pending with the same id, user and parcour; under concurrent
// updates at most one caller observes a nonzero affected-row count.
//
// Auditing:
//   - Successful creates and transitions append one audit event each,
//     best-effort.
//   - Rejected updates append nothing.
package runs
