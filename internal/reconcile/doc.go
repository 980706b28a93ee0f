// Package reconcile implements the pure compute half of EXOS configuration
// reconciliation: line normalization, line-level diffing, the inverse-rule
// table, and command synthesis.
//
// Configuration is handled as opaque ordered lines of text (ConfigText).
// Nothing in this package talks to a device or keeps state between calls;
// every function is deterministic over its inputs and safe to use
// concurrently across independent sessions.
//
// # Reconciliation Modes
//
// Two modes share the diff machinery:
//   - Merge: only lines missing from the running config are emitted, each
//     candidate line being a valid device command as-is. Merge never fails.
//   - Replace: lines present only in the running config are additionally
//     undone via commands synthesized from the inverse-rule table. If any
//     such line has no matching rule, the whole synthesis fails with
//     *UnresolvedLineError and no partial command list is produced.
//
// # Inverse Rules
//
// EXOS has no generic "undo last line" primitive, so inverses are encoded
// per syntactic shape as an ordered table of rules (first match wins).
// A rule is either a literal-prefix match or a regexp-capture match, and
// may synthesize more than one removal command where the device requires
// it (e.g. disabling a feature before deleting its container). Tables are
// immutable; Append returns a new table, so firmware-specific tables can
// be built at startup and injected.
package reconcile
