// Package exos manages configuration state for Extreme EXOS switches over
// an SSH command-line transport.
//
// EXOS exposes no "replace config" primitive and no transactional config
// API: the only operations are applying a command line or applying its
// hand-curated inverse. This package provides the transaction discipline
// on top of that — candidate/running state tracking, commit, and
// single-level rollback — while the line-level compute (normalization,
// diffing, inverse rules, command synthesis) lives in internal/reconcile.
//
// # Usage Example
//
//	client := exos.NewClient("10.0.0.10", 22, "admin", password)
//	if err := client.Open(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	session := exos.NewSession(client, nil)
//	if err := session.LoadCandidate("candidate.xsf", ""); err != nil {
//	    log.Fatal(err)
//	}
//
//	diff, err := session.CompareReplace(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(diff)
//
//	if err := session.CommitReplace(ctx); err != nil {
//	    if exos.IsPartialCommitError(err) {
//	        // Inspect device state; rollback remains available.
//	    }
//	    log.Fatal(err)
//	}
//
// # Transaction Semantics
//
// Replace plans are validated atomically before anything is sent: either
// every removal line resolves through the inverse-rule table or nothing
// goes to the device. Transport-time failures cannot be prevented in
// advance; a mid-sequence failure is reported with the failing command and
// its index, and already-sent commands are never undone automatically —
// rollback is an explicit operator decision. There is no retry logic:
// blind retry of a partially applied configuration change is unsafe.
//
// # Thread Safety
//
// A Session owns its candidate, cached running config, and rollback
// snapshot exclusively and must be serialized by the caller. Independent
// sessions are fully isolated.
package exos
