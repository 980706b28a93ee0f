package exos

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/switchops/exosctl/internal/logging"
	"github.com/switchops/exosctl/internal/reconcile"
)

// saveCommand persists the applied configuration to flash after a
// successful command plan.
const saveCommand = "save"

// State is the reconciliation session lifecycle position.
type State int

const (
	// StateIdle means no candidate config is loaded.
	StateIdle State = iota
	// StateCandidateLoaded means a candidate is present but no diff computed.
	StateCandidateLoaded
	// StateDiffComputed means a merge or replace command plan is cached.
	StateDiffComputed
	// StateCommitted means commands were sent and a rollback snapshot is available.
	StateCommitted
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCandidateLoaded:
		return "candidate-loaded"
	case StateDiffComputed:
		return "diff-computed"
	case StateCommitted:
		return "committed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Mode selects the reconciliation strategy for a computed plan.
type Mode int

const (
	// ModeMerge only adds lines missing from the running config.
	ModeMerge Mode = iota
	// ModeReplace also removes running-config lines absent from the
	// candidate, via synthesized inverse commands.
	ModeReplace
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "merge"
}

// Session reconciles a candidate configuration against a device's running
// configuration over a Transport. It owns the candidate, the cached
// running config, and the single-level rollback snapshot.
//
// A Session serializes all operations against one device and performs no
// internal parallelism: command order is part of the correctness contract.
// It is not safe for concurrent use without external locking; the pure
// compute underneath (diff, rules, synthesis) is.
type Session struct {
	transport Transport
	rules     *reconcile.RuleTable
	logger    *zap.Logger

	state     State
	candidate reconcile.ConfigText
	running   reconcile.ConfigText
	snapshot  reconcile.ConfigText

	plan     []string
	planMode Mode
}

// NewSession creates a session over the given transport. A nil rule table
// selects reconcile.DefaultRuleTable.
func NewSession(transport Transport, rules *reconcile.RuleTable) *Session {
	if rules == nil {
		rules = reconcile.DefaultRuleTable()
	}
	return &Session{
		transport: transport,
		rules:     rules,
		logger:    logging.GetLogger(),
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Candidate returns a copy of the loaded candidate config, or nil.
func (s *Session) Candidate() reconcile.ConfigText {
	return s.candidate.Clone()
}

// Running returns a copy of the cached running config, or nil if it has
// never been fetched. The cache is authoritative only at retrieval time.
func (s *Session) Running() reconcile.ConfigText {
	return s.running.Clone()
}

// Snapshot returns a copy of the rollback snapshot, or nil if no commit
// has happened since the session started or since the last rollback.
func (s *Session) Snapshot() reconcile.ConfigText {
	return s.snapshot.Clone()
}

// Plan returns a copy of the currently cached command plan.
func (s *Session) Plan() []string {
	if s.plan == nil {
		return nil
	}
	out := make([]string, len(s.plan))
	copy(out, s.plan)
	return out
}

// LoadCandidate populates the candidate config from a file or an inline
// string. Exactly one of filename and inline must be given; the contents
// are normalized (blank and comment lines dropped) before use.
func (s *Session) LoadCandidate(filename, inline string) error {
	if filename == "" && inline == "" {
		return NewLoadError("one of filename or inline config must be provided", nil)
	}
	if filename != "" && inline != "" {
		return NewLoadError("filename and inline config are mutually exclusive", nil)
	}

	text := inline
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return NewLoadError(fmt.Sprintf("failed to read candidate file %s", filename), err)
		}
		text = string(data)
	}

	s.candidate = reconcile.Normalize(text)
	s.plan = nil
	s.state = StateCandidateLoaded

	s.logger.Debug("candidate config loaded",
		zap.String("source", sourceName(filename)),
		zap.Int("lines", len(s.candidate)),
	)
	return nil
}

func sourceName(filename string) string {
	if filename != "" {
		return filename
	}
	return "inline"
}

// DiscardCandidate clears the candidate and any cached plan without
// committing. Always succeeds. The rollback snapshot is unaffected.
func (s *Session) DiscardCandidate() {
	s.candidate = nil
	s.plan = nil
	s.state = StateIdle
}

// FetchRunning refreshes the cached running config from the device. On
// failure the prior cached value is left intact.
func (s *Session) FetchRunning(ctx context.Context) error {
	lines, err := s.transport.FetchConfig(ctx)
	if err != nil {
		return NewRetrievalError(err)
	}
	s.running = reconcile.NormalizeLines(lines)
	s.logger.Debug("running config fetched", zap.Int("lines", len(s.running)))
	return nil
}

// CompareMerge refreshes the running config, computes the merge plan, and
// returns a human-readable unified diff. Merge plans never fail on
// unresolved lines.
func (s *Session) CompareMerge(ctx context.Context) (string, error) {
	return s.compare(ctx, ModeMerge)
}

// CompareReplace refreshes the running config, computes the replace plan,
// and returns a human-readable unified diff. If any running-config line
// has no inverse rule, the session reverts to CandidateLoaded and the
// error identifies the offending line; no plan is cached.
func (s *Session) CompareReplace(ctx context.Context) (string, error) {
	return s.compare(ctx, ModeReplace)
}

func (s *Session) compare(ctx context.Context, mode Mode) (string, error) {
	if s.candidate == nil {
		return "", NewLoadError("candidate config not loaded", nil)
	}

	if err := s.FetchRunning(ctx); err != nil {
		return "", err
	}

	var (
		plan []string
		err  error
	)
	switch mode {
	case ModeMerge:
		plan = reconcile.SynthesizeMerge(s.running, s.candidate)
	case ModeReplace:
		plan, err = reconcile.SynthesizeReplace(s.running, s.candidate, s.rules)
		if err != nil {
			s.plan = nil
			s.state = StateCandidateLoaded
			if unresolved, ok := err.(*reconcile.UnresolvedLineError); ok {
				return "", NewUnresolvedLineError(unresolved)
			}
			return "", err
		}
	}

	text, err := reconcile.RenderUnified(s.running, s.candidate)
	if err != nil {
		return "", err
	}

	s.plan = plan
	s.planMode = mode
	s.state = StateDiffComputed

	s.logger.Debug("diff computed",
		zap.Stringer("mode", mode),
		zap.Int("plan_commands", len(plan)),
	)
	return text, nil
}

// Commit sends the cached merge plan to the device. See commit for the
// snapshot and failure semantics.
func (s *Session) Commit(ctx context.Context) error {
	if s.state != StateDiffComputed || s.planMode != ModeMerge {
		return NewStateError("no merge diff computed; call CompareMerge first")
	}
	return s.commit(ctx)
}

// CommitReplace sends the cached replace plan to the device.
func (s *Session) CommitReplace(ctx context.Context) error {
	if s.state != StateDiffComputed || s.planMode != ModeReplace {
		return NewStateError("no replace diff computed; call CompareReplace first")
	}
	return s.commit(ctx)
}

// commit snapshots the running config the plan was computed against, then
// sends the plan in order followed by a save. A mid-sequence failure is
// surfaced as a PartialCommitError naming the command and its index;
// already-sent commands are NOT undone — partial device-side application
// must be visible to the operator, and whether to roll back is their call.
// The snapshot is retained either way so that rollback stays possible.
func (s *Session) commit(ctx context.Context) error {
	s.snapshot = s.running.Clone()
	s.state = StateCommitted

	if err := s.sendPlan(ctx, s.plan); err != nil {
		return err
	}

	// The plan applied cleanly: the candidate IS the device config now.
	s.running = s.candidate.Clone()
	s.candidate = nil
	s.plan = nil

	s.logger.Info("commit applied",
		zap.Stringer("mode", s.planMode),
		zap.Int("running_lines", len(s.running)),
	)
	return nil
}

// sendPlan sends each command in order, then persists with a save. The
// save failure index is len(plan).
func (s *Session) sendPlan(ctx context.Context, plan []string) error {
	for i, command := range plan {
		logging.LogCommand(command, i, len(plan))
		if _, err := s.transport.SendCommand(ctx, command); err != nil {
			s.logger.Error("command failed mid-sequence",
				zap.Int("index", i),
				zap.String("command", command),
				zap.Error(err),
			)
			return NewPartialCommitError(i, command, err)
		}
	}
	if _, err := s.transport.SendCommand(ctx, saveCommand); err != nil {
		return NewPartialCommitError(len(plan), saveCommand, err)
	}
	return nil
}

// Rollback replaces the device configuration with the pre-commit snapshot,
// reusing the replace synthesis and its failure semantics. On success the
// snapshot is consumed and the session returns to Idle. Fails with
// NoRollbackAvailableError when nothing has been committed since the
// session started or since the last rollback.
func (s *Session) Rollback(ctx context.Context) error {
	if s.snapshot == nil {
		return NewNoRollbackError()
	}

	// The device may have drifted since commit; replace against a fresh
	// running config, not the cache.
	if err := s.FetchRunning(ctx); err != nil {
		return err
	}

	plan, err := reconcile.SynthesizeReplace(s.running, s.snapshot, s.rules)
	if err != nil {
		if unresolved, ok := err.(*reconcile.UnresolvedLineError); ok {
			return NewUnresolvedLineError(unresolved)
		}
		return err
	}

	if err := s.sendPlan(ctx, plan); err != nil {
		// Snapshot kept: the operator may fix the device and retry.
		return err
	}

	s.running = s.snapshot
	s.snapshot = nil
	s.candidate = nil
	s.plan = nil
	s.state = StateIdle

	s.logger.Info("rollback applied", zap.Int("running_lines", len(s.running)))
	return nil
}

// RestoreSnapshot seeds the rollback snapshot from persisted lines, making
// Rollback available in a fresh session (e.g. a new CLI invocation reading
// the snapshot a previous commit wrote to disk).
func (s *Session) RestoreSnapshot(lines []string) {
	s.snapshot = reconcile.NormalizeLines(lines)
	s.state = StateCommitted
}
