package reconcile

// SynthesizeMerge produces the commands that merge candidate into running:
// only the addition lines from the diff, in candidate-relative order, each
// returned verbatim as a device command. Merge is additive and never fails.
func SynthesizeMerge(running, candidate ConfigText) []string {
	return Additions(Diff(running, candidate))
}

// SynthesizeReplace produces the commands that turn running into candidate:
// every line present only in running is undone via the inverse-rule table,
// then the addition lines are applied. The result is all synthesized
// removal commands in diff order followed by all addition lines in diff
// order; removing stale objects before creating new ones avoids transient
// naming conflicts when identifiers are reused.
//
// Validation is atomic: if any removal line has no matching rule, the call
// returns *UnresolvedLineError and no command list at all, so nothing is
// ever sent from a partially resolvable plan.
func SynthesizeReplace(running, candidate ConfigText, table *RuleTable) ([]string, error) {
	hunks := Diff(running, candidate)

	var commands []string
	for _, line := range Removals(hunks) {
		inverse, err := table.ResolveRemoval(line)
		if err != nil {
			return nil, err
		}
		commands = append(commands, inverse...)
	}
	return append(commands, Additions(hunks)...), nil
}
