package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/switchops/exosctl/internal/config"
	"github.com/switchops/exosctl/internal/exos"
	"github.com/switchops/exosctl/internal/logging"
	"github.com/switchops/exosctl/internal/reconcile"
	"github.com/switchops/exosctl/internal/ui"
)

// Connection flags (persistent on root)
var (
	deviceName  string
	deviceHost  string
	devicePort  int
	username    string
	password    string
	timeoutSecs int
	rulesPath   string
)

// Candidate and commit flags
var (
	candidateFile   string
	candidateInline string
	replaceMode     bool
	assumeYes       bool
)

// Devices add flags
var (
	addHost     string
	addPort     int
	addUsername string
	addRules    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceName, "device", "", "Device name from the inventory (see 'exosctl devices')")
	rootCmd.PersistentFlags().StringVar(&deviceHost, "host", "", "Device IP or hostname (overrides the inventory entry)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", 0, "SSH port (default 22)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "SSH username (default from inventory or preferences)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "SSH password (prompted when omitted)")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "SSH dial/command timeout in seconds (default 60)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to a firmware-specific inverse-rule file")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(devicesCmd)
}

// target is the fully resolved connection spec for one device, merged
// from the inventory entry and command-line overrides.
type target struct {
	name     string // Snapshot key: inventory name, or host when ad hoc
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
	rules    string
}

// resolveTarget merges the inventory entry named by --device with the
// connection flags. Flags win over inventory values.
func resolveTarget() (*target, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, err
	}

	t := &target{
		host:     deviceHost,
		port:     devicePort,
		username: username,
		password: password,
		rules:    rulesPath,
	}

	if deviceName != "" {
		device := registry.GetDevice(deviceName)
		if device == nil {
			return nil, fmt.Errorf("device %q is not in the inventory (see 'exosctl devices')", deviceName)
		}
		t.name = deviceName
		if t.host == "" {
			t.host = device.Host
		}
		if t.port == 0 {
			t.port = device.Port
		}
		if t.username == "" {
			t.username = device.Username
		}
		if t.rules == "" {
			t.rules = device.Rules
		}
	}

	if t.host == "" {
		return nil, fmt.Errorf("no device specified: use --device <name> or --host <address>")
	}
	if t.name == "" {
		t.name = t.host
	}
	if t.username == "" {
		t.username = registry.Preferences.DefaultUsername
	}

	seconds := timeoutSecs
	if seconds == 0 {
		seconds = registry.Preferences.ConnectTimeout
	}
	if seconds <= 0 {
		seconds = int(exos.DefaultTimeout / time.Second)
	}
	t.timeout = time.Duration(seconds) * time.Second

	if t.password == "" {
		t.password, err = promptPassword(t.username, t.host)
		if err != nil {
			return nil, err
		}
	}

	return t, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(user, host string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no password given and stdin is not a terminal; use --password")
	}
	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", user, host)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// openSession connects to the target and wraps the connection in a
// reconciliation session. The caller must Close the returned client.
func openSession(ctx context.Context, t *target) (*exos.Session, *exos.Client, error) {
	table, err := config.BuildRuleTable(t.rules)
	if err != nil {
		return nil, nil, err
	}

	client := exos.NewClient(t.host, t.port, t.username, t.password)
	client.Timeout = t.timeout
	if err := client.Open(ctx); err != nil {
		return nil, nil, err
	}

	logging.LogSession(t.host, "connected")
	touchLastUsed(t.name)

	return exos.NewSession(client, table), client, nil
}

// touchLastUsed records a successful connection in the inventory.
// Best effort; ad hoc hosts are not recorded.
func touchLastUsed(name string) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}
	device := registry.GetDevice(name)
	if device == nil {
		return
	}
	device.LastUsed = time.Now()
	if err := registry.Save(); err != nil {
		logging.Warn("failed to update inventory last_used")
	}
}

// loadCandidate feeds the candidate flags into the session, enforcing
// that exactly one source is given.
func loadCandidate(session *exos.Session) error {
	return session.LoadCandidate(candidateFile, candidateInline)
}

// showCmd prints the device's running configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the running configuration",
	Long: `Fetch and print the running configuration of a switch.

The output is normalized: blank lines and comment lines are dropped, so
it is directly usable as a candidate file for another device.`,
	Example: `  # Show the config of an inventory device
  exosctl show --device core-sw-01

  # Ad hoc, without an inventory entry
  exosctl show --host 10.0.0.10 --username admin

  # Capture as a candidate for another switch
  exosctl show --device core-sw-01 > golden.cfg`,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), t.timeout)
	defer cancel()

	session, client, err := openSession(ctx, t)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := session.FetchRunning(ctx); err != nil {
		return err
	}

	for _, line := range session.Running() {
		fmt.Println(line)
	}
	return nil
}

// diffCmd previews a change as a unified diff
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show the diff between a candidate config and the running config",
	Long: `Compare a candidate configuration against the running configuration
and print a unified diff of the change.

Merge mode (the default) only adds missing lines. With --replace, lines
present on the device but absent from the candidate are removed as well;
the diff fails if any such line has no inverse rule, and nothing is sent.

The diff is a preview only; no commands are sent to the device.`,
	Example: `  # Preview a merge
  exosctl diff --device core-sw-01 -f new.cfg

  # Preview a full replace
  exosctl diff --device core-sw-01 -f golden.cfg --replace

  # Inline candidate for a one-liner change
  exosctl diff --device core-sw-01 --config "configure snmp sysName core-sw-01"`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&candidateFile, "file", "f", "", "Candidate configuration file")
	diffCmd.Flags().StringVar(&candidateInline, "config", "", "Inline candidate configuration")
	diffCmd.Flags().BoolVar(&replaceMode, "replace", false, "Replace mode: also remove lines absent from the candidate")
}

func runDiff(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), t.timeout)
	defer cancel()

	session, client, err := openSession(ctx, t)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := loadCandidate(session); err != nil {
		return err
	}

	text, err := compare(ctx, session)
	if err != nil {
		return diffFailure(err)
	}

	if text == "" {
		fmt.Println("No changes; the device already matches the candidate.")
		return nil
	}

	fmt.Print(ui.ColorizeDiff(text))
	return nil
}

func compare(ctx context.Context, session *exos.Session) (string, error) {
	if replaceMode {
		return session.CompareReplace(ctx)
	}
	return session.CompareMerge(ctx)
}

// diffFailure adds the rule-file hint to unresolved-line errors.
func diffFailure(err error) error {
	if exos.IsUnresolvedLineError(err) {
		return fmt.Errorf("%w\n\n%s", err, exos.GetTroubleshootingHint(err))
	}
	return err
}

// commitCmd applies a candidate config to the device
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Apply a candidate config to the device",
	Long: `Compute the command plan for a candidate configuration and send it to
the device, followed by a save to flash.

Before anything is sent, the pre-commit running configuration is stored
as a rollback snapshot (one per device, each commit overwrites it). If a
command fails partway through, already-sent commands are NOT undone; the
error names the failing command and 'exosctl rollback' restores the
snapshot.

Replace commits send removal commands and ask for confirmation unless
--yes is given.`,
	Example: `  # Merge new config into a switch
  exosctl commit --device core-sw-01 -f new.cfg

  # Make the device match a golden config exactly
  exosctl commit --device core-sw-01 -f golden.cfg --replace

  # Unattended replace (automation)
  exosctl commit --device core-sw-01 -f golden.cfg --replace --yes`,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&candidateFile, "file", "f", "", "Candidate configuration file")
	commitCmd.Flags().StringVar(&candidateInline, "config", "", "Inline candidate configuration")
	commitCmd.Flags().BoolVar(&replaceMode, "replace", false, "Replace mode: also remove lines absent from the candidate")
	commitCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the replace confirmation prompt")
}

func runCommit(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), t.timeout)
	defer cancel()

	session, client, err := openSession(ctx, t)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := loadCandidate(session); err != nil {
		return err
	}

	text, err := compare(ctx, session)
	if err != nil {
		return diffFailure(err)
	}
	if text == "" {
		fmt.Println("No changes; the device already matches the candidate.")
		return nil
	}

	fmt.Print(ui.ColorizeDiff(text))
	fmt.Println()

	plan := session.Plan()
	hunks := reconcile.Diff(session.Running(), session.Candidate())

	if replaceMode && !assumeYes {
		removals := len(reconcile.Removals(hunks))
		additions := len(reconcile.Additions(hunks))
		if !ui.ReplaceCommitConfirmation(t.host, removals, additions) {
			return fmt.Errorf("commit aborted")
		}
	}

	// Persist the pre-commit config before sending anything, so rollback
	// survives this process dying mid-commit.
	if err := config.SaveSnapshot(t.name, session.Running()); err != nil {
		return fmt.Errorf("refusing to commit without a rollback snapshot: %w", err)
	}

	logging.LogPlan(t.host, modeName(), plan)

	progress := ui.NewPlanProgress(
		fmt.Sprintf("Applying %d commands to %s...", len(plan)+1, t.host),
		append(plan, "save"),
	)

	// The send phase runs under the command's own context, not the dial
	// timeout: a wall clock must not abort a half-sent plan.
	if replaceMode {
		err = session.CommitReplace(cmd.Context())
	} else {
		err = session.Commit(cmd.Context())
	}

	renderCommitOutcome(progress, err)

	if err != nil {
		fmt.Println(ui.RenderFailure("Commit failed", err, []string{
			exos.GetTroubleshootingHint(err),
			"Run 'exosctl rollback' to restore the pre-commit configuration",
		}))
		return fmt.Errorf("commit failed")
	}

	fmt.Println(ui.RenderSuccess("Commit complete", map[string]string{
		"Device":   t.host,
		"Mode":     modeName(),
		"Commands": fmt.Sprintf("%d", len(plan)),
		"Rollback": "available via 'exosctl rollback'",
	}))
	return nil
}

func modeName() string {
	if replaceMode {
		return exos.ModeReplace.String()
	}
	return exos.ModeMerge.String()
}

// renderCommitOutcome prints the plan step list after the fact: the
// transport applies the plan as one sequence, so the display reflects
// where it ended rather than animating each step.
func renderCommitOutcome(progress *ui.PlanProgress, err error) {
	failedAt := -1
	var serr *exos.SessionError
	if errors.As(err, &serr) && exos.IsPartialCommitError(err) {
		failedAt = serr.Index
	}

	for i := range progress.Steps {
		switch {
		case err == nil || i < failedAt:
			progress.CompleteStep(i + 1)
		case i == failedAt:
			progress.FailStep(i+1, "rejected by device")
		}
	}
	fmt.Println(progress.Render())
}

// rollbackCmd restores the pre-commit configuration
var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the configuration saved before the last commit",
	Long: `Replace the device's configuration with the snapshot taken before the
last commit on this device.

Rollback is single-level: each commit overwrites the previous snapshot,
and a successful rollback consumes it. The device config may have
drifted since the commit, so the rollback is computed against a fresh
fetch of the running configuration.`,
	Example: `  # Undo the last commit on core-sw-01
  exosctl rollback --device core-sw-01`,
	RunE: runRollback,
}

func runRollback(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget()
	if err != nil {
		return err
	}

	snapshot, err := config.LoadSnapshot(t.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no rollback snapshot for %s: nothing has been committed, or it was already rolled back", t.name)
		}
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), t.timeout)
	defer cancel()

	session, client, err := openSession(ctx, t)
	if err != nil {
		return err
	}
	defer client.Close()

	session.RestoreSnapshot(snapshot)

	if err := session.Rollback(cmd.Context()); err != nil {
		fmt.Println(ui.RenderFailure("Rollback failed", err, []string{
			exos.GetTroubleshootingHint(err),
			"The snapshot is retained; fix the device state and retry",
		}))
		return fmt.Errorf("rollback failed")
	}

	if err := config.ClearSnapshot(t.name); err != nil {
		logging.Warn("failed to remove consumed snapshot")
	}

	fmt.Println(ui.RenderSuccess("Rollback complete", map[string]string{
		"Device": t.host,
		"Lines":  fmt.Sprintf("%d", len(snapshot)),
	}))
	return nil
}

// devicesCmd manages the device inventory
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage the device inventory",
	Long: `List, add, and remove devices in the inventory file.

The inventory maps short names to connection details so that commands
can use --device instead of repeating --host and --username. Passwords
are never stored.`,
	RunE: runDevicesList,
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory devices",
	RunE:  runDevicesList,
}

var devicesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update an inventory device",
	Example: `  exosctl devices add core-sw-01 --host 10.0.0.10 --username admin
  exosctl devices add edge-sw-02 --host 10.0.0.11 --rules ~/rules-16.2.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runDevicesAdd,
}

var devicesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an inventory device",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevicesRemove,
}

func init() {
	devicesAddCmd.Flags().StringVar(&addHost, "host", "", "Device IP or hostname (required)")
	devicesAddCmd.Flags().IntVar(&addPort, "port", 0, "SSH port (default 22)")
	devicesAddCmd.Flags().StringVar(&addUsername, "username", "", "SSH username")
	devicesAddCmd.Flags().StringVar(&addRules, "rules", "", "Path to a firmware-specific rule file")
	_ = devicesAddCmd.MarkFlagRequired("host")

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesAddCmd)
	devicesCmd.AddCommand(devicesRemoveCmd)
}

func runDevicesList(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	names := registry.DeviceNames()
	if len(names) == 0 {
		fmt.Println("No devices in the inventory.")
		fmt.Println("Add one with: exosctl devices add <name> --host <address>")
		return nil
	}
	sort.Strings(names)

	for _, name := range names {
		device := registry.GetDevice(name)
		fmt.Printf("%s\n", name)
		fmt.Printf("  Host:     %s\n", hostPort(device))
		if device.Username != "" {
			fmt.Printf("  Username: %s\n", device.Username)
		}
		if device.Rules != "" {
			fmt.Printf("  Rules:    %s\n", device.Rules)
		}
		if !device.LastUsed.IsZero() {
			fmt.Printf("  Last used: %s\n", device.LastUsed.Format("2006-01-02 15:04"))
		}
		if config.HasSnapshot(name) {
			fmt.Printf("  Rollback: snapshot available\n")
		}
		fmt.Println()
	}
	return nil
}

func hostPort(device *config.Device) string {
	if device.Port == 0 || device.Port == exos.DefaultPort {
		return device.Host
	}
	return fmt.Sprintf("%s:%d", device.Host, device.Port)
}

func runDevicesAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("device name must not be empty")
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	registry.SetDevice(name, &config.Device{
		Host:     addHost,
		Port:     addPort,
		Username: addUsername,
		Rules:    addRules,
	})
	if err := registry.Save(); err != nil {
		return err
	}

	fmt.Printf("Saved device %q (%s)\n", name, addHost)
	return nil
}

func runDevicesRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	if !registry.RemoveDevice(name) {
		return fmt.Errorf("device %q is not in the inventory", name)
	}
	if err := registry.Save(); err != nil {
		return err
	}

	if err := config.ClearSnapshot(name); err != nil {
		logging.Warn("failed to remove device snapshot")
	}

	fmt.Printf("Removed device %q\n", name)
	return nil
}
