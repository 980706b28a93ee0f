// Package config manages exosctl's on-disk state: the device inventory,
// firmware-specific inverse-rule files, and persisted rollback snapshots.
//
// The inventory lives in devices.yaml under the platform config directory
// (e.g. ~/.config/exosctl on Linux) and maps user-chosen device names to
// connection details. Passwords are never written to disk.
//
// Rule files extend the stock inverse table for firmware versions whose
// command grammar differs; see RuleFile for the format.
//
// Snapshots keep the single pre-commit running config per device so that
// "exosctl rollback" works across CLI invocations.
//
// All writes are atomic (temp file + rename) to survive crashes.
package config
