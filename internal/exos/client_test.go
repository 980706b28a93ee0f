package exos

import (
	"context"
	"testing"
)

// TestScrubOutputEcho tests removal of the echoed command line
func TestScrubOutputEcho(t *testing.T) {
	raw := "show configuration\r\nenable sflow\r\ncreate vlan test\r\n"
	lines := ScrubOutput("show configuration", raw)

	want := []string{"enable sflow", "create vlan test"}
	if len(lines) != len(want) {
		t.Fatalf("ScrubOutput() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

// TestScrubOutputPrompt tests that prompt lines are dropped
func TestScrubOutputPrompt(t *testing.T) {
	raw := "enable sflow\n* core-sw-01.12 #\n"
	lines := ScrubOutput("show configuration", raw)

	if len(lines) != 1 || lines[0] != "enable sflow" {
		t.Errorf("ScrubOutput() = %v, want prompt dropped", lines)
	}
}

// TestScrubOutputInteriorBlanks tests that interior blank lines survive
func TestScrubOutputInteriorBlanks(t *testing.T) {
	raw := "# Module vlan configuration.\n\ncreate vlan test\n\n\n"
	lines := ScrubOutput("show configuration", raw)

	want := []string{"# Module vlan configuration.", "", "create vlan test"}
	if len(lines) != len(want) {
		t.Fatalf("ScrubOutput() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

// TestClientDefaults tests zero-value fallbacks
func TestClientDefaults(t *testing.T) {
	c := NewClient("10.0.0.10", 0, "admin", "secret")
	if c.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", c.Port, DefaultPort)
	}
	if c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
}

// TestSendCommandNotConnected tests the not-connected guard
func TestSendCommandNotConnected(t *testing.T) {
	c := NewClient("10.0.0.10", 22, "admin", "secret")
	if _, err := c.SendCommand(context.Background(), "show configuration"); err == nil {
		t.Error("SendCommand on an unopened client should fail")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on an unopened client error = %v", err)
	}
}
