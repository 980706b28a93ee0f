package exos

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/switchops/exosctl/internal/logging"
)

const (
	// DefaultPort is the standard SSH port
	DefaultPort = 22
	// DefaultTimeout matches the switch-side idle defaults and is generous
	// enough for a full "show configuration" on a loaded chassis
	DefaultTimeout = 60 * time.Second

	// showConfigCommand retrieves the persistent running configuration
	showConfigCommand = "show configuration"
)

// Transport is the line-based command/response channel to a device.
// Authentication, connection lifecycle, and prompt handling are entirely
// the implementation's responsibility; the session core treats it as
// opaque. A caller-supplied context deadline, if any, bounds each call —
// the core adds no timeout layer of its own.
type Transport interface {
	// SendCommand sends one command and returns its output lines.
	SendCommand(ctx context.Context, command string) ([]string, error)
	// FetchConfig returns the device's current configuration as raw lines.
	FetchConfig(ctx context.Context) ([]string, error)
	// Close releases the underlying connection.
	Close() error
}

// Client is an SSH Transport for EXOS switches. Each command runs in its
// own exec session on a shared connection, so command order is exactly
// send order. A Client serves one device connection and is not safe for
// concurrent use.
type Client struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration

	conn   *ssh.Client
	logger *zap.Logger
}

// NewClient creates an SSH client for the given device. Zero port and
// timeout values fall back to DefaultPort and DefaultTimeout.
func NewClient(host string, port int, username, password string) *Client {
	if port == 0 {
		port = DefaultPort
	}
	return &Client{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		Timeout:  DefaultTimeout,
		logger:   logging.GetLogger(),
	}
}

// Open dials the device and authenticates. It must be called before
// SendCommand or FetchConfig.
func (c *Client) Open(ctx context.Context) error {
	addr := net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))

	cfg := &ssh.ClientConfig{
		User:    c.Username,
		Auth:    []ssh.AuthMethod{ssh.Password(c.Password)},
		Timeout: c.Timeout,
		// Switch management networks rarely have provisioned host keys;
		// matches the behavior of the usual network automation stacks.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	dialer := net.Dialer{Timeout: c.Timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return ClassifyDialError(err, c.Host)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, cfg)
	if err != nil {
		netConn.Close()
		return ClassifyDialError(err, c.Host)
	}

	c.conn = ssh.NewClient(sshConn, chans, reqs)
	c.logger.Debug("SSH connection established",
		zap.String("host", c.Host),
		zap.Int("port", c.Port),
		zap.String("user", c.Username),
	)
	return nil
}

// Close closes the SSH connection. Safe to call when never opened.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// SendCommand runs one command in a fresh exec session and returns its
// scrubbed output lines. A context cancellation tears down the session.
func (c *Client) SendCommand(ctx context.Context, command string) ([]string, error) {
	if c.conn == nil {
		return nil, NewTransportError("not connected", nil)
	}

	session, err := c.conn.NewSession()
	if err != nil {
		return nil, NewTransportError("failed to open exec session", err)
	}
	defer session.Close()

	type execResult struct {
		output []byte
		err    error
	}
	done := make(chan execResult, 1)
	go func() {
		output, err := session.CombinedOutput(command)
		done <- execResult{output: output, err: err}
	}()

	select {
	case <-ctx.Done():
		session.Close()
		return nil, NewTransportError(fmt.Sprintf("command %q canceled", command), ctx.Err())
	case result := <-done:
		if result.err != nil {
			return nil, NewTransportError(fmt.Sprintf("command %q failed", command), result.err)
		}
		lines := ScrubOutput(command, string(result.output))
		logging.LogCommandOutput(c.Host, command, lines)
		return lines, nil
	}
}

// FetchConfig retrieves the device's running configuration.
func (c *Client) FetchConfig(ctx context.Context) ([]string, error) {
	return c.SendCommand(ctx, showConfigCommand)
}

// promptPattern matches an EXOS CLI prompt line, e.g. "* core-sw-01.12 #"
// or "Slot-1 core-sw-01.3 >". Exec-channel output normally has no prompt,
// but some firmware echoes one when the shell profile runs.
var promptPattern = regexp.MustCompile(`^\*?\s*[\w.-]+(\.\d+)?\s*[#>]\s*$`)

// ScrubOutput converts raw command output into clean lines: CR stripped,
// leading command echo removed, prompt and trailing blank lines dropped.
// Interior blank lines are preserved; config-level filtering is the
// normalizer's job, not the transport's.
func ScrubOutput(command, raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")

	// Drop the echoed command if the device repeats it
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == command {
		lines = lines[1:]
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if promptPattern.MatchString(strings.TrimSpace(line)) {
			continue
		}
		out = append(out, line)
	}

	// Trim trailing blank lines left by the final newline
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}
