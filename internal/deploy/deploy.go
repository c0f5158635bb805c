// Package deploy uploads the built publications output to a web host over
// SSH, authenticating through the user's ssh-agent.
package deploy

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"os/user"
	"path"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// DefaultConnectTimeout bounds the SSH dial.
const DefaultConnectTimeout = 10 * time.Second

// Client deploys files over SSH using agent authentication.
type Client struct {
	agentConn net.Conn // connection to the ssh-agent, closed in Close()
	signers   []ssh.Signer
	username  string
	timeout   time.Duration
	proxyJump string
}

// Option configures a Client.
type Option func(*Client)

// WithProxyJump routes connections through a jump host.
func WithProxyJump(host string) Option {
	return func(c *Client) {
		c.proxyJump = host
	}
}

// WithConnectTimeout sets the SSH dial timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a deploy client backed by the running ssh-agent.
func NewClient(opts ...Option) (*Client, error) {
	authSock := os.Getenv("SSH_AUTH_SOCK")
	if authSock == "" {
		return nil, fmt.Errorf("SSH agent not running. Start with `eval $(ssh-agent)` and add keys with `ssh-add`")
	}

	conn, err := net.Dial("unix", authSock)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to SSH agent at %s: %w", authSock, err)
	}

	agentClient := agent.NewClient(conn)

	keys, err := agentClient.List()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("listing SSH agent keys: %w", err)
	}
	if len(keys) == 0 {
		conn.Close()
		return nil, fmt.Errorf("SSH agent has no keys. Add keys with `ssh-add`")
	}

	signers, err := agentClient.Signers()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("getting SSH agent signers: %w", err)
	}

	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}

	c := &Client{
		agentConn: conn,
		signers:   signers,
		username:  username,
		timeout:   DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Upload writes data to remotePath on host, creating the parent directory
// first. Host may carry a user prefix ("deploy@web.example.edu").
func (c *Client) Upload(host, remotePath string, data []byte) error {
	username := c.username
	if u, h, found := strings.Cut(host, "@"); found {
		username, host = u, h
	}

	// InsecureIgnoreHostKey disables host key verification. Acceptable for
	// a personal deploy target; use a known_hosts file for anything shared.
	clientConfig := &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(c.signers...)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.timeout,
	}

	var client *ssh.Client
	var jumpClient *ssh.Client
	var err error

	if c.proxyJump != "" {
		client, jumpClient, err = c.dialViaProxy(host, clientConfig)
		if jumpClient != nil {
			defer jumpClient.Close()
		}
	} else {
		client, err = ssh.Dial("tcp", host+":22", clientConfig)
	}
	if err != nil {
		return wrapSSHError(err, host, c.proxyJump)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("creating SSH session on %s: %w", host, err)
	}
	defer session.Close()

	session.Stdin = bytes.NewReader(data)
	cmd := fmt.Sprintf("mkdir -p %s && cat > %s",
		shellQuote(path.Dir(remotePath)), shellQuote(remotePath))
	if out, err := session.CombinedOutput(cmd); err != nil {
		return fmt.Errorf("writing %s on %s: %w (%s)",
			remotePath, host, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Close releases the agent connection.
func (c *Client) Close() error {
	if c.agentConn != nil {
		return c.agentConn.Close()
	}
	return nil
}

// dialViaProxy connects to the target host through the configured jump host.
// Returns both clients; caller must close both.
func (c *Client) dialViaProxy(target string, config *ssh.ClientConfig) (client *ssh.Client, jumpClient *ssh.Client, err error) {
	proxyConfig := &ssh.ClientConfig{
		User:            config.User,
		Auth:            config.Auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         config.Timeout,
	}

	jumpClient, err = ssh.Dial("tcp", c.proxyJump+":22", proxyConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot reach proxy %s: %w", c.proxyJump, err)
	}

	targetConn, err := jumpClient.Dial("tcp", target+":22")
	if err != nil {
		jumpClient.Close()
		return nil, nil, fmt.Errorf("cannot reach %s through proxy %s: %w", target, c.proxyJump, err)
	}

	ncc, chans, reqs, err := ssh.NewClientConn(targetConn, target+":22", config)
	if err != nil {
		targetConn.Close()
		jumpClient.Close()
		return nil, nil, fmt.Errorf("SSH handshake with %s failed: %w", target, err)
	}

	return ssh.NewClient(ncc, chans, reqs), jumpClient, nil
}

// shellQuote single-quotes a path for the remote shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// wrapSSHError produces actionable error messages based on SSH error types.
func wrapSSHError(err error, host, proxyJump string) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "no supported methods remain"):
		return fmt.Errorf("SSH authentication failed for %s. Check ~/.ssh/config and ensure your key is authorized", host)
	case strings.Contains(errStr, "i/o timeout") || strings.Contains(errStr, "connection timed out"):
		if proxyJump != "" && strings.Contains(errStr, proxyJump) {
			return fmt.Errorf("cannot reach proxy %s: connection timed out", proxyJump)
		}
		return fmt.Errorf("connection to %s timed out", host)
	case strings.Contains(errStr, "connection refused"):
		return fmt.Errorf("connection refused by %s — is SSH running on the server?", host)
	default:
		return fmt.Errorf("SSH error connecting to %s: %w", host, err)
	}
}
