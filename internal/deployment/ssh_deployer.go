package deployment

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

const (
	defaultSSHPort = "22"
	dialTimeout    = 30 * time.Second
)

// DeployTarget is the parsed form of a user@host[:port]:path deploy URL
type DeployTarget struct {
	User string
	Host string
	Port string
	Path string
}

// Address returns host:port for dialing
func (t DeployTarget) Address() string {
	return net.JoinHostPort(t.Host, t.Port)
}

// ParseDeployURL parses a deploy URL in format: user@host:path or user@host:port:path
func ParseDeployURL(deployURL string) (DeployTarget, error) {
	if deployURL == "" {
		return DeployTarget{}, fmt.Errorf("deploy URL is empty")
	}

	user, hostPath, ok := strings.Cut(deployURL, "@")
	if !ok || user == "" {
		return DeployTarget{}, fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}

	parts := strings.SplitN(hostPath, ":", 3)
	target := DeployTarget{User: user, Host: parts[0], Port: defaultSSHPort}
	switch len(parts) {
	case 2:
		target.Path = parts[1]
	case 3:
		target.Port = parts[1]
		target.Path = parts[2]
	default:
		return DeployTarget{}, fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}

	if target.Host == "" || target.Path == "" || target.Port == "" {
		return DeployTarget{}, fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}
	return target, nil
}

// SSHDeployer handles deployment via SSH/SCP
type SSHDeployer struct {
	keyPath string
	target  DeployTarget
	client  *ssh.Client
	mu      sync.Mutex
}

// NewSSHDeployer creates a new SSH deployer after validating the deploy URL
func NewSSHDeployer(deployURL, keyPath string) (*SSHDeployer, error) {
	target, err := ParseDeployURL(deployURL)
	if err != nil {
		return nil, err
	}
	return &SSHDeployer{
		keyPath: keyPath,
		target:  target,
	}, nil
}

// connect establishes the SSH connection if needed; callers hold d.mu
func (d *SSHDeployer) connect() error {
	if d.client != nil {
		return nil
	}

	keyData, err := os.ReadFile(d.keyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key file %s: %w", d.keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse SSH private key: %w", err)
	}

	config := &ssh.ClientConfig{
		User: d.target.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	d.client, err = ssh.Dial("tcp", d.target.Address(), config)
	if err != nil {
		return fmt.Errorf("failed to connect to SSH server %s: %w", d.target.Host, err)
	}

	log.Info().
		Str("host", d.target.Host).
		Str("user", d.target.User).
		Msg("Successfully connected to SSH server")

	return nil
}

// Disconnect closes SSH connection
func (d *SSHDeployer) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// DeployFile uploads a file via SCP. A failed upload drops the connection so
// the next cycle reconnects.
func (d *SSHDeployer) DeployFile(localPath, filename string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if err := d.upload(localPath, filename); err != nil {
		d.client.Close()
		d.client = nil
		return err
	}
	return nil
}

func (d *SSHDeployer) upload(localPath, filename string) error {
	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer localFile.Close()

	fileInfo, err := localFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat local file: %w", err)
	}

	session, err := d.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	remoteFilePath := path.Join(d.target.Path, filename)
	if err := session.Start(fmt.Sprintf("scp -t %s", remoteFilePath)); err != nil {
		return fmt.Errorf("failed to start SCP session: %w", err)
	}

	if err := writeSCP(stdin, filename, fileInfo.Size(), localFile); err != nil {
		stdin.Close()
		return err
	}

	stdin.Close()
	if err := session.Wait(); err != nil {
		return fmt.Errorf("SCP session failed: %w", err)
	}

	log.Info().
		Str("local_path", localPath).
		Str("remote_path", remoteFilePath).
		Int64("size", fileInfo.Size()).
		Msg("Successfully deployed file via SCP")

	return nil
}

// writeSCP streams one file in the scp sink protocol: header, content, NUL terminator
func writeSCP(w io.Writer, filename string, size int64, content io.Reader) error {
	if _, err := fmt.Fprintf(w, "C0644 %d %s\n", size, filename); err != nil {
		return fmt.Errorf("failed to write SCP header: %w", err)
	}

	copied, err := io.Copy(w, content)
	if err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	if copied != size {
		return fmt.Errorf("file size changed during upload: expected %d bytes, sent %d", size, copied)
	}

	if _, err := w.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to write SCP end marker: %w", err)
	}
	return nil
}
