package junos

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// showBGPCommand retrieves only the BGP stanza, in JSON format.
const showBGPCommand = "show configuration protocols bgp | display json"

// Router is a read-only SSH connection to a Juniper router.
type Router struct {
	Name string
	Host string
	Port int
	User string

	// Password and KeyFile are alternative auth methods; KeyFile wins
	// when both are set.
	Password string
	KeyFile  string

	client *ssh.Client
}

// Connect dials the router. The context deadline, if any, bounds the
// TCP/SSH handshake.
func (r *Router) Connect(ctx context.Context) error {
	if r.client != nil {
		return nil
	}

	auth, err := r.authMethods()
	if err != nil {
		return err
	}

	config := &ssh.ClientConfig{
		User: r.User,
		Auth: auth,
		// Routers are reached over the management network; host key
		// pinning is left to the operator's ssh_known_hosts workflow.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	if deadline, ok := ctx.Deadline(); ok {
		config.Timeout = time.Until(deadline)
	}

	port := r.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", r.Host, port)

	util.WithRouter(r.Name).Debugf("dialing %s as %s", addr, r.User)
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return fmt.Errorf("%w: SSH dial %s: %v", util.ErrRouterUnreachable, addr, err)
	}
	r.client = client
	return nil
}

func (r *Router) authMethods() ([]ssh.AuthMethod, error) {
	if r.KeyFile != "" {
		key, err := os.ReadFile(r.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parsing key file %s: %w", r.KeyFile, err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	if r.Password != "" {
		return []ssh.AuthMethod{ssh.Password(r.Password)}, nil
	}
	return nil, fmt.Errorf("router %s: no key file or password configured", r.Name)
}

// Close tears down the SSH connection.
func (r *Router) Close() error {
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// ShowBGPConfig runs the BGP config retrieval command and returns the raw
// JSON output. The SSH session is created per call (stateless).
func (r *Router) ShowBGPConfig(ctx context.Context) ([]byte, error) {
	if r.client == nil {
		if err := r.Connect(ctx); err != nil {
			return nil, err
		}
	}

	session, err := r.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("SSH session on %s: %w", r.Name, err)
	}
	defer session.Close()

	output, err := session.Output(showBGPCommand)
	if err != nil {
		return nil, fmt.Errorf("running %q on %s: %w", showBGPCommand, r.Name, err)
	}
	util.WithRouter(r.Name).Debugf("retrieved %d bytes of BGP config", len(output))
	return output, nil
}

// ConfiguredPeers retrieves and parses the router's BGP prefix-limit
// configuration in one step.
func (r *Router) ConfiguredPeers(ctx context.Context) ([]ConfiguredPeer, error) {
	data, err := r.ShowBGPConfig(ctx)
	if err != nil {
		return nil, err
	}
	return ParseBGPGroups(data)
}
