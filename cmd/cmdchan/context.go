package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"cmdchan/internal/client"
	"cmdchan/internal/clid"
	"cmdchan/internal/config"
)

type commandContext struct {
	socketFlag    *string
	configFlag    *string
	interfaceFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag, interfaceFlag *string) *commandContext {
	return &commandContext{
		socketFlag:    socketFlag,
		configFlag:    configFlag,
		interfaceFlag: interfaceFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// interfaceName resolves the logical interface, preferring the flag over the
// config and falling back to the built-in default.
func (c *commandContext) interfaceName() string {
	if c.interfaceFlag != nil && strings.TrimSpace(*c.interfaceFlag) != "" {
		return strings.TrimSpace(*c.interfaceFlag)
	}
	if cfg, err := c.ensureConfig(); err == nil && strings.TrimSpace(cfg.Daemon.Interface) != "" {
		return cfg.Daemon.Interface
	}
	return clid.DefaultInterfaceName
}

func (c *commandContext) channelPaths() (clid.Paths, error) {
	runtimeDir := ""
	if cfg, err := c.ensureConfig(); err == nil {
		runtimeDir = cfg.Paths.RuntimeDir
	}
	return clid.ResolvePaths(runtimeDir, c.interfaceName())
}

func (c *commandContext) socketPath() (string, error) {
	if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
		return strings.TrimSpace(*c.socketFlag), nil
	}
	paths, err := c.channelPaths()
	if err != nil {
		return "", err
	}
	return paths.Socket, nil
}

func (c *commandContext) withClient(fn func(*client.Client) error) error {
	socket, err := c.socketPath()
	if err != nil {
		return err
	}
	cl, err := client.Dial(socket)
	if err != nil {
		return wrapDialError(err, socket)
	}
	defer cl.Close()
	return fn(cl)
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `cmdchand`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
