// Package netwatch observes udev netlink events for the network interface a
// command channel is named after. The channel itself never touches the
// interface; the watcher only surfaces lifecycle events so operators can see
// when the underlying interface appears or disappears while the channel keeps
// serving.
package netwatch

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"cmdchan/internal/logging"
)

// Event describes one lifecycle change of the watched interface.
type Event struct {
	Action    string
	Interface string
}

// Monitor listens for udev netlink events concerning one named interface.
type Monitor struct {
	logger  *slog.Logger
	handler func(ctx context.Context, event Event)
	ifname  string

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// New creates a monitor for the named interface. It returns nil when no
// interface name is configured; a nil monitor is safe to Start and Stop.
func New(logger *slog.Logger, ifname string, handler func(ctx context.Context, event Event)) *Monitor {
	ifname = strings.TrimSpace(ifname)
	if ifname == "" {
		return nil
	}
	return &Monitor{
		logger:  logging.NewComponentLogger(logger, "netwatch"),
		handler: handler,
		ifname:  ifname,
	}
}

// Start begins listening for udev netlink events. A failure to connect to
// the netlink socket is logged and tolerated; the command channel works
// without interface visibility.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; interface events will not be reported",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the daemon has permission to access netlink sockets"),
			logging.String(logging.FieldImpact, "interface lifecycle visibility unavailable"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("interface watcher started",
		logging.String(logging.FieldEventType, "netwatch_started"),
		logging.String(logging.FieldInterface, m.ifname),
	)
	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("interface watcher stopped",
		logging.String(logging.FieldEventType, "netwatch_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, m.buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "netlink_monitor_error"),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "interface events may be missed"),
			)
		}
	}
}

// buildMatcher selects add/remove events for network interfaces.
func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "net",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	ifname := uevent.Env["INTERFACE"]
	if ifname == "" {
		// Fall back to the kobject path tail (e.g. /devices/virtual/net/net0).
		parts := strings.Split(uevent.KObj, "/")
		if len(parts) > 0 {
			ifname = parts[len(parts)-1]
		}
	}
	if ifname == "" {
		m.logger.Debug("ignoring event without interface name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	if ifname != m.ifname {
		m.logger.Debug("ignoring event for other interface",
			logging.String(logging.FieldInterface, ifname),
			logging.String("watched_interface", m.ifname),
		)
		return
	}

	event := Event{Action: string(uevent.Action), Interface: ifname}
	switch event.Action {
	case "remove":
		m.logger.Warn("watched interface removed",
			logging.String(logging.FieldEventType, "interface_removed"),
			logging.String(logging.FieldInterface, ifname),
			logging.String(logging.FieldImpact, "command channel keeps serving; commands may target a missing interface"),
		)
	default:
		m.logger.Info("watched interface event",
			logging.String(logging.FieldEventType, "interface_event"),
			logging.String(logging.FieldInterface, ifname),
			logging.String("action", event.Action),
		)
	}

	if m.handler != nil {
		m.handler(ctx, event)
	}
}
