package consup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/yonashaile/consup/dispatch"
	"github.com/yonashaile/consup/internal/hooks"
	"github.com/yonashaile/consup/internal/logging"
	"github.com/yonashaile/consup/internal/metrics"
	"github.com/yonashaile/consup/registry"
	"github.com/yonashaile/consup/types"
)

// Controller supervises message consumption from a named connection.
//
// Controller is the main entry point of the consup library. It handles:
//   - Resolving the named connection through a registry, with retry
//   - Establishing topic subscriptions once the connection is available
//   - Dispatching every message as a panic-isolated unit of work
//   - Detecting connection loss and resubscribing once the registry serves
//     a live connection again
//   - Orderly shutdown that waits for in-flight work to finish
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - State transitions are atomic and linearizable
//   - Connection and subscription handles are owned by the run loop
//
// Lifecycle:
//   - Create with New()
//   - Call Start() to begin resolving the connection and consuming
//   - Use hooks to react to connection and state changes
//   - Call Stop() for orderly shutdown
//
// Testing:
// Consumers can define minimal interfaces for mocking:
//
//	type MessageConsumer interface {
//	    Start(ctx context.Context) error
//	    Stop(ctx context.Context) error
//	}
type Controller struct {
	cfg      Config
	registry registry.Registry

	// Optional dependencies
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger

	// Connection state owned by the run loop
	conn *nats.Conn
	subs []*nats.Subscription

	// Unit-of-work pool, replaced when it terminates unexpectedly
	pool atomic.Pointer[dispatch.Pool]

	// Inbound messages from all subscriptions
	mailbox chan *nats.Msg

	// Closed-connection events from watcher goroutines
	connDown chan *nats.Conn

	// State management
	state    atomic.Int32 // State
	subjects atomic.Value // []string

	// Lifecycle management
	ctx      context.Context
	cancel   context.CancelFunc
	stopCh   chan struct{}
	done     chan struct{}
	stopping bool
	runErr   error
	mu       sync.RWMutex
}

// New creates a new Controller instance with the provided configuration.
//
// The Controller consumes messages from a connection resolved by name
// through the registry:
//   - The connection is borrowed, never owned; the controller does not dial
//   - Topic subscriptions are established in the configured order
//   - Each message is processed in its own panic-isolated unit of work
//   - Connection loss suspends consumption until the registry serves a live
//     connection again
//
// Returns a concrete *Controller struct following the "accept interfaces,
// return structs" principle. Consumers can define their own interfaces for
// testing if needed.
//
// Parameters:
//   - cfg: Runtime configuration with parsed durations
//   - reg: Registry that resolves the named connection
//   - opts: Optional configuration (hooks, metrics, logger)
//
// Returns:
//   - *Controller: Initialized controller instance
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	cfg := consup.Config{
//		ConnectionName: "orders",
//		Subscriptions:  []consup.TopicSubscription{{Topic: "orders.>"}},
//		Handler: func(ctx context.Context, msg *nats.Msg) error {
//			return process(msg.Data)
//		},
//	}
//	reg := registry.NewStatic(map[string]*nats.Conn{"orders": conn})
//	ctrl, err := consup.New(&cfg, reg)
func New(cfg *Config, reg registry.Registry, opts ...Option) (*Controller, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if reg == nil {
		return nil, ErrRegistryRequired
	}
	if cfg.Server == nil && cfg.Handler == nil {
		return nil, ErrHandlerRequired
	}
	if cfg.Server != nil && cfg.Handler != nil {
		return nil, ErrHandlerConflict
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Apply options
	options := &controllerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := options.hooks
	if hooksInstance == nil {
		nopHooks := hooks.NewNop()
		hooksInstance = &nopHooks
	}

	c := &Controller{
		cfg:      *cfg,
		registry: reg,
		hooks:    hooksInstance,
		metrics:  metricsCollector,
		logger:   loggerInstance,
		mailbox:  make(chan *nats.Msg, cfg.MailboxSize),
		connDown: make(chan *nats.Conn, 4),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}

	// Initialize state
	c.state.Store(int32(StateInit))
	c.subjects.Store([]string{})

	return c, nil
}

// Start launches the controller's run loop.
//
// Start returns as soon as the loop is running; the connection is resolved
// asynchronously and retried until the registry serves it. Cancelling ctx
// terminates the controller abnormally: in-flight work is abandoned with a
// log entry and no drain is performed. Use Stop for orderly shutdown.
//
// Parameters:
//   - ctx: Lifecycle context for the controller
//
// Returns:
//   - error: ErrAlreadyStarted if the controller is already running
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.ctx != nil {
		c.mu.Unlock()

		return ErrAlreadyStarted
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.pool.Store(dispatch.New(dispatch.Config{
		Logger:  c.logger,
		Metrics: c.metrics,
	}))

	c.transitionState(StateInit, StateDisconnected)

	go c.run()

	return nil
}

// Stop performs an orderly shutdown.
//
// Subscriptions are torn down in order, messages already queued keep being
// dispatched for the settle window, and the controller then polls until
// every in-flight unit of work has finished. There is no internal deadline;
// ctx only bounds how long the caller waits. When ctx expires first, Stop
// returns ErrShutdownAbandoned and the drain continues in the background.
//
// Safe to call multiple times - subsequent calls will return ErrNotStarted.
//
// Parameters:
//   - ctx: Context bounding how long the caller waits for the drain
//
// Returns:
//   - error: Teardown error, ErrShutdownAbandoned, or ErrNotStarted
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()

	// Check if never started
	if c.ctx == nil {
		c.mu.Unlock()

		return ErrNotStarted
	}

	// Check if already stopping or stopped (concurrent Stop() call)
	if c.stopping || c.State() == StateStopped {
		c.mu.Unlock()

		return ErrNotStarted
	}

	c.stopping = true
	c.mu.Unlock()

	close(c.stopCh)

	select {
	case <-c.done:
		c.mu.RLock()
		err := c.runErr
		c.mu.RUnlock()

		return err
	case <-ctx.Done():
		c.logError("shutdown abandoned by caller, drain continues in background",
			"connection", c.cfg.ConnectionName,
			"pending", c.Pending())

		return fmt.Errorf("%w: %v", ErrShutdownAbandoned, ctx.Err())
	}
}

// State returns the current controller state.
//
// Returns:
//   - State: Current state
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Done returns a channel that is closed once the controller has fully
// stopped, whether by Stop, context cancellation, or a fatal error.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Err returns the terminal error of the controller, or nil after a clean
// stop. It is meaningful once Done() is closed.
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.runErr
}

// Pending returns the number of units of work currently in flight.
//
// Returns:
//   - int: In-flight unit count (0 before Start)
func (c *Controller) Pending() int {
	if p := c.pool.Load(); p != nil {
		return p.Pending()
	}

	return 0
}

// ActiveSubjects returns a copy of the currently subscribed subjects.
// The slice is empty unless the controller is connected.
//
// Returns:
//   - []string: Subscribed subjects (copy)
func (c *Controller) ActiveSubjects() []string {
	v := c.subjects.Load()
	if v == nil {
		return nil
	}

	subjects, ok := v.([]string)
	if !ok || len(subjects) == 0 {
		return nil
	}

	out := make([]string, len(subjects))
	copy(out, subjects)

	return out
}

// WaitState waits for the controller to reach the expected state within the timeout period.
//
// This method is useful for testing and synchronization scenarios where you need to
// wait for the controller to reach a specific state before proceeding.
//
// The method returns a read-only channel that will receive exactly one value:
//   - nil if the expected state is reached within the timeout
//   - context.DeadlineExceeded if the timeout expires before reaching the state
//
// The channel is closed after sending the result, allowing safe use in select statements.
//
// Parameters:
//   - expectedState: The state to wait for
//   - timeout: Maximum duration to wait for the state
//
// Returns:
//   - <-chan error: A channel that receives the result (nil on success, error on timeout)
//
// Example:
//
//	// Wait for the controller to start consuming
//	errCh := ctrl.WaitState(consup.StateConnected, 10*time.Second)
//	if err := <-errCh; err != nil {
//	    log.Printf("failed to reach Connected state: %v", err)
//	}
//
//	// Using with select for multiple operations
//	select {
//	case err := <-ctrl.WaitState(consup.StateConnected, 5*time.Second):
//	    if err != nil {
//	        return fmt.Errorf("timeout waiting for connected state: %w", err)
//	    }
//	case <-ctx.Done():
//	    return ctx.Err()
//	}
func (c *Controller) WaitState(expectedState State, timeout time.Duration) <-chan error {
	ch := make(chan error, 1) // Buffered to prevent goroutine leak

	go func() {
		defer close(ch)

		// Check if already in expected state
		if c.State() == expectedState {
			ch <- nil
			return
		}

		// Poll for state changes
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		timeoutTimer := time.NewTimer(timeout)
		defer timeoutTimer.Stop()

		for {
			select {
			case <-ticker.C:
				if c.State() == expectedState {
					ch <- nil
					return
				}
			case <-timeoutTimer.C:
				ch <- context.DeadlineExceeded
				return
			}
		}
	}()

	return ch
}

// run is the controller's event loop. All connection and subscription state
// is owned by this goroutine; external goroutines communicate through
// channels only.
func (c *Controller) run() {
	var runErr error

	defer func() {
		c.mu.Lock()
		c.runErr = runErr
		c.mu.Unlock()

		c.transitionState(c.State(), StateStopped)
		c.cancel()

		if p := c.pool.Load(); p != nil {
			p.Close()
		}

		close(c.done)
	}()

	connectTimer := time.NewTimer(0) // first registry lookup runs immediately
	defer connectTimer.Stop()

	for {
		pool := c.pool.Load()

		select {
		case <-c.ctx.Done():
			c.logError("terminating without drain",
				"connection", c.cfg.ConnectionName,
				"pending_abandoned", pool.Pending(),
				"reason", context.Cause(c.ctx))

			runErr = fmt.Errorf("run loop canceled: %w", context.Cause(c.ctx))
			c.fireError(runErr)

			return

		case <-c.stopCh:
			runErr = c.shutdown()

			return

		case <-connectTimer.C:
			if c.conn != nil {
				break
			}

			connected, err := c.establishSubscriptions()
			if err != nil {
				c.logError("failed to establish subscriptions, terminating",
					"connection", c.cfg.ConnectionName,
					"error", err)

				runErr = err
				c.fireError(err)

				return
			}

			if !connected {
				connectTimer.Reset(c.cfg.ReconnectWait)
			}

		case down := <-c.connDown:
			if down != c.conn {
				c.logger.Debug("ignoring closed-connection event for replaced connection",
					"connection", c.cfg.ConnectionName)

				break
			}

			c.handleConnectionLost()
			connectTimer.Reset(c.cfg.ReconnectWait)

		case msg := <-c.mailbox:
			if c.conn == nil {
				c.logger.Warn("dropping message received while disconnected",
					"subject", msg.Subject)

				break
			}

			c.dispatchMessage(msg)

		case res := <-pool.Results():
			c.handleResult(res)

		case <-pool.Done():
			c.restartPool()
		}
	}
}

// establishSubscriptions resolves the named connection and subscribes to
// every configured topic in order.
//
// Returns false with a nil error when the registry does not yet serve a
// live connection; the caller retries after ReconnectWait. A subscription
// error is fatal: partially created subscriptions are released best-effort
// and the controller terminates.
func (c *Controller) establishSubscriptions() (bool, error) {
	conn, ok := c.registry.Lookup(c.cfg.ConnectionName)
	if !ok || conn == nil || conn.IsClosed() {
		c.metrics.RecordConnectAttempt(c.cfg.ConnectionName, false)
		c.logger.Debug("connection not available, retrying",
			"connection", c.cfg.ConnectionName,
			"retry_in", c.cfg.ReconnectWait)

		return false, nil
	}

	subs := make([]*nats.Subscription, 0, len(c.cfg.Subscriptions))
	subjects := make([]string, 0, len(c.cfg.Subscriptions))

	for _, topic := range c.cfg.Subscriptions {
		var (
			sub *nats.Subscription
			err error
		)

		if topic.QueueGroup != "" {
			sub, err = conn.ChanQueueSubscribe(topic.Topic, topic.QueueGroup, c.mailbox)
		} else {
			sub, err = conn.ChanSubscribe(topic.Topic, c.mailbox)
		}

		if err != nil {
			c.metrics.RecordConnectAttempt(c.cfg.ConnectionName, false)
			c.releaseSubscriptions(subs)

			return false, fmt.Errorf("%w: topic %s: %v", ErrSubscribeFailed, topic.Topic, err)
		}

		subs = append(subs, sub)
		subjects = append(subjects, topic.Topic)
	}

	c.conn = conn
	c.subs = subs
	c.subjects.Store(subjects)
	c.watchConnection(conn)

	c.metrics.RecordConnectAttempt(c.cfg.ConnectionName, true)
	c.metrics.RecordActiveSubscriptions(len(subs))

	c.logger.Info("consuming from connection",
		"connection", c.cfg.ConnectionName,
		"subscriptions", len(subs))

	c.transitionState(StateDisconnected, StateConnected)
	c.fireConnected()

	return true, nil
}

// watchConnection reports the closing of conn to the run loop. The handle
// travels with the event so the loop can ignore reports about connections
// it has already replaced.
func (c *Controller) watchConnection(conn *nats.Conn) {
	statusCh := conn.StatusChanged(nats.CLOSED)

	go func() {
		select {
		case <-statusCh:
			// CLOSED was delivered, or the connection tore the listener
			// channel down. Either way the connection is gone.
		case <-c.ctx.Done():
			return
		}

		select {
		case c.connDown <- conn:
		case <-c.ctx.Done():
		}
	}()
}

// handleConnectionLost clears the dead connection and falls back to
// retrying the registry lookup. Subscriptions died with the connection, so
// there is nothing to unsubscribe.
func (c *Controller) handleConnectionLost() {
	c.logger.Warn("connection closed, consumption suspended",
		"connection", c.cfg.ConnectionName,
		"retry_in", c.cfg.ReconnectWait)

	c.metrics.RecordConnectionLost(c.cfg.ConnectionName)

	c.conn = nil
	c.subs = nil
	c.subjects.Store([]string{})
	c.metrics.RecordActiveSubscriptions(0)

	c.transitionState(StateConnected, StateDisconnected)
	c.fireDisconnected()
}

// dispatchMessage hands one message to the pool as a unit of work.
func (c *Controller) dispatchMessage(msg *nats.Msg) {
	pool := c.pool.Load()

	if err := pool.Submit(c.ctx, msg.Subject, c.newTask(msg)); err != nil {
		c.logError("failed to dispatch message",
			"subject", msg.Subject,
			"error", err)
	}
}

// handleResult records the outcome of one finished unit of work.
func (c *Controller) handleResult(res dispatch.Result) {
	if res.Success() {
		c.logger.Debug("unit of work completed",
			"unit_id", res.UnitID,
			"subject", res.Label,
			"elapsed", res.Elapsed)

		return
	}

	c.logError("unit of work failed",
		"unit_id", res.UnitID,
		"subject", res.Label,
		"panicked", res.Panicked,
		"elapsed", res.Elapsed,
		"error", res.Err)
	c.fireError(res.Err)
}

// restartPool replaces a pool that terminated outside of shutdown.
// Consumption continues on the fresh pool; results of the old pool's
// in-flight units are lost.
func (c *Controller) restartPool() {
	old := c.pool.Load()

	c.logError("unit-of-work pool terminated unexpectedly, recreating",
		"pending_lost", old.Pending(),
		"dropped_results", old.DroppedResults())

	c.pool.Store(dispatch.New(dispatch.Config{
		Logger:  c.logger,
		Metrics: c.metrics,
	}))

	c.metrics.RecordPoolRestart()
}

// shutdown runs the orderly shutdown sequence: tear down subscriptions in
// order, keep dispatching already-queued messages for the settle window,
// then poll until every in-flight unit of work has finished.
func (c *Controller) shutdown() error {
	c.transitionState(c.State(), StateShuttingDown)

	pool := c.pool.Load()

	var teardownErr error

	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			if types.IsConnectionClosedError(err) {
				continue
			}

			c.logError("failed to unsubscribe", "subject", sub.Subject, "error", err)
			teardownErr = errors.Join(teardownErr, fmt.Errorf("unsubscribe %s: %w", sub.Subject, err))
		}
	}

	c.conn = nil
	c.subs = nil
	c.subjects.Store([]string{})
	c.metrics.RecordActiveSubscriptions(0)

	// Messages queued before the unsubscribes took effect still get
	// dispatched during the settle window.
	settle := time.NewTimer(c.cfg.ShutdownSettle)
	defer settle.Stop()

settling:
	for {
		select {
		case msg := <-c.mailbox:
			c.dispatchMessage(msg)
		case res := <-pool.Results():
			c.handleResult(res)
		case <-settle.C:
			break settling
		}
	}

	start := time.Now()

	for {
		pending := pool.Pending()
		if pending == 0 {
			break
		}

		c.logger.Info("waiting for in-flight units of work",
			"pending", pending,
			"subjects", pool.Snapshot())

		poll := time.NewTimer(c.cfg.DrainPollInterval)

	polling:
		for {
			select {
			case msg := <-c.mailbox:
				c.logger.Warn("dropping message received after unsubscribe",
					"subject", msg.Subject)
			case res := <-pool.Results():
				c.handleResult(res)
			case <-poll.C:
				break polling
			}
		}
	}

	c.metrics.RecordDrainDuration(time.Since(start).Seconds())

	c.logger.Info("all units of work finished, stopping",
		"connection", c.cfg.ConnectionName)

	return teardownErr
}

// releaseSubscriptions unsubscribes best-effort, tolerating dead
// connections.
func (c *Controller) releaseSubscriptions(subs []*nats.Subscription) {
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil && !types.IsConnectionClosedError(err) {
			c.logger.Debug("failed to release subscription",
				"subject", sub.Subject,
				"error", err)
		}
	}
}

// transitionState transitions to a new state and triggers hooks.
func (c *Controller) transitionState(from, to State) {
	// Validate state transition
	if !c.isValidTransition(from, to) {
		c.logError("invalid state transition attempted",
			"from", from.String(),
			"to", to.String(),
		)

		return
	}

	c.state.Store(int32(to)) //nolint:gosec // State values are controlled enum

	c.logger.Info("state transition",
		"from", from.String(),
		"to", to.String(),
		"connection", c.cfg.ConnectionName,
	)

	// Trigger state change hook
	if c.hooks.OnStateChanged != nil {
		// Run hook in background to avoid blocking the run loop
		go func() {
			if err := c.hooks.OnStateChanged(c.ctx, from, to); err != nil {
				c.logError("state change hook error", "from", from, "to", to, "error", err)
			}
		}()
	}

	// Record metrics (always non-nil, defaults to nopMetrics)
	c.metrics.RecordStateTransition(from, to, 0)
}

// isValidTransition validates that a state transition is allowed.
//
// Returns:
//   - bool: true if transition is valid, false otherwise
func (c *Controller) isValidTransition(from, to State) bool {
	// Define valid state transitions
	validTransitions := map[State][]State{
		StateInit:         {StateDisconnected, StateStopped},
		StateDisconnected: {StateConnected, StateShuttingDown, StateStopped},
		StateConnected:    {StateDisconnected, StateShuttingDown, StateStopped},
		StateShuttingDown: {StateStopped},
		StateStopped:      {}, // Terminal state - no transitions allowed
	}

	allowedStates, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, allowed := range allowedStates {
		if allowed == to {
			return true
		}
	}

	return false
}

// fireConnected invokes the OnConnected hook in the background.
func (c *Controller) fireConnected() {
	if c.hooks.OnConnected == nil {
		return
	}

	go func() {
		if err := c.hooks.OnConnected(c.ctx, c.cfg.ConnectionName); err != nil {
			c.logError("connected hook error", "connection", c.cfg.ConnectionName, "error", err)
		}
	}()
}

// fireDisconnected invokes the OnDisconnected hook in the background.
func (c *Controller) fireDisconnected() {
	if c.hooks.OnDisconnected == nil {
		return
	}

	go func() {
		if err := c.hooks.OnDisconnected(c.ctx, c.cfg.ConnectionName); err != nil {
			c.logError("disconnected hook error", "connection", c.cfg.ConnectionName, "error", err)
		}
	}()
}

// fireError invokes the OnError hook in the background.
func (c *Controller) fireError(err error) {
	if c.hooks.OnError == nil || err == nil {
		return
	}

	go func() {
		if hookErr := c.hooks.OnError(c.ctx, err); hookErr != nil {
			c.logError("error hook failed", "error", hookErr)
		}
	}()
}

// logError logs an error message.
func (c *Controller) logError(msg string, keysAndValues ...any) {
	// Logger is always non-nil (defaults to nopLogger)
	c.logger.Error(msg, keysAndValues...)
}
