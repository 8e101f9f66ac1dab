package consup

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/yonashaile/consup/dispatch"
)

// Server handles messages in request/reply style. Request is invoked once
// per message, each call in its own unit of work, so implementations must
// be safe for concurrent use.
//
// A non-nil reply is published to the message's reply subject. Returning a
// nil reply with a nil error means the message was handled and no response
// is owed.
type Server interface {
	Request(ctx context.Context, msg *nats.Msg) ([]byte, error)
}

// ErrorHandler can be implemented by a Server to observe handler failures
// before the unit of work is recorded as failed. Typical implementations
// publish an error reply so the requester does not wait for a timeout.
type ErrorHandler interface {
	ServeError(ctx context.Context, msg *nats.Msg, err error)
}

// HandlerFunc processes a single message with no reply semantics.
// Each message is handled in its own unit of work, so implementations must
// be safe for concurrent use.
type HandlerFunc func(ctx context.Context, msg *nats.Msg) error

// newTask wraps one inbound message into a dispatch task according to the
// configured processing mode.
func (c *Controller) newTask(msg *nats.Msg) dispatch.Task {
	if c.cfg.Server != nil {
		return c.serverTask(msg)
	}

	return func(ctx context.Context) error {
		return c.cfg.Handler(ctx, msg)
	}
}

// serverTask builds the request/reply task for one message. Handler errors
// are offered to the server's ErrorHandler (when implemented) and still
// fail the unit of work.
func (c *Controller) serverTask(msg *nats.Msg) dispatch.Task {
	return func(ctx context.Context) error {
		reply, err := c.cfg.Server.Request(ctx, msg)
		if err != nil {
			if eh, ok := c.cfg.Server.(ErrorHandler); ok {
				eh.ServeError(ctx, msg, err)
			}

			return err
		}

		if reply == nil {
			return nil
		}

		if msg.Reply == "" {
			c.logger.Warn("reply produced for message without reply subject",
				"subject", msg.Subject,
				"reply_bytes", len(reply))

			return nil
		}

		if err := msg.Respond(reply); err != nil {
			return fmt.Errorf("failed to respond on %s: %w", msg.Reply, err)
		}

		return nil
	}
}
