package consup

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

// stubServer returns a canned reply and error for every request.
type stubServer struct {
	reply []byte
	err   error
}

func (s *stubServer) Request(_ /* ctx */ context.Context, _ /* msg */ *nats.Msg) ([]byte, error) {
	return s.reply, s.err
}

// stubErrorServer additionally records errors offered to ServeError.
type stubErrorServer struct {
	stubServer

	mu     sync.Mutex
	served []error
}

func (s *stubErrorServer) ServeError(_ /* ctx */ context.Context, _ /* msg */ *nats.Msg, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.served = append(s.served, err)
}

func (s *stubErrorServer) servedErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]error, len(s.served))
	copy(out, s.served)

	return out
}

func TestNewTask_HandlerMode(t *testing.T) {
	var (
		mu       sync.Mutex
		received []*nats.Msg
	)

	ctrl := newTestController(t, func(cfg *Config) {
		cfg.Handler = func(_ /* ctx */ context.Context, msg *nats.Msg) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, msg)

			return nil
		}
	})

	msg := &nats.Msg{Subject: "orders.created", Data: []byte("payload")}

	task := ctrl.newTask(msg)
	require.NoError(t, task(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	require.Same(t, msg, received[0])
}

func TestNewTask_HandlerErrorPropagates(t *testing.T) {
	handlerErr := errors.New("boom")

	ctrl := newTestController(t, func(cfg *Config) {
		cfg.Handler = func(_ /* ctx */ context.Context, _ /* msg */ *nats.Msg) error {
			return handlerErr
		}
	})

	task := ctrl.newTask(&nats.Msg{Subject: "orders.created"})
	require.ErrorIs(t, task(context.Background()), handlerErr)
}

func TestServerTask_NilReplyMeansNoResponse(t *testing.T) {
	ctrl := newTestController(t, func(cfg *Config) {
		cfg.Handler = nil
		cfg.Server = &stubServer{reply: nil, err: nil}
	})

	// An unbound message would fail Respond, so a nil error here proves no
	// response was attempted.
	task := ctrl.newTask(&nats.Msg{Subject: "rpc.ping", Reply: "_INBOX.1"})
	require.NoError(t, task(context.Background()))
}

func TestServerTask_ErrorOfferedToErrorHandler(t *testing.T) {
	requestErr := errors.New("lookup failed")

	srv := &stubErrorServer{stubServer: stubServer{err: requestErr}}
	ctrl := newTestController(t, func(cfg *Config) {
		cfg.Handler = nil
		cfg.Server = srv
	})

	task := ctrl.newTask(&nats.Msg{Subject: "rpc.lookup", Reply: "_INBOX.2"})

	err := task(context.Background())
	require.ErrorIs(t, err, requestErr)

	served := srv.servedErrors()
	require.Len(t, served, 1)
	require.ErrorIs(t, served[0], requestErr)
}

func TestServerTask_ErrorWithoutErrorHandler(t *testing.T) {
	requestErr := errors.New("lookup failed")

	ctrl := newTestController(t, func(cfg *Config) {
		cfg.Handler = nil
		cfg.Server = &stubServer{err: requestErr}
	})

	task := ctrl.newTask(&nats.Msg{Subject: "rpc.lookup", Reply: "_INBOX.3"})
	require.ErrorIs(t, task(context.Background()), requestErr)
}

func TestServerTask_ReplyWithoutReplySubject(t *testing.T) {
	ctrl := newTestController(t, func(cfg *Config) {
		cfg.Handler = nil
		cfg.Server = &stubServer{reply: []byte("pong")}
	})

	// The reply is dropped with a warning; the unit of work still succeeds
	task := ctrl.newTask(&nats.Msg{Subject: "rpc.ping"})
	require.NoError(t, task(context.Background()))
}

func TestServerTask_RespondFailureFailsUnit(t *testing.T) {
	ctrl := newTestController(t, func(cfg *Config) {
		cfg.Handler = nil
		cfg.Server = &stubServer{reply: []byte("pong")}
	})

	// A message that never came from a subscription cannot be responded to
	task := ctrl.newTask(&nats.Msg{Subject: "rpc.ping", Reply: "_INBOX.4"})

	err := task(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, nats.ErrMsgNotBound)
	require.Contains(t, err.Error(), "failed to respond")
}
