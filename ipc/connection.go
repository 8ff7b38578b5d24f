package ipc

import (
	"fmt"
	"log/slog"
	"net"
)

// Handler processes a received envelope. Return nil to send no reply.
// A returned error is reported to the peer as an error message.
type Handler func(env Envelope) (*Envelope, error)

// Connection is a single client session. The client names itself in the
// hello handshake.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	Client   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return WriteEnvelope(c.conn, env)
}

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup. A failing request never closes the
// connection; only transport errors do.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "client", c.Client, "error", err)
			return
		}

		resp, err := c.dispatch(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "client", c.Client, "error", err)
			errEnv, mErr := NewEnvelope(TypeError, ErrorMessage{Message: err.Error()})
			if mErr != nil {
				slog.Error("failed to build error reply", "error", mErr)
				continue
			}
			resp = &errEnv
		}

		if resp != nil {
			if err := WriteEnvelope(c.conn, *resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "client", c.Client)
		}
	}
}

func (c *Connection) dispatch(env Envelope) (*Envelope, error) {
	handler, ok := c.handlers[env.Type]
	if !ok {
		slog.Warn("no handler for message type", "type", env.Type)
		return nil, fmt.Errorf("unsupported message type %q", env.Type)
	}
	return handler(env)
}
