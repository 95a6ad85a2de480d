package realtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Router decodes frames and hands each event to the handler synchronously,
// in arrival order. Nothing is buffered or acknowledged.
type Router struct {
	handler Handler
	logger  *zap.Logger
}

func NewRouter(h Handler, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{handler: h, logger: logger}
}

// Route handles a single envelope. Unknown kinds and undecodable payloads
// are logged and dropped; the error is returned for the caller's benefit.
func (r *Router) Route(raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.logger.Warn("dropping malformed realtime frame", zap.Error(err))
		return fmt.Errorf("realtime envelope: %w", err)
	}

	ev, err := Decode(env)
	if err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			r.logger.Debug("ignoring realtime event", zap.String("event", env.Event))
		} else {
			r.logger.Warn("dropping realtime event", zap.String("event", env.Event), zap.Error(err))
		}
		return err
	}

	r.logger.Debug("realtime event", zap.String("event", string(ev.Kind())))
	Dispatch(ev, r.handler)
	return nil
}

// RouteFrame handles a websocket message that may batch several envelopes
// separated by newlines.
func (r *Router) RouteFrame(frame []byte) {
	for _, part := range bytes.Split(frame, []byte{'\n'}) {
		part = bytes.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		_ = r.Route(part)
	}
}
