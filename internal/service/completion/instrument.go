package completion

import (
	"context"
	"errors"
	"time"
)

// Observer receives one sample per completion call.
type Observer interface {
	ObserveCompletion(operation, status string, elapsed time.Duration)
}

const (
	StatusOK       = "ok"
	StatusUpstream = "upstream_error"
	StatusParse    = "parse_error"
	StatusError    = "error"
)

type instrumented struct {
	next     Completer
	observer Observer
}

// Instrument reports the outcome and latency of every call made through next.
func Instrument(next Completer, observer Observer) Completer {
	if observer == nil {
		return next
	}
	return &instrumented{next: next, observer: observer}
}

func (i *instrumented) Complete(ctx context.Context, req Request) (*Reply, error) {
	start := time.Now()
	reply, err := i.next.Complete(ctx, req)
	i.observer.ObserveCompletion(opComplete, StatusOf(err), time.Since(start))
	return reply, err
}

// StatusOf classifies err into a metric label.
func StatusOf(err error) string {
	var upstream *UpstreamError
	var parse *ParseError
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &upstream):
		return StatusUpstream
	case errors.As(err, &parse):
		return StatusParse
	default:
		return StatusError
	}
}
