package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EventObserver counts received notifications by op.
type EventObserver interface {
	ObserveRealtimeEvent(op string)
}

// Listener holds a dedicated pgx connection on LISTEN appointments_changed
// and publishes every decoded change on the hub.
type Listener struct {
	dsn     string
	pub     Publisher
	log     *zap.Logger
	metrics EventObserver

	backoff time.Duration
}

func NewListener(dsn string, pub Publisher, log *zap.Logger, metrics EventObserver) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Listener{
		dsn:     dsn,
		pub:     pub,
		log:     log,
		metrics: metrics,
		backoff: time.Second,
	}
}

// Run blocks until ctx is done, reconnecting after connection failures.
func (l *Listener) Run(ctx context.Context) {
	wait := l.backoff
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Warn("realtime listener disconnected", zap.Error(err), zap.Duration("retry_in", wait))

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		if wait < 30*time.Second {
			wait *= 2
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return err
	}
	l.log.Info("realtime listener started", zap.String("channel", Channel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if n == nil {
			return errors.New("nil notification")
		}
		l.handle([]byte(n.Payload))
	}
}

func (l *Listener) handle(payload []byte) {
	c, err := DecodeChange(payload)
	if err != nil {
		l.log.Warn("ignoring realtime payload", zap.Error(err))
		return
	}
	if l.metrics != nil {
		l.metrics.ObserveRealtimeEvent(string(c.Op))
	}
	l.pub.Publish(c)
}
