package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"crm-gateway/pkg/models"

	"github.com/gorilla/websocket"
)

// Listener holds one live subscription to the mail provider's delivery-status
// feed, scoped to a single deal. Events for other deals are ignored; matching
// events reach the callback with no buffering or ordering guarantee, last
// write wins per email id. The connection reconnects after a fixed delay and
// Deactivate tears everything down.
type Listener struct {
	url     string
	tratoID uint
	onEvent func(correoID, estado string)
	retry   time.Duration
	dialer  *websocket.Dialer

	mu     sync.Mutex
	cancel context.CancelFunc
	active bool
}

const reconnectDelay = 5 * time.Second

func NewListener(url string, tratoID uint, onEvent func(correoID, estado string)) *Listener {
	return &Listener{
		url:     url,
		tratoID: tratoID,
		onEvent: onEvent,
		retry:   reconnectDelay,
		dialer:  websocket.DefaultDialer,
	}
}

// Activate starts the subscription loop. Calling it on an active listener is
// a no-op.
func (l *Listener) Activate() {
	l.mu.Lock()
	if l.active {
		l.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.active = true
	l.mu.Unlock()

	go l.run(ctx)
}

// Deactivate closes the connection and stops reconnecting.
func (l *Listener) Deactivate() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.active = false
	l.mu.Unlock()
}

func (l *Listener) run(ctx context.Context) {
	for {
		conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
		if err != nil {
			log.Printf("Delivery feed dial error: %v", err)
			if !sleepOrDone(ctx, l.retry) {
				return
			}
			continue
		}

		closed := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-closed:
			}
		}()

		l.readLoop(conn)
		conn.Close()
		close(closed)

		if !sleepOrDone(ctx, l.retry) {
			return
		}
	}
}

func (l *Listener) readLoop(conn *websocket.Conn) {
	for {
		var ev models.DeliveryEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}
		if ev.TratoID != l.tratoID {
			continue
		}
		l.onEvent(ev.CorreoID, ev.Estado)
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
