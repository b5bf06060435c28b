package realtime

import (
	"sync"
)

// Feed fans the provider's delivery-status stream out to per-deal listeners.
// A listener is started the first time a deal is watched and kept until Close.
type Feed struct {
	url     string
	onEvent func(tratoID uint, correoID, estado string)

	mu        sync.Mutex
	listeners map[uint]*Listener
}

func NewFeed(url string, onEvent func(tratoID uint, correoID, estado string)) *Feed {
	return &Feed{
		url:       url,
		onEvent:   onEvent,
		listeners: make(map[uint]*Listener),
	}
}

// Ensure activates the listener for a deal. Repeated calls for the same deal
// are no-ops.
func (f *Feed) Ensure(tratoID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.listeners[tratoID]; ok {
		return
	}
	l := NewListener(f.url, tratoID, func(correoID, estado string) {
		f.onEvent(tratoID, correoID, estado)
	})
	f.listeners[tratoID] = l
	l.Activate()
}

// Close deactivates every listener.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, l := range f.listeners {
		l.Deactivate()
		delete(f.listeners, id)
	}
}
