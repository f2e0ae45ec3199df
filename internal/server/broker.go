package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/ruleta/internal/game"
	"github.com/playperu/ruleta/internal/ruleta"
)

// Broker is an in-process pub/sub for game snapshots, keyed by owner.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded snapshots for the owner.
func (b *Broker) Subscribe(key string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[key] == nil {
		b.subs[key] = make(map[chan []byte]struct{})
	}
	b.subs[key][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the owner's subscribers.
func (b *Broker) Unsubscribe(key string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[key], ch)
	if len(b.subs[key]) == 0 {
		delete(b.subs, key)
	}
	b.mu.Unlock()
}

// Publish sends a snapshot to all subscribers of the owner. It never blocks.
func (b *Broker) Publish(owner ruleta.Owner, snap game.Snapshot) {
	data, _ := json.Marshal(snap)
	b.mu.RLock()
	for ch := range b.subs[owner.Key()] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
