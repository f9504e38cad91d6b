// Package feed は注文・出品者の変更通知を配るオブザーバハブ。
// 購読者はフィルタ付きで登録し、解除は返されたunsubscribeを呼ぶだけ。
package feed

import (
	"sync"
	"time"
)

type EventType string

const (
	EventOrderCreated  EventType = "ORDER_CREATED"
	EventOrderUpdated  EventType = "ORDER_UPDATED"
	EventSellerUpdated EventType = "SELLER_UPDATED"
)

type Event struct {
	Type       EventType `json:"type"`
	OrderID    int64     `json:"order_id,omitempty"`
	SellerID   int64     `json:"seller_id,omitempty"`
	CustomerID int64     `json:"customer_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	At         time.Time `json:"at"`
}

// ゼロ値のフィールドは「条件なし」
type Filter struct {
	SellerID   int64
	CustomerID int64
	Types      []EventType
}

func (f Filter) matches(e Event) bool {
	if f.SellerID != 0 && f.SellerID != e.SellerID {
		return false
	}
	if f.CustomerID != 0 && f.CustomerID != e.CustomerID {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == e.Type {
			return true
		}
	}
	return false
}

type subscriber struct {
	filter Filter
	fn     func(Event)
}

type Hub struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[int64]subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]subscriber)}
}

// Subscribe は購読を登録し、解除用の関数を返す。
func (h *Hub) Subscribe(f Filter, fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = subscriber{filter: f, fn: fn}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Publish は一致する購読者全員にイベントを配る。
// コールバックはロック外で呼ぶ（コールバック内のSubscribe/unsubscribeを許すため）。
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.RLock()
	matched := make([]func(Event), 0, len(h.subs))
	for _, s := range h.subs {
		if s.filter.matches(e) {
			matched = append(matched, s.fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range matched {
		fn(e)
	}
}
