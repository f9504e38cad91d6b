package feed

import "testing"

func TestHub_PublishMatchesFilter(t *testing.T) {
	h := NewHub()

	var sellerEvents []Event
	unsubscribe := h.Subscribe(Filter{SellerID: 7}, func(e Event) {
		sellerEvents = append(sellerEvents, e)
	})
	defer unsubscribe()

	var allEvents []Event
	h.Subscribe(Filter{}, func(e Event) {
		allEvents = append(allEvents, e)
	})

	h.Publish(Event{Type: EventOrderCreated, OrderID: 1, SellerID: 7})
	h.Publish(Event{Type: EventOrderCreated, OrderID: 2, SellerID: 8})

	if len(sellerEvents) != 1 || sellerEvents[0].OrderID != 1 {
		t.Errorf("seller filter should only see own events, got %v", sellerEvents)
	}
	if len(allEvents) != 2 {
		t.Errorf("empty filter should see all events, got %d", len(allEvents))
	}
}

func TestHub_TypeFilter(t *testing.T) {
	h := NewHub()

	var got []Event
	h.Subscribe(Filter{Types: []EventType{EventSellerUpdated}}, func(e Event) {
		got = append(got, e)
	})

	h.Publish(Event{Type: EventOrderUpdated, OrderID: 1})
	h.Publish(Event{Type: EventSellerUpdated, SellerID: 7})

	if len(got) != 1 || got[0].Type != EventSellerUpdated {
		t.Errorf("type filter mismatch: %v", got)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()

	n := 0
	unsubscribe := h.Subscribe(Filter{}, func(Event) { n++ })

	h.Publish(Event{Type: EventOrderCreated})
	unsubscribe()
	h.Publish(Event{Type: EventOrderCreated})

	if n != 1 {
		t.Errorf("unsubscribed callback still called, n=%d", n)
	}
}

// Atが未設定なら配信時に埋まる
func TestHub_PublishSetsTimestamp(t *testing.T) {
	h := NewHub()

	var got Event
	h.Subscribe(Filter{}, func(e Event) { got = e })

	h.Publish(Event{Type: EventOrderCreated})

	if got.At.IsZero() {
		t.Error("At should be set on publish")
	}
}
