package server

import "sync"

// changeHubs wakes held long-polls when a list changes. One hub per list;
// subscriber channels have capacity 1 so a notify never blocks a writer.
type changeHubs struct {
	mu   sync.Mutex
	hubs map[int]map[chan struct{}]struct{}
}

func newChangeHubs() *changeHubs {
	return &changeHubs{hubs: map[int]map[chan struct{}]struct{}{}}
}

func (h *changeHubs) subscribe(listID int) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	subs := h.hubs[listID]
	if subs == nil {
		subs = map[chan struct{}]struct{}{}
		h.hubs[listID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.hubs[listID], ch)
		if len(h.hubs[listID]) == 0 {
			delete(h.hubs, listID)
		}
		h.mu.Unlock()
	}
}

func (h *changeHubs) notify(listID int) {
	h.mu.Lock()
	for ch := range h.hubs[listID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}
