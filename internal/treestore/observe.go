package treestore

import (
	"strings"
	"sync"
)

// Subscription is a live-updating read of a path. C fires the value at the
// path after every overlapping write. The channel is buffered; a consumer
// that falls behind drops updates instead of blocking writers.
type Subscription struct {
	C    chan any
	path string
	reg  *registry
}

// Close detaches the subscription and closes C.
func (sub *Subscription) Close() {
	sub.reg.remove(sub)
}

type event struct {
	key  string
	root any
}

type registry struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func newRegistry() *registry {
	return &registry{subs: map[*Subscription]struct{}{}}
}

// Observe registers a live read of path. The first value fires on the next
// overlapping write; callers wanting the current value pair it with Get.
func (s *Store) Observe(path string) *Subscription {
	sub := &Subscription{
		C:    make(chan any, 16),
		path: strings.Trim(path, "/"),
		reg:  s.watch,
	}
	s.watch.mu.Lock()
	s.watch.subs[sub] = struct{}{}
	s.watch.mu.Unlock()
	return sub
}

func (r *registry) remove(sub *Subscription) {
	r.mu.Lock()
	if _, ok := r.subs[sub]; ok {
		delete(r.subs, sub)
		close(sub.C)
	}
	r.mu.Unlock()
}

// notify delivers the post-write value to every subscription whose path
// overlaps the written document.
func (r *registry) notify(ev event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for sub := range r.subs {
		segs := strings.Split(sub.path, "/")
		if segs[0] != ev.key {
			continue
		}
		select {
		case sub.C <- valueAt(ev.root, segs[1:]):
		default:
		}
	}
}
