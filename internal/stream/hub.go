// Package stream fans live tree updates out to websocket clients. Each
// client watches one tree path; the hub holds a single store subscription
// per watched path and tears it down when the last client leaves. With a
// Redis client attached, updates also travel cross-process via pub/sub.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/recruiterhub/backend/internal/treestore"
)

type Hub struct {
	store  *treestore.Store
	redis  *redis.Client
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	watches map[string]*watch
}

type Client struct {
	Path string
	Send chan []byte
}

// watch is one store subscription shared by every client on a path.
type watch struct {
	sub  *treestore.Subscription
	done chan struct{}
}

func NewHub(store *treestore.Store, redisClient *redis.Client, logger *slog.Logger) *Hub {
	h := &Hub{
		store:   store,
		redis:   redisClient,
		logger:  logger,
		clients: map[string]map[*Client]struct{}{},
		watches: map[string]*watch{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

// Register attaches a client to a tree path. The first client on a path
// opens the store subscription behind it.
func (h *Hub) Register(path string) *Client {
	client := &Client{
		Path: path,
		Send: make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[path] == nil {
		h.clients[path] = map[*Client]struct{}{}
		h.startWatch(path)
	}
	h.clients[path][client] = struct{}{}
	return client
}

// Unregister detaches a client and closes its Send channel. The last
// client on a path closes the store subscription too.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if pathClients, ok := h.clients[client.Path]; ok {
		delete(pathClients, client)
		if len(pathClients) == 0 {
			delete(h.clients, client.Path)
			h.stopWatch(client.Path)
		}
	}
	close(client.Send)
}

// Broadcast pushes a payload to every local client on the path and, when
// Redis is attached, to other processes watching the same path.
func (h *Hub) Broadcast(path string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[path]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		if err := h.redis.Publish(context.Background(), redisChannel(path), payload).Err(); err != nil {
			h.logger.Warn("stream publish failed", "path", path, "err", err)
		}
	}
}

// startWatch opens the store subscription for a path and pumps its
// values out as JSON. Caller holds h.mu.
func (h *Hub) startWatch(path string) {
	w := &watch{
		sub:  h.store.Observe(path),
		done: make(chan struct{}),
	}
	h.watches[path] = w

	go func() {
		for {
			select {
			case v := <-w.sub.C:
				payload, err := json.Marshal(v)
				if err != nil {
					h.logger.Warn("stream encode failed", "path", path, "err", err)
					continue
				}
				h.Broadcast(path, payload)
			case <-w.done:
				return
			}
		}
	}()
}

// stopWatch closes a path's subscription. Caller holds h.mu.
func (h *Hub) stopWatch(path string) {
	if w, ok := h.watches[path]; ok {
		delete(h.watches, path)
		close(w.done)
		w.sub.Close()
	}
}

// subscribeRedis forwards pub/sub payloads from other processes to local
// clients. Local fan-out only; re-publishing here would loop.
func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "tree:*:updates")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		path := pathFromChannel(msg.Channel)
		h.mu.RLock()
		clients := h.clients[path]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
	}
}

func redisChannel(path string) string {
	return "tree:" + path + ":updates"
}

func pathFromChannel(ch string) string {
	// tree:{path}:updates
	const prefix = "tree:"
	const suffix = ":updates"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
