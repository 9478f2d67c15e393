package controller

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/refine"
)

// Registry hands out one controller per conversation ID and expires
// idle sessions. Expiry is TTL-based: a conversation silent for the
// session TTL starts fresh on its next message.
type Registry struct {
	sessions *gocache.Cache
	cfg      *model.Config
	refiner  refine.Refiner
}

// NewRegistry creates a session registry. TTL comes from the batch
// configuration; a non-positive TTL means sessions never expire.
func NewRegistry(cfg *model.Config, refiner refine.Refiner) *Registry {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	ttl := time.Duration(cfg.Batch.SessionTTL) * time.Minute
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	return &Registry{
		sessions: gocache.New(ttl, 10*time.Minute),
		cfg:      cfg,
		refiner:  refiner,
	}
}

// Get returns the controller for a conversation, creating it on first
// use. Each access refreshes the session TTL.
func (r *Registry) Get(conversationID, topic, domain string) *Controller {
	if val, found := r.sessions.Get(conversationID); found {
		ctrl := val.(*Controller)
		r.sessions.SetDefault(conversationID, ctrl)
		return ctrl
	}

	ctrl := New(conversationID, topic, domain, r.cfg, r.refiner)
	r.sessions.SetDefault(conversationID, ctrl)
	return ctrl
}

// Drop removes a conversation's session
func (r *Registry) Drop(conversationID string) {
	r.sessions.Delete(conversationID)
}

// Len reports the number of live sessions
func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}
