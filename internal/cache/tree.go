// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go provides a Valkey-backed cache for the assembled category
// tree. The tree changes rarely but is read on nearly every request, so
// the JSON-encoded hierarchy is kept hot and invalidated on every
// category mutation.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/models"
)

const (
	// treeKey is the Valkey key holding the encoded category tree.
	treeKey = "categories:tree"

	// DefaultTreeTTL is how long the assembled tree stays cached.
	DefaultTreeTTL = 5 * time.Minute
)

// TreeCache caches the category hierarchy in Valkey.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Get retrieves the cached tree roots. Returns false on miss or on any
// cache error; the caller falls back to the store.
func (tc *TreeCache) Get(ctx context.Context) ([]*models.Category, bool) {
	val, err := tc.client.Get(ctx, treeKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "error", err)
		return nil, false
	}

	var roots []*models.Category
	if err := json.Unmarshal(val, &roots); err != nil {
		slog.Warn("tree cache decode error", "error", err)
		return nil, false
	}

	// Parent back-references are not serialized; restore them so the
	// mutual-consistency invariant holds on the decoded tree.
	relinkParents(roots, nil)
	slog.Debug("tree cache hit")
	return roots, true
}

// Set stores the tree roots with the configured TTL. Errors are logged
// and swallowed; the cache is best effort.
func (tc *TreeCache) Set(ctx context.Context, roots []*models.Category) {
	data, err := json.Marshal(roots)
	if err != nil {
		slog.Warn("tree cache encode error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKey, data, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "error", err)
	}
}

// Invalidate drops the cached tree. Called after every category
// mutation.
func (tc *TreeCache) Invalidate(ctx context.Context) {
	if err := tc.client.Del(ctx, treeKey).Err(); err != nil {
		slog.Warn("tree cache invalidate error", "error", err)
	}
	slog.Debug("tree cache invalidated")
}

// relinkParents walks a decoded tree and restores each node's parent
// pointer.
func relinkParents(nodes []*models.Category, parent *models.Category) {
	for _, n := range nodes {
		n.Parent = parent
		if n.HasChildren() {
			relinkParents(n.Children, n)
		}
	}
}
