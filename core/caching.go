package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/logging"
	"github.com/huangsam/commitmood/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// publicAPIURL keys cache entries fetched without an --api-url override.
const publicAPIURL = "https://api.github.com"

// cacheTTL is how long a fetched commit listing stays fresh.
const cacheTTL = time.Hour

// CachedFetch returns the commits of repo from the commit cache when a fresh
// entry exists, and otherwise fetches them from source. Only complete fetches
// are stored; a partial result is returned together with its error. Local
// clones are always read directly.
func CachedFetch(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager, repo schema.RepoRef) ([]schema.CommitRecord, error) {
	var store contract.CacheStore
	if mgr != nil && cfg.LocalPath == "" {
		store = mgr.GetCommitStore()
	}
	if store == nil {
		// Fallback to direct fetch
		return source.Fetch(ctx, repo, cfg.Limit, cfg.PageSize)
	}

	logger := logging.From(ctx).With(slog.String("repo", repo.FullName()))
	key := generateCacheKey(cfg.APIURL, repo, cfg.Limit, cfg.PageSize)

	// Check for cache hit
	if commits := checkCacheHit(store, key, time.Now()); commits != nil {
		logger.Debug("commit cache hit", slog.Int("commits", len(commits)))
		return commits, nil
	}

	// Cache miss: fetch and store
	logger.Debug("commit cache miss")
	commits, err := source.Fetch(ctx, repo, cfg.Limit, cfg.PageSize)
	if err != nil {
		return commits, err
	}
	if data, merr := json.Marshal(commits); merr == nil {
		if serr := store.Set(key, data, currentCacheVersion, time.Now().Unix()); serr != nil {
			logger.Warn("failed to store commits in cache", slog.Any("error", serr))
		}
	}
	return commits, nil
}

// checkCacheHit attempts to retrieve and validate a cached commit listing
func checkCacheHit(store contract.CacheStore, key string, now time.Time) []schema.CommitRecord {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || now.Sub(time.Unix(ts, 0)) > cacheTTL {
		return nil
	}

	var commits []schema.CommitRecord
	if err := json.Unmarshal(data, &commits); err != nil || commits == nil {
		return nil
	}
	return commits
}

// generateCacheKey creates a unique key based on the API host and fetch parameters.
// An empty apiURL stands for the public GitHub API.
func generateCacheKey(apiURL string, repo schema.RepoRef, limit, pageSize int) string {
	host := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(apiURL)), "/")
	if host == "" {
		host = publicAPIURL
	}
	key := fmt.Sprintf("%s|%s:%d:%d", host, repo.FullName(), limit, pageSize)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
