// Package iocache is for caching I/O calls and keeping run history.
package iocache

import (
	"sync"

	"github.com/huangsam/commitmood/internal/contract"
)

// CacheStoreManager manages the commit cache and the run history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	commits      contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetCommitStore returns the commit CacheStore.
func (mgr *CacheStoreManager) GetCommitStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.commits
}

// GetHistoryStore returns the run HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
