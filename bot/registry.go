package bot

import (
	"sort"
	"sync"
)

// Registry 当前持有存活任务的账号集合
// 管理器读(分配轮), 各账号任务启动/退出时写, 必须并发安全
type Registry struct {
	mu  sync.RWMutex
	ids map[uint64]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[uint64]struct{}),
	}
}

// Add 登记账号任务, 已存在时返回 false, 保证同一账号永远只有一个任务
func (r *Registry) Add(accountID uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ids[accountID]; exists {
		return false
	}
	r.ids[accountID] = struct{}{}
	return true
}

func (r *Registry) Remove(accountID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ids, accountID)
}

func (r *Registry) Has(accountID uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.ids[accountID]
	return exists
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// Snapshot 升序快照, 保证轮转分配的顺序稳定
func (r *Registry) Snapshot() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uint64, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
