package persistence

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type afterCommitKey struct{}

// afterCommitHooks collects work that must wait for a transaction to commit
type afterCommitHooks struct {
	mu    sync.Mutex
	keys  []string
	hooks map[string]func(context.Context)
}

func (h *afterCommitHooks) add(key string, fn func(context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, queued := h.hooks[key]; queued {
		return
	}
	h.keys = append(h.keys, key)
	h.hooks[key] = fn
}

func (h *afterCommitHooks) run(ctx context.Context) {
	h.mu.Lock()
	keys, hooks := h.keys, h.hooks
	h.keys, h.hooks = nil, map[string]func(context.Context){}
	h.mu.Unlock()

	for _, key := range keys {
		hooks[key](ctx)
	}
}

// AfterCommit queues fn until the transaction opened by runInTransaction for
// ctx commits; hooks with the same key run once and are dropped on rollback.
// It returns false when ctx is not inside such a transaction, in which case
// the caller runs fn itself.
func AfterCommit(ctx context.Context, key string, fn func(context.Context)) bool {
	if ctx == nil {
		return false
	}
	hooks, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks)
	if !ok {
		return false
	}
	hooks.add(key, fn)
	return true
}

// runInTransaction runs fn in a transaction and fires the AfterCommit hooks
// queued by its statements once the commit succeeded. Nested calls join the
// outermost transaction's hooks.
func runInTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if _, nested := ctx.Value(afterCommitKey{}).(*afterCommitHooks); nested {
		return db.WithContext(ctx).Transaction(fn)
	}

	hooks := &afterCommitHooks{hooks: map[string]func(context.Context){}}
	txCtx := context.WithValue(ctx, afterCommitKey{}, hooks)
	if err := db.WithContext(txCtx).Transaction(fn); err != nil {
		return err
	}
	hooks.run(ctx)
	return nil
}
