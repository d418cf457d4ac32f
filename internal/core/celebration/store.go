// Package celebration buffers achievement unlock notifications and
// tracks which ones the user has already seen.
package celebration

import (
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"cozyfocus/internal/core/model"
	"cozyfocus/internal/core/signal"
)

// DuplicatePolicy decides what happens to an unlock whose id is already
// waiting in the queue.
type DuplicatePolicy string

const (
	// DuplicatesQueue gives every unlock its own celebration.
	DuplicatesQueue DuplicatePolicy = "queue"
	// DuplicatesSkipPending drops an unlock already waiting in the queue.
	DuplicatesSkipPending DuplicatePolicy = "skip_pending"
)

// ParseDuplicatePolicy maps a settings value to a policy, defaulting
// to DuplicatesQueue.
func ParseDuplicatePolicy(value string) DuplicatePolicy {
	if DuplicatePolicy(value) == DuplicatesSkipPending {
		return DuplicatesSkipPending
	}
	return DuplicatesQueue
}

// ViewedRepository persists the viewed set.
type ViewedRepository interface {
	LoadViewed() ([]string, error)
	SaveViewed(ids []string) error
}

// Config configures a Store.
type Config struct {
	Duplicates DuplicatePolicy
	Viewed     ViewedRepository
}

// Entry is one queued celebration. Key tells apart entries that share
// an achievement id.
type Entry struct {
	Key  uuid.UUID
	Item model.CelebrationItem
}

// Store holds the FIFO celebration queue, the viewed set and the
// achievement gallery cache.
type Store struct {
	mu            sync.RWMutex
	config        Config
	queue         []Entry
	viewed        map[string]struct{}
	achievements  []model.AchievementWithStatus
	totalSessions int
	loading       bool
	changes       signal.Notifier[struct{}]
}

// NewStore creates an empty store.
func NewStore(config Config) *Store {
	if config.Duplicates == "" {
		config.Duplicates = DuplicatesQueue
	}
	return &Store{
		config:  config,
		viewed:  make(map[string]struct{}),
		loading: true,
	}
}

// Load rehydrates the viewed set from the repository, if any.
func (store *Store) Load() error {
	if store.config.Viewed == nil {
		return nil
	}
	ids, err := store.config.Viewed.LoadViewed()
	if err != nil {
		return err
	}
	store.Hydrate(ids)
	return nil
}

// Hydrate adds ids to the viewed set without persisting.
func (store *Store) Hydrate(ids []string) {
	store.mu.Lock()
	for _, id := range ids {
		if id != "" {
			store.viewed[id] = struct{}{}
		}
	}
	store.mu.Unlock()
	store.changes.Notify(struct{}{})
}

// SetDuplicatePolicy changes the policy for future unlocks.
func (store *Store) SetDuplicatePolicy(policy DuplicatePolicy) {
	store.mu.Lock()
	store.config.Duplicates = ParseDuplicatePolicy(string(policy))
	store.mu.Unlock()
}

// Enqueue appends item and marks the cached achievement unlocked in the
// same critical section. It reports whether a celebration was queued.
func (store *Store) Enqueue(item model.CelebrationItem) bool {
	store.mu.Lock()
	if store.config.Duplicates == DuplicatesSkipPending && store.pendingLocked(item.ID) {
		store.mu.Unlock()
		return false
	}
	store.queue = append(store.queue, Entry{Key: uuid.New(), Item: item})
	for i := range store.achievements {
		if store.achievements[i].ID == item.ID {
			unlockedAt := item.UnlockedAt
			store.achievements[i].Unlocked = true
			store.achievements[i].UnlockedAt = &unlockedAt
		}
	}
	store.mu.Unlock()

	store.changes.Notify(struct{}{})
	return true
}

// Dequeue removes the head. An empty queue is left alone.
func (store *Store) Dequeue() {
	store.dequeue(func(Entry) bool { return true })
}

// DequeueKey removes the head only if it is the entry with key. It
// reports whether anything was removed.
func (store *Store) DequeueKey(key uuid.UUID) bool {
	return store.dequeue(func(head Entry) bool { return head.Key == key })
}

func (store *Store) dequeue(match func(head Entry) bool) bool {
	store.mu.Lock()
	if len(store.queue) == 0 || !match(store.queue[0]) {
		store.mu.Unlock()
		return false
	}
	store.queue = append([]Entry(nil), store.queue[1:]...)
	store.mu.Unlock()

	store.changes.Notify(struct{}{})
	return true
}

// PeekCurrent returns the head item.
func (store *Store) PeekCurrent() (model.CelebrationItem, bool) {
	entry, ok := store.Head()
	return entry.Item, ok
}

// Head returns the head entry with its key.
func (store *Store) Head() (Entry, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	if len(store.queue) == 0 {
		return Entry{}, false
	}
	return store.queue[0], true
}

// Len returns the number of queued celebrations.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.queue)
}

// Pending returns a copy of the queue, head first.
func (store *Store) Pending() []Entry {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return append([]Entry(nil), store.queue...)
}

// MarkViewed adds id to the viewed set and persists it.
func (store *Store) MarkViewed(id string) {
	if id == "" {
		return
	}
	store.mu.Lock()
	if _, ok := store.viewed[id]; ok {
		store.mu.Unlock()
		return
	}
	store.viewed[id] = struct{}{}
	ids := store.viewedLocked()
	repo := store.config.Viewed
	store.mu.Unlock()

	if repo != nil {
		if err := repo.SaveViewed(ids); err != nil {
			log.Printf("celebration: save viewed set: %v", err)
		}
	}
	store.changes.Notify(struct{}{})
}

// HasViewed reports whether id is in the viewed set.
func (store *Store) HasViewed(id string) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	_, ok := store.viewed[id]
	return ok
}

// IsNew reports whether the achievement is unlocked and not yet viewed.
func (store *Store) IsNew(id string) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, achievement := range store.achievements {
		if achievement.ID == id {
			if !achievement.Unlocked {
				return false
			}
			_, viewed := store.viewed[id]
			return !viewed
		}
	}
	return false
}

// Viewed returns the viewed ids sorted.
func (store *Store) Viewed() []string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.viewedLocked()
}

// SetAchievements replaces the gallery cache.
func (store *Store) SetAchievements(achievements []model.AchievementWithStatus) {
	store.mu.Lock()
	store.achievements = append([]model.AchievementWithStatus(nil), achievements...)
	store.mu.Unlock()
	store.changes.Notify(struct{}{})
}

// Achievements returns a copy of the gallery cache.
func (store *Store) Achievements() []model.AchievementWithStatus {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return append([]model.AchievementWithStatus(nil), store.achievements...)
}

func (store *Store) SetTotalSessions(count int) {
	store.mu.Lock()
	store.totalSessions = max(0, count)
	store.mu.Unlock()
	store.changes.Notify(struct{}{})
}

func (store *Store) TotalSessions() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.totalSessions
}

func (store *Store) SetLoading(loading bool) {
	store.mu.Lock()
	store.loading = loading
	store.mu.Unlock()
	store.changes.Notify(struct{}{})
}

func (store *Store) Loading() bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.loading
}

// Reset clears the queue and the cache. The viewed set survives since
// it is persisted state.
func (store *Store) Reset() {
	store.mu.Lock()
	store.queue = nil
	store.achievements = nil
	store.totalSessions = 0
	store.loading = true
	store.mu.Unlock()
	store.changes.Notify(struct{}{})
}

// Subscribe is notified after every change.
func (store *Store) Subscribe(fn func()) *signal.Subscription {
	return store.changes.Subscribe(func(struct{}) { fn() })
}

func (store *Store) pendingLocked(id string) bool {
	for _, entry := range store.queue {
		if entry.Item.ID == id {
			return true
		}
	}
	return false
}

func (store *Store) viewedLocked() []string {
	ids := make([]string, 0, len(store.viewed))
	for id := range store.viewed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
