// Package toast keeps short-lived, per-user UI messages in memory.
//
// A toast is appended with an increasing id and, when it has a positive
// duration, dismissed automatically. Dismissal first hides the toast and
// removes it once the fade window has passed.
package toast

import (
	"sort"
	"sync"
	"time"

	"lendflow/internal/model"
)

// FadeWindow is how long a hidden toast lingers before removal.
const FadeWindow = 300 * time.Millisecond

// Default display durations per type.
var defaultDurations = map[model.NotificationType]time.Duration{
	model.NotificationSuccess: 5 * time.Second,
	model.NotificationError:   7 * time.Second,
	model.NotificationWarning: 6 * time.Second,
	model.NotificationInfo:    5 * time.Second,
}

// DefaultDuration returns the display time used when a push passes zero.
func DefaultDuration(t model.NotificationType) time.Duration {
	if d, ok := defaultDurations[t]; ok {
		return d
	}
	return 5 * time.Second
}

// Toast is one queued message. Duration is in milliseconds, 0 for sticky.
type Toast struct {
	ID        int64                  `json:"id"`
	Type      model.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Duration  int64                  `json:"duration"`
	Show      bool                   `json:"show"`
	CreatedAt time.Time              `json:"createdAt"`
}

type entry struct {
	toast Toast
	timer *time.Timer
}

// Queue holds every user's toasts. The zero value is not usable; use NewQueue.
type Queue struct {
	mu     sync.Mutex
	nextID int64
	fade   time.Duration
	users  map[int64][]*entry
	closed bool
}

// NewQueue returns an empty queue. A non-positive fade uses FadeWindow.
func NewQueue(fade time.Duration) *Queue {
	if fade <= 0 {
		fade = FadeWindow
	}
	return &Queue{fade: fade, users: make(map[int64][]*entry)}
}

// Push appends a toast for userID. A zero duration uses the type default and
// a negative one keeps the toast until it is dismissed.
func (q *Queue) Push(userID int64, typ model.NotificationType, title, message string, duration time.Duration) Toast {
	if !typ.Valid() {
		typ = model.NotificationInfo
	}
	if duration == 0 {
		duration = DefaultDuration(typ)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	t := Toast{
		ID:        q.nextID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Show:      true,
		CreatedAt: time.Now(),
	}
	e := &entry{toast: t}
	if duration > 0 && !q.closed {
		t.Duration = duration.Milliseconds()
		e.toast.Duration = t.Duration
		id := t.ID
		e.timer = time.AfterFunc(duration, func() { q.Dismiss(userID, id) })
	}
	q.users[userID] = append(q.users[userID], e)
	return t
}

// Success, Error, Warning and Info push with the type's default duration.
func (q *Queue) Success(userID int64, title, message string) Toast {
	return q.Push(userID, model.NotificationSuccess, title, message, 0)
}

func (q *Queue) Error(userID int64, title, message string) Toast {
	return q.Push(userID, model.NotificationError, title, message, 0)
}

func (q *Queue) Warning(userID int64, title, message string) Toast {
	return q.Push(userID, model.NotificationWarning, title, message, 0)
}

func (q *Queue) Info(userID int64, title, message string) Toast {
	return q.Push(userID, model.NotificationInfo, title, message, 0)
}

// Dismiss hides a toast and schedules its removal. It reports whether the
// toast was found.
func (q *Queue) Dismiss(userID, id int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.users[userID] {
		if e.toast.ID != id {
			continue
		}
		if !e.toast.Show {
			return true
		}
		e.toast.Show = false
		if e.timer != nil {
			e.timer.Stop()
		}
		if q.closed {
			q.removeLocked(userID, id)
			return true
		}
		e.timer = time.AfterFunc(q.fade, func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			q.removeLocked(userID, id)
		})
		return true
	}
	return false
}

// Clear drops every toast of userID immediately.
func (q *Queue) Clear(userID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.users[userID] {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	delete(q.users, userID)
}

// List returns a snapshot of userID's toasts, oldest first.
func (q *Queue) List(userID int64) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Toast, 0, len(q.users[userID]))
	for _, e := range q.users[userID] {
		out = append(out, e.toast)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close stops every pending timer and drops toasts that were already fading
// out. Visible toasts, and later pushes, are kept until dismissed.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for userID, entries := range q.users {
		kept := entries[:0]
		for _, e := range entries {
			if e.timer != nil {
				e.timer.Stop()
			}
			if e.toast.Show {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(q.users, userID)
			continue
		}
		q.users[userID] = kept
	}
}

func (q *Queue) removeLocked(userID, id int64) {
	entries := q.users[userID]
	for i, e := range entries {
		if e.toast.ID == id {
			q.users[userID] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(q.users[userID]) == 0 {
		delete(q.users, userID)
	}
}
