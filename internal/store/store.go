// Package store holds the authoritative in-memory record of active
// notifications: identity assignment, replace-in-place, display
// ordering, group indexing, Do Not Disturb filtering, and the lifecycle
// audit log.
package store

import (
	"log/slog"
	"sync"

	"github.com/xnotid/xnotid/internal/model"
)

// Store is the single piece of state shared between the IPC runtime and
// the presentation loop. One mutex guards everything; no method holds
// the lock across the change callback or any blocking operation other
// than the synchronous audit write.
//
// Notifications are immutable once stored, so references handed out by
// the read methods stay safe to use after the lock is released; a
// replace swaps the stored pointer rather than mutating in place.
type Store struct {
	mu            sync.Mutex
	notifications map[uint32]*model.Notification
	order         []uint32 // display order, newest first
	groups        map[string][]uint32
	nextID        uint32
	dnd           bool
	replacedIDs   []uint32
	onChange      func()

	audit  *AuditLogger
	logger *slog.Logger
}

// New creates an empty Store. The audit logger may be nil to disable
// lifecycle logging.
func New(audit *AuditLogger, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		notifications: make(map[uint32]*model.Notification),
		groups:        make(map[string][]uint32),
		nextID:        1,
		audit:         audit,
		logger:        logger,
	}
}

// SetOnChange installs the change callback. Exactly one callback is
// expected, installed by the host before first use. It may be invoked
// from any goroutine and should do nothing more than schedule a refresh
// on the presentation loop.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Add stores a notification and returns its assigned id.
//
// If replacesID names an active notification, the new content overwrites
// it in place: the id is reused, the position in the display order is
// kept, the group index is not touched, and the id is recorded (once)
// for the presentation layer to rebuild the widget. Otherwise a fresh
// monotonically increasing id is assigned, the id is prepended to the
// display order, and the group index is updated.
func (s *Store) Add(n *model.Notification, replacesID uint32) uint32 {
	s.mu.Lock()

	var id uint32
	if _, exists := s.notifications[replacesID]; replacesID > 0 && exists {
		id = replacesID
		n.ID = id
		s.notifications[id] = n
		if !containsID(s.replacedIDs, id) {
			s.replacedIDs = append(s.replacedIDs, id)
		}
	} else {
		id = s.nextID
		s.nextID++
		n.ID = id

		if n.Group != "" {
			s.groups[n.Group] = append(s.groups[n.Group], id)
		}
		s.order = append([]uint32{id}, s.order...)
		s.notifications[id] = n
	}

	s.audit.Received(n)
	s.mu.Unlock()

	return id
}

// Close removes a notification from the store, the display order, and
// its group index, appending an audit event named after the reason.
// Returns the removed notification, or nil if the id was unknown;
// closing an unknown id is a no-op, not an error.
func (s *Store) Close(id uint32, reason model.CloseReason) *model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked(id, reason)
}

// closeLocked is Close without the lock, for internal reuse.
func (s *Store) closeLocked(id uint32, reason model.CloseReason) *model.Notification {
	n, ok := s.notifications[id]
	if !ok {
		return nil
	}
	delete(s.notifications, id)
	s.order = removeID(s.order, id)

	if n.Group != "" {
		if members := removeID(s.groups[n.Group], id); len(members) == 0 {
			delete(s.groups, n.Group)
		} else {
			s.groups[n.Group] = members
		}
	}

	s.audit.Closed(n, reason)
	return n
}

// LogAction appends an action audit event for a still-active
// notification. Unknown ids are ignored.
func (s *Store) LogAction(id uint32, actionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notifications[id]; ok {
		s.audit.Action(n, actionKey)
	}
}

// VisiblePopups returns the notifications eligible for popup display in
// display order. When Do Not Disturb is on, only Critical notifications
// pass the filter; Critical is never suppressed.
func (s *Store) VisiblePopups() []*model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*model.Notification, 0, len(s.order))
	for _, id := range s.order {
		n, ok := s.notifications[id]
		if !ok {
			continue
		}
		if s.dnd && n.Urgency != model.UrgencyCritical {
			continue
		}
		result = append(result, n)
	}
	return result
}

// AllNotifications returns the non-transient notifications in display
// order, for durable-history views like the notification center.
func (s *Store) AllNotifications() []*model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*model.Notification, 0, len(s.order))
	for _, id := range s.order {
		n, ok := s.notifications[id]
		if !ok || n.Transient {
			continue
		}
		result = append(result, n)
	}
	return result
}

// ClearAll closes every active notification with reason Dismissed, each
// producing its own audit event.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uint32, len(s.order))
	copy(ids, s.order)
	for _, id := range ids {
		s.closeLocked(id, model.CloseReasonDismissed)
	}
}

// Get returns the active notification with the given id.
func (s *Store) Get(id uint32) (*model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	return n, ok
}

// Len reports the number of active notifications.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

// OrderedIDs returns a copy of the display order, newest first.
func (s *Store) OrderedIDs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint32, len(s.order))
	copy(ids, s.order)
	return ids
}

// GroupMembers returns a copy of the group index for the given key.
func (s *Store) GroupMembers(group string) []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.groups[group]
	out := make([]uint32, len(members))
	copy(out, members)
	return out
}

// SetDoNotDisturb sets the Do Not Disturb flag.
func (s *Store) SetDoNotDisturb(enabled bool) {
	s.mu.Lock()
	s.dnd = enabled
	s.mu.Unlock()
}

// ToggleDoNotDisturb flips the Do Not Disturb flag and returns the new
// state.
func (s *Store) ToggleDoNotDisturb() bool {
	s.mu.Lock()
	s.dnd = !s.dnd
	enabled := s.dnd
	s.mu.Unlock()
	return enabled
}

// DoNotDisturb reports the Do Not Disturb flag.
func (s *Store) DoNotDisturb() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dnd
}

// TakeReplacedIDs atomically drains the pending list of replaced ids.
// The presentation layer calls this once per refresh cycle to learn
// which widgets must be rebuilt rather than incrementally updated.
func (s *Store) TakeReplacedIDs() []uint32 {
	s.mu.Lock()
	ids := s.replacedIDs
	s.replacedIDs = nil
	s.mu.Unlock()
	return ids
}

// NotifyChange invokes the change callback if one is installed. The
// callback runs outside the store lock so it may be called from any
// goroutine without risk of re-entrancy deadlock.
func (s *Store) NotifyChange() {
	s.mu.Lock()
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func containsID(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uint32, id uint32) []uint32 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
