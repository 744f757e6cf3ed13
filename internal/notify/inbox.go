package notify

import (
	"log/slog"

	"grundy/internal/bible"
)

// Session counts what has been shown since the app was opened. It is not
// persisted.
type Session struct {
	NonCriticalShown int `json:"-"`
}

// ShouldSuppress decides whether n is dropped, checking in order:
// critical is always shown; low priority obeys the per-session cap; medium
// and high with no cooldown are always shown; anything else is dropped when
// the inbox already holds the same dedupe key inside the type's cooldown.
func ShouldSuppress(n Notification, inbox Inbox, session Session) bool {
	if n.Priority == PriorityCritical {
		return false
	}
	if n.Priority == PriorityLow {
		return session.NonCriticalShown >= bible.MaxNonCriticalPerSession
	}
	cooldown := Rules[n.Type].Cooldown
	if cooldown <= 0 {
		return false
	}
	for _, existing := range inbox.Items {
		if existing.DedupeKey == n.DedupeKey && n.Timestamp-existing.Timestamp < cooldown.Milliseconds() {
			return true
		}
	}
	return false
}

// Inbox holds notifications newest first, at most MaxNotifications.
type Inbox struct {
	Items []Notification `json:"items"`
}

// Clone returns an independent copy.
func (in Inbox) Clone() Inbox {
	return Inbox{Items: append([]Notification(nil), in.Items...)}
}

// Add inserts n at the front, evicting the oldest beyond the cap.
func (in Inbox) Add(n Notification) Inbox {
	items := make([]Notification, 0, min(len(in.Items)+1, bible.MaxNotifications))
	items = append(items, n)
	for _, old := range in.Items {
		if len(items) == bible.MaxNotifications {
			break
		}
		items = append(items, old)
	}
	return Inbox{Items: items}
}

// MarkRead flags one notification read and reports whether it was found.
func (in Inbox) MarkRead(id string) (Inbox, bool) {
	out := in.Clone()
	for i := range out.Items {
		if out.Items[i].ID == id {
			out.Items[i].Read = true
			return out, true
		}
	}
	return in, false
}

// MarkAllRead flags every notification read.
func (in Inbox) MarkAllRead() Inbox {
	out := in.Clone()
	for i := range out.Items {
		out.Items[i].Read = true
	}
	return out
}

// Clear empties the inbox.
func (in Inbox) Clear() Inbox {
	return Inbox{}
}

// UnreadCount is the badge number for the inbox icon.
func (in Inbox) UnreadCount() int {
	n := 0
	for _, item := range in.Items {
		if !item.Read {
			n++
		}
	}
	return n
}

// Deliver runs n through suppression and, when allowed, adds it to the
// inbox and counts it against the session.
func Deliver(inbox Inbox, session Session, n Notification) (Inbox, Session, bool) {
	if ShouldSuppress(n, inbox, session) {
		slog.Debug("notification suppressed", "type", n.Type, "dedupeKey", n.DedupeKey)
		return inbox, session, false
	}
	if n.Priority != PriorityCritical {
		session.NonCriticalShown++
	}
	return inbox.Add(n), session, true
}

// Emit maps ev and delivers the result.
func Emit(inbox Inbox, session Session, ev Event, now int64, newID func() string) (Inbox, Session, *Notification) {
	n, ok := Map(ev, now, newID)
	if !ok {
		return inbox, session, nil
	}
	inbox, session, shown := Deliver(inbox, session, n)
	if !shown {
		return inbox, session, nil
	}
	return inbox, session, &n
}

// Batch turns the events accrued while offline into notifications. After
// more than OfflineNotifyBatchMinHour hours away, everything but critical
// events collapses into one offline summary; critical events always stand
// alone. Shorter gaps map events one by one.
func Batch(events []Event, hours float64, now int64, newID func() string) []Notification {
	var out []Notification
	if hours <= bible.OfflineNotifyBatchMinHour {
		for _, ev := range events {
			if n, ok := Map(ev, now, newID); ok {
				out = append(out, n)
			}
		}
		return out
	}

	batched := 0
	for _, ev := range events {
		if Rules[ev.Kind()].Priority == PriorityCritical {
			if n, ok := Map(ev, now, newID); ok {
				out = append(out, n)
			}
			continue
		}
		batched++
	}
	if batched > 0 {
		if n, ok := Map(OfflineSummary{Hours: hours, Events: batched}, now, newID); ok {
			out = append(out, n)
		}
	}
	return out
}
