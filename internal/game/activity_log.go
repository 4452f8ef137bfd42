package game

// ActivityLog is the append-only audit trail rendered to clients. Entries
// keep insertion order forever; there is no removal or reordering. Access
// is serialized by the owning Game.
type ActivityLog struct {
	entries []string
}

// NewActivityLog creates a log, optionally seeded with restored entries.
func NewActivityLog(entries []string) *ActivityLog {
	l := &ActivityLog{}
	l.entries = append(l.entries, entries...)
	return l
}

// Append adds an entry to the end.
func (l *ActivityLog) Append(entry string) {
	l.entries = append(l.entries, entry)
}

// Entries returns the full ordered sequence, copied.
func (l *ActivityLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Latest returns the most recent entry, or "" for an empty log.
func (l *ActivityLog) Latest() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}

// Len returns the number of entries.
func (l *ActivityLog) Len() int {
	return len(l.entries)
}
