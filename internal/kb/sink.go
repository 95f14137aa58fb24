package kb

// Record is one persisted hyperedge: its content-derived ID plus its
// canonical printed text, the unit a Sink moves to and from storage.
type Record struct {
	ID   string
	Text string
}

// Sink is spec.md §4.8's pluggable snapshot/restore collaborator:
// "KbSink::snapshot() / KbSink::restore()". internal/kb/sqlitesink ships
// a reference implementation; persistence itself is explicitly out of
// scope for the KB facade, which only needs this boundary.
type Sink interface {
	Snapshot(records []Record) error
	Restore() ([]Record, error)
}
