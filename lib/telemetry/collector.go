package telemetry

import "sync"

type Level int

const (
	LevelDebug Level = iota
	LevelCount
	LevelWarning
	LevelBroken
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelCount:
		return "count"
	case LevelWarning:
		return "warning"
	case LevelBroken:
		return "broken"
	}
	return "unknown"
}

// Entry is a single report held by a Collector.
type Entry struct {
	Level Level
	// ID holds the id for broken/warning/count reports and the message for debug reports.
	ID     string
	Params []any
	Count  int64
}

// Collector is an API that holds on to every report made during a single run so that
// they can be inspected and then written out in one go with Flush.
//
// It is safe for concurrent use.
type Collector struct {
	mutex   sync.Mutex
	entries []Entry
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) add(e Entry) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = append(c.entries, e)
}

func (c *Collector) ReportBroken(id string, params ...any) {
	c.add(Entry{Level: LevelBroken, ID: id, Params: params})
}

func (c *Collector) ReportWarning(id string, params ...any) {
	c.add(Entry{Level: LevelWarning, ID: id, Params: params})
}

func (c *Collector) ReportDebug(msg string, params ...any) {
	c.add(Entry{Level: LevelDebug, ID: msg, Params: params})
}

func (c *Collector) ReportCount(id string, count int64) {
	c.add(Entry{Level: LevelCount, ID: id, Count: count})
}

// Entries returns a copy of the entries collected so far, in report order.
func (c *Collector) Entries() []Entry {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Filter returns the collected entries of the given level.
func (c *Collector) Filter(level Level) []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Flush forwards every collected entry to `out` and empties the collector.
func (c *Collector) Flush(out API) {
	c.mutex.Lock()
	entries := c.entries
	c.entries = nil
	c.mutex.Unlock()

	for _, e := range entries {
		switch e.Level {
		case LevelBroken:
			out.ReportBroken(e.ID, e.Params...)
		case LevelWarning:
			out.ReportWarning(e.ID, e.Params...)
		case LevelDebug:
			out.ReportDebug(e.ID, e.Params...)
		case LevelCount:
			out.ReportCount(e.ID, e.Count)
		}
	}
}

// Count returns how many entries of the given level have been collected.
func (c *Collector) Count(level Level) int {
	return len(c.Filter(level))
}
