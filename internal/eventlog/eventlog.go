// Package eventlog records structured pipeline events for tests, the headless
// report and the on-screen activity panel, mirroring each one to logrus.
package eventlog

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Entry is one recorded pipeline event.
type Entry struct {
	Tick     int
	Level    logrus.Level
	Subject  string  // position, player name, or "--" for global events
	Category string  // fetch, density, layout, zoom, selection, export
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] QB   layout    converged        ticks=301
func (e Entry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Subject, e.Category, e.Key, e.Value)
}

// Log collects structured events and mirrors them to a logrus entry.
// Entries stay queryable so tests and the headless report can assert on them.
type Log struct {
	entries []Entry
	verbose bool
	tick    int
	out     *logrus.Entry
}

// Option configures a Log.
type Option func(*Log)

// WithVerbose records Debug entries too (per-tick zoom and layout detail).
func WithVerbose(v bool) Option {
	return func(l *Log) { l.verbose = v }
}

// WithLogger mirrors every recorded entry to the given logrus entry.
func WithLogger(e *logrus.Entry) Option {
	return func(l *Log) { l.out = e }
}

// New creates a Log. Without WithLogger entries are only kept in memory.
func New(opts ...Option) *Log {
	l := &Log{}
	for _, o := range opts {
		o(l)
	}
	return l
}

// NewLogger builds the logrus logger used by the binaries.
func NewLogger(level string) *logrus.Entry {
	lg := logrus.New()
	lg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		lg.SetLevel(lvl)
	}
	return logrus.NewEntry(lg)
}

// SetTick stamps subsequent entries with the given frame number.
func (l *Log) SetTick(tick int) {
	if l == nil {
		return
	}
	l.tick = tick
}

func (l *Log) add(level logrus.Level, subject, category, key, value string, numVal float64) {
	if l == nil {
		return
	}
	if subject == "" {
		subject = "--"
	}
	e := Entry{
		Tick:     l.tick,
		Level:    level,
		Subject:  subject,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	}
	l.entries = append(l.entries, e)
	if l.out == nil {
		return
	}
	l.out.WithFields(logrus.Fields{
		"tick":     e.Tick,
		"subject":  e.Subject,
		"category": e.Category,
		"key":      e.Key,
		"num":      e.NumVal,
	}).Log(level, e.Value)
}

// Info records a normal pipeline event.
func (l *Log) Info(subject, category, key, value string, numVal float64) {
	l.add(logrus.InfoLevel, subject, category, key, value, numVal)
}

// Warn records a diagnostic for degraded but non-fatal conditions.
func (l *Log) Warn(subject, category, key, value string, numVal float64) {
	l.add(logrus.WarnLevel, subject, category, key, value, numVal)
}

// Debug records an entry only when verbose mode is on.
func (l *Log) Debug(subject, category, key, value string, numVal float64) {
	if l == nil || !l.verbose {
		return
	}
	l.add(logrus.DebugLevel, subject, category, key, value, numVal)
}

// Len returns how many entries have been recorded.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Entries returns all recorded entries.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	return l.entries
}

// Since returns entries recorded at or after index i.
func (l *Log) Since(i int) []Entry {
	if l == nil || i >= len(l.entries) {
		return nil
	}
	if i < 0 {
		i = 0
	}
	return l.entries[i:]
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *Log) Filter(category, key string) []Entry {
	if l == nil {
		return nil
	}
	var out []Entry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (l *Log) CountCategory(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *Log) LastOf(category, key string) (Entry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (l *Log) HasEntry(category, key, valueSubstr string) bool {
	if l == nil {
		return false
	}
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (l *Log) Format() string {
	var sb strings.Builder
	for _, e := range l.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
