package eventstore

import "time"

// Event is one row of the build journal.
//
// A build writes BuildStarted, then PluginStarted and PluginCompleted or
// PluginFailed for each plugin in pipeline order, a ContentSkipped for every
// post file the repository rejected, and finally BuildCompleted or
// BuildFailed. Payloads are the JSON encoding of the matching *Payload type.
type Event interface {
	// ID is the store-assigned sequence number, 0 before the event is stored.
	ID() int64
	BuildID() string
	Type() string
	Timestamp() time.Time
	Payload() []byte
	Metadata() map[string]string
}

// Record is the Event implementation produced by NewEvent and returned by
// the SQLite store.
type Record struct {
	Seq   int64
	Build string
	Kind  string
	At    time.Time
	Data  []byte
	Meta  map[string]string
}

func (r *Record) ID() int64                   { return r.Seq }
func (r *Record) BuildID() string             { return r.Build }
func (r *Record) Type() string                { return r.Kind }
func (r *Record) Timestamp() time.Time        { return r.At }
func (r *Record) Payload() []byte             { return r.Data }
func (r *Record) Metadata() map[string]string { return r.Meta }
