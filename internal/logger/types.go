// Package logger is the OMS's async, batched, lazy-payload log pipeline: a
// single buffered channel carries AsyncMessages to one worker goroutine that
// flushes batches to a local file or an S3-compatible object store. Ported
// from the didius project's channel-based logger
// (original_source/didius/src/logger/mod.rs), which spec.md §9 names as the
// canonical implementation over that project's polling variant.
package logger

import "time"

// Message is a single log record: an arbitrary structured body tagged with a
// log_type and the epoch-seconds timestamp it was created at.
type Message struct {
	LogType   string      `json:"log_type"`
	LogBody   interface{} `json:"log_body"`
	Timestamp float64     `json:"timestamp"`
}

// nowEpochSeconds is the logger package's own clock helper so it does not
// depend on the strategy package for NowEpochSeconds.
func nowEpochSeconds() float64 {
	return float64(time.Now().UnixMilli()) / 1000.0
}

// newMessage builds a Message with the current timestamp.
func newMessage(logType string, body interface{}) Message {
	return Message{LogType: logType, LogBody: body, Timestamp: nowEpochSeconds()}
}

// generator produces a log_body once, on the worker goroutine — never on the
// caller's hot path.
type generator func() interface{}

// asyncMessage is either a precomputed Message or a lazy record whose
// generator is invoked exactly once, on the worker goroutine.
type asyncMessage struct {
	computed  *Message
	logType   string
	timestamp float64
	gen       generator
}

func computedMessage(m Message) asyncMessage {
	return asyncMessage{computed: &m}
}

func lazyMessage(logType string, gen generator) asyncMessage {
	return asyncMessage{logType: logType, timestamp: nowEpochSeconds(), gen: gen}
}

// resolve executes the generator (if lazy) and returns the concrete Message.
func (a asyncMessage) resolve() Message {
	if a.computed != nil {
		return *a.computed
	}
	return Message{LogType: a.logType, LogBody: a.gen(), Timestamp: a.timestamp}
}
