package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// Event names on the /eval/stream channel.
const (
	EventStage  = "stage"
	EventResult = "result"
	EventError  = "error"
)

var errStreamingUnsupported = errors.New("streaming not supported")

// eventStream frames JSON payloads as Server-Sent Events and flushes each
// one. A stream carries any number of stage events and exactly one
// terminal result or error event.
type eventStream struct {
	w     http.ResponseWriter
	rc    *http.ResponseController
	ended bool
}

// openEventStream sets the event-stream headers. It fails before writing
// anything when w cannot flush, so the caller can still answer in JSON.
func openEventStream(w http.ResponseWriter) (*eventStream, error) {
	if _, ok := w.(http.Flusher); !ok {
		return nil, errStreamingUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	return &eventStream{w: w, rc: http.NewResponseController(w)}, nil
}

func (s *eventStream) send(event string, payload any) error {
	if s.ended {
		return errors.New("event stream already ended")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var frame bytes.Buffer
	frame.WriteString("event: ")
	frame.WriteString(event)
	frame.WriteString("\ndata: ")
	frame.Write(data)
	frame.WriteString("\n\n")
	if _, err := s.w.Write(frame.Bytes()); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Stage forwards one progress event.
func (s *eventStream) Stage(payload any) error {
	return s.send(EventStage, payload)
}

// Fail ends the stream with an error event.
func (s *eventStream) Fail(message, details string) error {
	err := s.send(EventError, errorBody{Success: false, Error: message, Details: details})
	s.ended = true
	return err
}

// Finish ends the stream with the result event.
func (s *eventStream) Finish(data any) error {
	err := s.send(EventResult, dataBody{Success: true, Data: data})
	s.ended = true
	return err
}
