package notifications

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteEvent пишет событие в формате text/event-stream.
func WriteEvent(w io.Writer, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
	return err
}

// WriteComment пишет keep-alive комментарий.
func WriteComment(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, ": %s\n\n", text)
	return err
}
