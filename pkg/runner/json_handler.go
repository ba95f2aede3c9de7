package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/listenbot/pkg/controller"
)

// Message types emitted by JSONHandler.
const (
	MessageTypeReply  = "reply"
	MessageTypeSystem = "system"
	MessageTypeError  = "error"
)

// Message is one NDJSON line written by JSONHandler.
type Message struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Text    string `json:"text,omitempty"`
	Repeat  bool   `json:"repeat,omitempty"`
	Final   bool   `json:"final,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
	// ReplyLimit bounds a reply in bytes; zero means DefaultReplyLimit.
	ReplyLimit int
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: enc,
	}
}

// Output emits the reply as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, reply controller.Reply) error {
	return h.Encoder.Encode(Message{
		Type:    MessageTypeReply,
		Command: reply.Command.String(),
		Text:    reply.Text,
		Repeat:  reply.Repeat,
		Final:   reply.Final,
	})
}

// Input reads one line. It accepts a JSON string, an object with a "text"
// field, or raw text. A line that fails cleaning is reported as an error
// message and the next line is read.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return "", err
		}

		clean, err := CleanReply(decodeLine(strings.TrimSpace(line)), h.ReplyLimit)
		if err != nil {
			if werr := h.Encoder.Encode(Message{Type: MessageTypeError, Text: err.Error()}); werr != nil {
				return "", werr
			}
			continue
		}
		return clean, nil
	}
}

func decodeLine(line string) string {
	var text string
	if json.Unmarshal([]byte(line), &text) == nil {
		return text
	}
	var obj struct {
		Text string `json:"text"`
	}
	if json.Unmarshal([]byte(line), &obj) == nil {
		return obj.Text
	}
	return line
}

// SystemOutput emits a system message line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: MessageTypeSystem, Text: msg})
}
