package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/listenbot/internal/presentation/tui"
	"github.com/aretw0/listenbot/pkg/controller"
)

// Speaker tags printed before robot output and the user prompt.
const (
	RobotTag = "🤖"
	UserTag  = "📞"
)

// TextHandler implements the interactive text interface.
type TextHandler struct {
	source   io.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	// ReplyLimit bounds a reply in bytes; zero means DefaultReplyLimit.
	ReplyLimit int

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithStdin reads user replies from os.Stdin.
func WithStdin() TextHandlerOption {
	return WithInputReader(os.Stdin)
}

// WithInputReader reads user replies line by line from r.
func WithInputReader(r io.Reader) TextHandlerOption {
	return func(h *TextHandler) {
		h.source = r
	}
}

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithReplyLimit rejects replies longer than n bytes.
func WithReplyLimit(n int) TextHandlerOption {
	return func(h *TextHandler) {
		h.ReplyLimit = n
	}
}

// NewTextHandler creates a handler writing to w. Without an input reader,
// replies must be pushed with FeedInput.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer:    w,
		inputChan: make(chan inputResult, DefaultInputBufferSize),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FeedInput pushes a reply (or an error such as io.EOF) as if it had been typed.
func (h *TextHandler) FeedInput(text string, err error) {
	h.inputChan <- inputResult{text: text, err: err}
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		if h.source != nil {
			go h.pump(bufio.NewReader(h.source))
		}
	})
}

func (h *TextHandler) pump(reader *bufio.Reader) {
	for {
		text, err := reader.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				h.inputChan <- inputResult{err: io.EOF}
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints "🤖 : <text>".
func (h *TextHandler) Output(ctx context.Context, reply controller.Reply) error {
	output := reply.Text
	if h.Renderer != nil {
		if rendered, err := h.Renderer(output); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintf(h.Writer, "%s : %s\n", tui.Speaker(h.Writer, RobotTag, "#818cf8"), strings.TrimSpace(output))
	return err
}

// Input prompts with "📞 : " and returns the next sanitized line.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprintf(h.Writer, "%s : ", tui.Speaker(h.Writer, UserTag, "#f472b6"))
		}

		select {
		case <-ctx.Done():
			// Important: don't print anything here, just exit silently
			return "", ctx.Err()
		case res := <-h.inputChan:
			if res.err != nil {
				return "", res.err
			}

			clean, err := CleanReply(res.text, h.ReplyLimit)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints msg on its own line.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, msg)
	return err
}
