package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/senglish/pkg/domain"
)

// ReportRenderer transforms a report into display text.
// This allows colored terminal output without coupling the runner to a TUI library.
type ReportRenderer func(domain.Report) string

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Prompt   string
	Renderer ReportRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the report renderer.
func WithTextHandlerRenderer(renderer ReportRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt sets the prompt shown before each read. Empty disables it.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor ctx while blocked on IO.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		// If we got text (even with EOF), send it
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	if h.Prompt != "" && ctx.Err() == nil {
		fmt.Fprint(h.Writer, h.Prompt)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

func (h *TextHandler) Output(ctx context.Context, report domain.Report) error {
	render := h.Renderer
	if render == nil {
		render = PlainReport
	}
	out := strings.TrimRight(render(report), "\n")
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(h.Writer, out)
	return err
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}

// PlainReport renders failures one per line, or nothing when the chain succeeded.
func PlainReport(report domain.Report) string {
	var b strings.Builder
	for _, o := range report.Failed() {
		fmt.Fprintf(&b, "%s %s: %s\n", o.Status, o.Command.Name, o.Error)
	}
	return b.String()
}
