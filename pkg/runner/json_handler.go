package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/senglish/pkg/domain"
)

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
//
// Each input line is either a JSON string, an object {"text": "..."}, or raw text.
// Each report is written as one JSON object per line.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

type jsonInput struct {
	Text string `json:"text"`
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	// Try to unquote if it's a JSON string
	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s, nil
	}
	var obj jsonInput
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &obj); err == nil {
			return obj.Text, nil
		}
	}

	// Fallback: return raw text (e.g. if they just sent plain text)
	return text, nil
}

type jsonOutput struct {
	OK       bool             `json:"ok"`
	Outcomes []domain.Outcome `json:"outcomes"`
}

func (h *JSONHandler) Output(ctx context.Context, report domain.Report) error {
	return h.Encoder.Encode(jsonOutput{OK: report.OK(), Outcomes: report.Outcomes})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}
