package runner

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/senglish/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "SENGLISH_MAX_INPUT_SIZE"
)

// SanitizeInput cleans an instruction using the size limit from the environment.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, 0)
}

// SanitizeInputLimit cleans an instruction by enforcing a size limit,
// validating UTF-8, and stripping dangerous control characters.
// A limit <= 0 falls back to the environment or DefaultMaxInputSize.
func SanitizeInputLimit(input string, limit int) (string, error) {
	// 1. Enforce Size Limit
	if limit <= 0 {
		limit = getMaxInputSize()
	}
	if len(input) > limit {
		// Rejected rather than truncated: a cut chain could run half a block.
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrInputTooLarge, len(input), limit)
	}

	// 2. Validate UTF-8
	if !utf8.ValidString(input) {
		return "", domain.ErrInvalidUTF8
	}

	// 3. Strip Control Characters
	// Newline, tab and carriage return are kept; the segmenter folds them.
	// ESC, NULL, BEL etc. are removed to prevent log poisoning and terminal corruption.
	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
