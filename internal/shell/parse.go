package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// parseLine splits a command line into words and reports whether it asks
// for a background job with a trailing "&".
func parseLine(input string) ([]string, bool, error) {
	input = strings.TrimSpace(input)
	argv, err := shellquote.Split(input)
	if err != nil {
		return nil, false, usagef("tsh: %v", err)
	}
	if len(argv) == 0 {
		return nil, false, nil
	}

	last := argv[len(argv)-1]
	switch {
	case last == "&":
		argv = argv[:len(argv)-1]
	case strings.HasSuffix(last, "&") && strings.HasSuffix(input, "&") && !strings.HasSuffix(input, `\&`):
		// "sleep 10&": the ampersand is unquoted but glued to the word.
		argv[len(argv)-1] = strings.TrimSuffix(last, "&")
	default:
		return argv, false, nil
	}
	return argv, true, nil
}
