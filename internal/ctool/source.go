package ctool

import "os"

// resolveSource turns a tool input into C source text. An input naming an
// existing filesystem entry is read and its content returned; any other
// input, including ones that merely fail to stat, is already the source.
// Only an entry that exists but cannot be read is an error.
func resolveSource(input string) (string, error) {
	if _, err := os.Stat(input); err != nil {
		return input, nil
	}
	content, err := os.ReadFile(input)
	if err != nil {
		return "", &ReadError{Path: input, Err: err}
	}
	return string(content), nil
}
