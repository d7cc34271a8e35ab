package monitor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadProducts reads a newline-delimited URL list. Blank lines and lines
// starting with # are ignored, and repeated URLs keep their first position.
func LoadProducts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open products file: %w", err)
	}
	defer f.Close()

	urls, err := ParseProducts(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read products file %s: %w", path, err)
	}
	return urls, nil
}

// ParseProducts is LoadProducts over an arbitrary reader.
func ParseProducts(r io.Reader) ([]string, error) {
	var urls []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func dedupe(urls []string) []string {
	out := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
