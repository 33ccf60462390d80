// Package history keeps the command lines entered at the prompt and
// persists them to a file, one entry per line.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"
)

const DefaultMaxItems = 1000

type History struct {
	items    []string
	file     string
	maxItems int
	mu       sync.Mutex
}

// New loads file if it exists. An empty file name keeps history in memory
// only.
func New(file string, maxItems int) (*History, error) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	h := &History{
		file:     file,
		maxItems: maxItems,
	}
	if err := h.load(); err != nil {
		return nil, fmt.Errorf("load history %s: %w", file, err)
	}
	return h, nil
}

// Add records item and rewrites the history file.
func (h *History) Add(item string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = append(h.items, item)
	h.trim()
	return h.save()
}

func (h *History) All() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string{}, h.items...)
}

func (h *History) trim() {
	if len(h.items) > h.maxItems {
		h.items = h.items[len(h.items)-h.maxItems:]
	}
}

func (h *History) load() error {
	if h.file == "" {
		return nil
	}
	file, err := os.Open(h.file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.items = append(h.items, scanner.Text())
	}
	h.trim()
	return scanner.Err()
}

func (h *History) save() error {
	if h.file == "" {
		return nil
	}
	file, err := os.Create(h.file)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, item := range h.items {
		if _, err := writer.WriteString(item + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
