// Package styling collects the CSS that ships with view presets.
package styling

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// Hash identifies a block of CSS by the first 6 hex chars of its sha256
func Hash(css string) string {
	sum := sha256.Sum256([]byte(css))
	return "_" + hex.EncodeToString(sum[:])[:6]
}

// Sheet is an ordered, de-duplicated set of CSS blocks
type Sheet struct {
	mu     sync.RWMutex
	order  []string
	blocks map[string]string
}

// NewSheet creates an empty sheet
func NewSheet() *Sheet {
	return &Sheet{blocks: make(map[string]string)}
}

// Add appends css unless an identical block is already present, and
// returns its hash. Blank css is ignored.
func (s *Sheet) Add(css string) string {
	css = strings.TrimSpace(removeComments(css))
	if css == "" {
		return ""
	}
	hash := Hash(css)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[hash]; !ok {
		s.blocks[hash] = css
		s.order = append(s.order, hash)
	}
	return hash
}

// Has reports whether a block with hash was added
func (s *Sheet) Has(hash string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocks[hash]
	return ok
}

// Len returns the number of distinct blocks
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// CSS returns every block in the order it was first added
func (s *Sheet) CSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	for _, hash := range s.order {
		b.WriteString(s.blocks[hash])
		b.WriteString("\n")
	}
	return b.String()
}

// removeComments strips /* */ comments
func removeComments(css string) string {
	var result strings.Builder
	i := 0
	for i < len(css) {
		if i+1 < len(css) && css[i] == '/' && css[i+1] == '*' {
			end := strings.Index(css[i+2:], "*/")
			if end == -1 {
				break
			}
			i += end + 4
			continue
		}
		result.WriteByte(css[i])
		i++
	}
	return result.String()
}
