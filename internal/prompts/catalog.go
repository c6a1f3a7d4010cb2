package prompts

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog holds registered embedded prompts.
type Catalog struct {
	mu       sync.RWMutex
	embedded map[string]EmbeddedPrompt
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{embedded: make(map[string]EmbeddedPrompt)}
}

// Register adds or replaces a prompt.
func (c *Catalog) Register(prompt EmbeddedPrompt) {
	if prompt.Hash == "" {
		prompt.Hash = HashText(prompt.Text)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.embedded[prompt.Key] = prompt
}

// Get returns the prompt registered under key.
func (c *Catalog) Get(key string) (EmbeddedPrompt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.embedded[key]
	return p, ok
}

// Text returns the prompt text for key.
func (c *Catalog) Text(key string) (string, error) {
	p, ok := c.Get(key)
	if !ok {
		return "", fmt.Errorf("prompt not found: %s", key)
	}
	return p.Text, nil
}

// All returns every registered prompt sorted by key.
func (c *Catalog) All() []EmbeddedPrompt {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]EmbeddedPrompt, 0, len(c.embedded))
	for _, p := range c.embedded {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}
