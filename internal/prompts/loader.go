// Package prompts holds the LLM prompt templates used by the assist
// endpoints. Prompts are stored as flat JSON objects and embedded at compile
// time; each action has a "<name>-system" and a "<name>-user" entry.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// AssistFile is the prompt file used by the assist service.
const AssistFile = "assist.json"

//go:embed *.json
var promptFiles embed.FS

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Pair is a system prompt plus a user prompt template.
type Pair struct {
	System string
	User   string
}

// Render fills the user template and returns the system prompt and the
// filled user prompt.
func (p Pair) Render(data map[string]string) (system, user string) {
	return p.System, Format(p.User, data)
}

// Get retrieves a prompt by filename and key.
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// GetPair retrieves the "<name>-system" and "<name>-user" prompts.
func GetPair(filename, name string) (Pair, error) {
	system, err := Get(filename, name+"-system")
	if err != nil {
		return Pair{}, err
	}
	user, err := Get(filename, name+"-user")
	if err != nil {
		return Pair{}, err
	}
	return Pair{System: system, User: user}, nil
}

// MustGet retrieves a prompt by filename and key, panicking if not found.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders with values from data. Unknown
// placeholders are left as they are.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	args := make([]string, 0, 2*len(data))
	for key, value := range data {
		args = append(args, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(args...).Replace(template)
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	prompts, exists := cache[filename]
	cacheMu.RUnlock()
	if exists {
		return prompts, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}

// List returns the prompt keys of a file in sorted order.
func List(filename string) ([]string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
