package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LoadedPrompts holds prompt content resolved from files. Inline config
// prompts do not live here; they are read straight off the Config.
type LoadedPrompts struct {
	System string
	User   string
}

// promptStore is the process-wide cache of file-backed prompts. The watcher
// rewrites it on change, providers read it per call.
type promptStore struct {
	mu       sync.RWMutex
	global   LoadedPrompts
	provider map[string]LoadedPrompts
}

var prompts = &promptStore{provider: make(map[string]LoadedPrompts)}

// GetLoadedPrompts returns the file-backed prompts for a provider, falling
// back to the globally configured ones.
func GetLoadedPrompts(providerName string) LoadedPrompts {
	prompts.mu.RLock()
	defer prompts.mu.RUnlock()

	loaded, ok := prompts.provider[providerName]
	result := prompts.global
	if ok {
		if loaded.System != "" {
			result.System = loaded.System
		}
		if loaded.User != "" {
			result.User = loaded.User
		}
	}
	return result
}

// loadPromptsFromFiles reads every configured prompt file into the store.
// Called at startup and again by the prompt watcher on change.
func (c *Config) loadPromptsFromFiles() error {
	global, err := loadPromptPair(c.AI.CustomPrompts)
	if err != nil {
		return err
	}

	perProvider := make(map[string]LoadedPrompts)
	for name, pc := range map[string]PromptConfig{
		ProviderGemini: c.AI.Gemini.CustomPrompts,
		ProviderOpenAI: c.AI.OpenAI.CustomPrompts,
		ProviderClaude: c.AI.Claude.CustomPrompts,
	} {
		loaded, err := loadPromptPair(pc)
		if err != nil {
			return fmt.Errorf("provider %s: %w", name, err)
		}
		if loaded != (LoadedPrompts{}) {
			perProvider[name] = loaded
		}
	}

	prompts.mu.Lock()
	prompts.global = global
	prompts.provider = perProvider
	prompts.mu.Unlock()

	return nil
}

// ReloadPrompts re-reads prompt files; used by the prompt watcher.
func (c *Config) ReloadPrompts() error {
	return c.loadPromptsFromFiles()
}

// PromptFiles lists every configured prompt file path, deduplicated.
func (c *Config) PromptFiles() []string {
	var files []string
	seen := make(map[string]struct{})

	add := func(path string) {
		if path == "" {
			return
		}
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, pc := range []PromptConfig{
		c.AI.CustomPrompts,
		c.AI.Gemini.CustomPrompts,
		c.AI.OpenAI.CustomPrompts,
		c.AI.Claude.CustomPrompts,
	} {
		add(pc.SystemPromptFile)
		add(pc.UserPromptFile)
	}

	return files
}

func loadPromptPair(pc PromptConfig) (LoadedPrompts, error) {
	var loaded LoadedPrompts

	if pc.SystemPromptFile != "" {
		content, err := loadPromptFile(pc.SystemPromptFile, "system")
		if err != nil {
			return LoadedPrompts{}, err
		}
		loaded.System = content
	}
	if pc.UserPromptFile != "" {
		content, err := loadPromptFile(pc.UserPromptFile, "user")
		if err != nil {
			return LoadedPrompts{}, err
		}
		loaded.User = content
	}

	return loaded, nil
}

func loadPromptFile(path, promptType string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s prompt file %q: %w", promptType, path, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file %q: %w", promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file %q is empty", promptType, absPath)
	}

	return trimmed, nil
}
