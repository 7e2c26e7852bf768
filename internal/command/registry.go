package command

import "sync"

// registryMu guards the registry map. Registration happens before the
// gateway opens, but event handlers read the map from discordgo's
// dispatch goroutines, so every access takes the lock.
var (
	registryMu sync.RWMutex
	registry   = map[string]Command{}
)

// Register registers a command and its aliases.
func Register(cmd Command) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		registry[a] = cmd
	}
}

// Get returns the command with the given name or alias.
func Get(name string) (Command, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	cmd, ok := registry[name]
	return cmd, ok
}

// All returns all registered commands, deduplicated across aliases.
func All() []Command {
	registryMu.RLock()
	defer registryMu.RUnlock()
	seen := map[string]bool{}
	list := make([]Command, 0)
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	return list
}
