// Package services implements the shared desktop service stores every
// app sees through the SDK: commands, notifications, settings, the
// context-menu model, and a collaboration-state mirror.
package services

import "sync"

// Command is one invokable, string-keyed action, optionally contributed
// by a manifest's Contributes.Commands list.
type Command struct {
	ID      string
	AppID   string
	Handler func(args ...any) (any, error)
}

// CommandRegistry is the process-wide command table.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]*Command
}

// NewCommandRegistry builds an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]*Command)}
}

// Register creates a command record or, if one already exists for id
// from the same app, refreshes only its handler — the manifest-declared
// record itself is never replaced wholesale.
func (c *CommandRegistry) Register(appID, id string, handler func(args ...any) (any, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.commands[id]; ok && existing.AppID == appID {
		existing.Handler = handler
		return
	}
	c.commands[id] = &Command{ID: id, AppID: appID, Handler: handler}
}

// Unregister clears the handler but leaves the manifest-declared
// command record (and its id) in the registry.
func (c *CommandRegistry) Unregister(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cmd, ok := c.commands[id]; ok {
		cmd.Handler = nil
	}
}

// Execute dispatches id with args, returning an error if the command is
// unknown or has no active handler.
func (c *CommandRegistry) Execute(id string, args ...any) (any, error) {
	c.mu.RLock()
	cmd, ok := c.commands[id]
	c.mu.RUnlock()
	if !ok || cmd.Handler == nil {
		return nil, &ErrUnknownCommand{ID: id}
	}
	return cmd.Handler(args...)
}

// List returns every registered command, handler present or not.
func (c *CommandRegistry) List() []*Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		out = append(out, cmd)
	}
	return out
}

// ErrUnknownCommand reports a call to an unregistered or handler-less command.
type ErrUnknownCommand struct{ ID string }

func (e *ErrUnknownCommand) Error() string { return "unknown command: " + e.ID }
