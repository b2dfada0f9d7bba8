package tui

import (
	"maps"
	"slices"
	"strings"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/tui/components"
)

// KeybindingResolver resolves key presses to built-in dashboard actions via
// the merged keybinding table (defaults overridden by user config).
type KeybindingResolver struct {
	bindings map[string]config.Keybinding
}

// NewKeybindingResolver creates a resolver over the given bindings.
func NewKeybindingResolver(bindings map[string]config.Keybinding) *KeybindingResolver {
	return &KeybindingResolver{bindings: bindings}
}

// Resolve returns the action bound to the given key, if any.
func (r *KeybindingResolver) Resolve(key string) (string, bool) {
	kb, ok := r.bindings[key]
	if !ok || kb.Action == "" {
		return "", false
	}
	return kb.Action, true
}

// KeysFor returns all keys bound to the given action, sorted.
func (r *KeybindingResolver) KeysFor(action string) []string {
	var keys []string
	for key, kb := range r.bindings {
		if kb.Action == action {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// helpFor returns the help text for an action, preferring the binding's own
// help over the action name.
func (r *KeybindingResolver) helpFor(action string) string {
	keys := slices.Sorted(maps.Keys(r.bindings))
	for _, key := range keys {
		kb := r.bindings[key]
		if kb.Action == action && kb.Help != "" {
			return kb.Help
		}
	}
	return action
}

// helpEntry builds a single help entry for an action, joining all bound keys.
func (r *KeybindingResolver) helpEntry(action string) (components.HelpEntry, bool) {
	keys := r.KeysFor(action)
	if len(keys) == 0 {
		return components.HelpEntry{}, false
	}
	return components.HelpEntry{
		Key:  strings.Join(keys, "/"),
		Desc: r.helpFor(action),
	}, true
}

// HelpSections groups the bound actions for the help dialog.
func (r *KeybindingResolver) HelpSections() []components.HelpDialogSection {
	groups := []struct {
		title   string
		actions []string
	}{
		{"Navigation", []string{
			config.ActionNext,
			config.ActionPrev,
			config.ActionTabFeedbacks,
			config.ActionTabQuestions,
			config.ActionTabCycle,
			config.ActionRefresh,
		}},
		{"Drafting", []string{
			config.ActionEditDraft,
			config.ActionEditPrompt,
			config.ActionRegenerate,
			config.ActionSend,
			config.ActionCopy,
			config.ActionPreview,
		}},
		{"General", []string{
			config.ActionNotifications,
			config.ActionHelp,
			config.ActionQuit,
		}},
	}

	sections := make([]components.HelpDialogSection, 0, len(groups))
	for _, g := range groups {
		section := components.HelpDialogSection{Title: g.title}
		for _, action := range g.actions {
			if entry, ok := r.helpEntry(action); ok {
				section.Entries = append(section.Entries, entry)
			}
		}
		if len(section.Entries) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}
