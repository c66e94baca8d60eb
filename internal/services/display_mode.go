package services

import (
	"context"
	"sync"

	"todo-list/internal/config"
	"todo-list/internal/logging"
	"todo-list/internal/repository"
)

// Mode is the display theme
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ModeKey is the store key holding the display mode
const ModeKey = "mode"

// DarkModeClass is the container class applied in dark mode
const DarkModeClass = "dark-mode"

// Appearance is what the presentation layer applies for a mode
type Appearance struct {
	Mode           Mode   `json:"mode"`
	ContainerClass string `json:"container_class"`
	QuoteColor     string `json:"quote_color"`
}

// DisplayMode persists the light/dark preference
type DisplayMode struct {
	mu        sync.Mutex
	kv        repository.KeyValueStore
	darkColor string
	mode      Mode
}

var _ ModeService = (*DisplayMode)(nil)

// NewDisplayMode starts in light mode until Load is called
func NewDisplayMode(kv repository.KeyValueStore, cfg config.DisplayConfig) *DisplayMode {
	return &DisplayMode{
		kv:        kv,
		darkColor: cfg.DarkQuoteColor,
		mode:      ModeLight,
	}
}

// Load restores the persisted mode. Unknown values read as light.
func (d *DisplayMode) Load(ctx context.Context) (Mode, error) {
	raw, ok, err := d.kv.Get(ctx, ModeKey)
	if err != nil {
		return ModeLight, storageError("load mode", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = ModeLight
	if ok && Mode(raw) == ModeDark {
		d.mode = ModeDark
	} else if ok && Mode(raw) != ModeLight {
		logging.Debugf("ignoring unknown mode %q\n", raw)
	}
	return d.mode, nil
}

// Current returns the mode in effect
func (d *DisplayMode) Current() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Toggle flips between light and dark and persists the result
func (d *DisplayMode) Toggle(ctx context.Context) (Mode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := ModeDark
	if d.mode == ModeDark {
		next = ModeLight
	}
	if err := d.kv.Set(ctx, ModeKey, string(next)); err != nil {
		return d.mode, storageError("save mode", err)
	}
	d.mode = next
	return next, nil
}

// Appearance describes the current mode for rendering
func (d *DisplayMode) Appearance() Appearance {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == ModeDark {
		return Appearance{Mode: ModeDark, ContainerClass: DarkModeClass, QuoteColor: d.darkColor}
	}
	return Appearance{Mode: ModeLight}
}
