package bot

import (
	"vanitybot/pkg/vanity"
)

type HandlerConfig struct {
	Sanitizer     vanity.Sanitizer
	PaletteSwatch bool
}

type Handler struct {
	manager       *vanity.Manager
	sanitizer     vanity.Sanitizer
	paletteSwatch bool
	palette       []vanity.PaletteEntry
}

func NewHandler(manager *vanity.Manager, cfg HandlerConfig) *Handler {
	sanitizer := cfg.Sanitizer
	if sanitizer.MaxLength == 0 && len(sanitizer.Banned) == 0 {
		sanitizer = vanity.DefaultSanitizer
	}
	return &Handler{
		manager:       manager,
		sanitizer:     sanitizer,
		paletteSwatch: cfg.PaletteSwatch,
		palette:       vanity.Palette,
	}
}
