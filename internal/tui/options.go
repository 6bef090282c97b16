package tui

import "github.com/evanschultz/lasso/internal/app"

// GridConfig holds cell geometry for the item grid.
type GridConfig struct {
	// Columns fixes the column count; zero fits the terminal width.
	Columns    int
	CellWidth  int
	CellHeight int
	GapX       int
	GapY       int
}

type Option func(*Model)

func DefaultGridConfig() GridConfig {
	return GridConfig{
		CellWidth:  18,
		CellHeight: 3,
		GapX:       2,
		GapY:       1,
	}
}

// WithGridConfig overrides the grid geometry.
func WithGridConfig(cfg GridConfig) Option {
	return func(m *Model) {
		m.layout.Columns = max(cfg.Columns, 0)
		m.layout.CellWidth = max(cfg.CellWidth, 1)
		m.layout.CellHeight = max(cfg.CellHeight, 1)
		m.layout.GapX = max(cfg.GapX, 0)
		m.layout.GapY = max(cfg.GapY, 0)
		m.fitColumns = cfg.Columns <= 0
	}
}

// WithEngineOptions forwards options to the selection engine.
func WithEngineOptions(opts ...app.EngineOption) Option {
	return func(m *Model) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// WithModifierMapper sets the shortcut mapper used for held keys.
func WithModifierMapper(mapper app.ModifierMapper) Option {
	return func(m *Model) {
		m.mapper = mapper
	}
}

// WithClipboard replaces the clipboard writer used by yank.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}
