package app

import "github.com/evanschultz/lasso/internal/domain"

// BoundingBoxProvider queries rendered geometry for item handles and the container.
type BoundingBoxProvider interface {
	BoundingBox(domain.Handle) (domain.Rect, error)
	ContainerBox() (domain.Rect, error)
}

// ModifierMapper maps one key combination onto selection intents.
type ModifierMapper interface {
	Modifiers(domain.KeyEvent) domain.SelectionModifier
}

// ModifierMapperFunc adapts a function to ModifierMapper.
type ModifierMapperFunc func(domain.KeyEvent) domain.SelectionModifier

// Modifiers calls f.
func (f ModifierMapperFunc) Modifiers(evt domain.KeyEvent) domain.SelectionModifier {
	return f(evt)
}

// Logger receives engine diagnostics.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
}

// nopLogger discards all diagnostics.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
