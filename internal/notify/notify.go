// Package notify carries user-visible notifications out of the scheduling
// engine. Delivery is fire-and-forget: a failed notification never affects
// the mutation that produced it.
package notify

import "github.com/rs/zerolog"

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier surfaces a message to the user.
type Notifier interface {
	Emit(level Level, title, message string)
}

// LogNotifier writes notifications to a structured log. It is the default
// sink when no delivery channel is configured.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Emit(level Level, title, message string) {
	var ev *zerolog.Event
	switch level {
	case LevelError:
		ev = n.log.Error()
	case LevelWarning:
		ev = n.log.Warn()
	default:
		ev = n.log.Info()
	}
	ev.Str("level", string(level)).Str("title", title).Msg(message)
}

// Multi fans a notification out to several sinks.
type Multi []Notifier

func (m Multi) Emit(level Level, title, message string) {
	for _, n := range m {
		n.Emit(level, title, message)
	}
}

// Noop discards notifications.
type Noop struct{}

func (Noop) Emit(Level, string, string) {}
