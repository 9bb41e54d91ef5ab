package hotkey

import (
	"context"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
	"github.com/rs/zerolog/log"
)

// Listener watches the keyboard globally for an exit key and an optional
// trigger combination.
type Listener struct {
	ExitKey   string
	Trigger   string
	OnExit    func()
	OnTrigger func()

	stopOnce sync.Once
}

// Start registers the keys and runs the hook's event loop in the background.
// The hook is torn down when ctx ends or Stop is called.
func (l *Listener) Start(ctx context.Context) error {
	exit, err := ParseCombo(l.ExitKey)
	if err != nil {
		return err
	}
	hook.Register(hook.KeyDown, exit, func(e hook.Event) {
		log.Info().Str("key", l.ExitKey).Msg("exit key pressed")
		if l.OnExit != nil {
			l.OnExit()
		}
	})

	if l.Trigger != "" {
		trigger, err := ParseCombo(l.Trigger)
		if err != nil {
			return err
		}
		hook.Register(hook.KeyDown, trigger, func(e hook.Event) {
			log.Debug().Str("combo", strings.Join(trigger, "+")).Msg("trigger pressed")
			if l.OnTrigger != nil {
				l.OnTrigger()
			}
		})
	}

	log.Info().Strs("exit", exit).Str("trigger", l.Trigger).Msg("keyboard listener started")

	events := hook.Start()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("panic in keyboard hook")
			}
		}()
		<-hook.Process(events)
		log.Debug().Msg("keyboard hook stopped")
	}()

	go func() {
		<-ctx.Done()
		l.Stop()
	}()
	return nil
}

// Stop ends the hook's event loop. Safe to call more than once.
func (l *Listener) Stop() {
	l.stopOnce.Do(hook.End)
}
