package events

import (
	"context"
	"log"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// EmitFunc delivers a named event to whoever renders it.
type EmitFunc func(ctx context.Context, name string, payload any)

// RuntimeEmitter forwards events to the wails frontend. ctx must be the
// context wails passed to OnStartup.
func RuntimeEmitter(ctx context.Context, name string, payload any) {
	runtime.EventsEmit(ctx, name, payload)
}

// LogEmitter writes events to the standard logger. Used outside the desktop
// host, where there is no frontend to receive them.
func LogEmitter(_ context.Context, name string, payload any) {
	log.Printf("event %s: %+v", name, payload)
}

// Discard drops every event.
func Discard(context.Context, string, any) {}
