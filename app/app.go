// Package app connects a HAL to a visualization session.
package app

import (
	"vecviz/hal"
	"vecviz/internal/buildinfo"
	"vecviz/viz/session"
)

type Config struct {
	Session session.Config
}

// New builds the application on h and returns its step function. A session that
// cannot start is reported by the first step.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{Session: session.DefaultConfig()})
}

func NewWithConfig(h hal.HAL, cfg Config) func() error {
	if l := h.Logger(); l != nil {
		l.WriteLineString("vecviz " + buildinfo.String())
	}
	s, err := session.New(h, cfg.Session)
	if err != nil {
		return func() error { return err }
	}
	return guard(h, s.Step)
}
