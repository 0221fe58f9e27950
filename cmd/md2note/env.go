package main

import (
	"context"
	"io"
	"os"
	"time"

	md2note "github.com/alnah/go-md2note"
)

// publishFunc matches md2note.Publish.
type publishFunc func(ctx context.Context, cfg md2note.SessionConfig, doc md2note.Document, c *md2note.Composer, opts ...md2note.SessionOption) (*md2note.Result, error)

// loginFunc matches md2note.Login.
type loginFunc func(ctx context.Context, cfg md2note.SessionConfig, opts ...md2note.SessionOption) error

// Environment holds injectable dependencies for testability.
// Tests swap Publish and Login to run commands without a browser.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Publish publishFunc
	Login   loginFunc
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Publish: md2note.Publish,
		Login:   md2note.Login,
	}
}
