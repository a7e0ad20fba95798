// Package envelope writes the success side of the {success, data|message} response shape.
package envelope

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire shape of a successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Summary any    `json:"summary,omitempty"`
}

// Option decorates an envelope before it is written.
type Option func(*Envelope)

// WithMessage sets the human-readable message.
func WithMessage(message string) Option {
	return func(e *Envelope) {
		e.Message = message
	}
}

// WithCount adds the count field used by list endpoints.
func WithCount(n int) Option {
	return func(e *Envelope) {
		e.Count = &n
	}
}

// WithSummary adds an aggregate summary block.
func WithSummary(summary any) Option {
	return func(e *Envelope) {
		e.Summary = summary
	}
}

// New builds a success envelope.
func New(data any, opts ...Option) Envelope {
	env := Envelope{Success: true, Data: data}
	for _, opt := range opts {
		if opt != nil {
			opt(&env)
		}
	}
	return env
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data any, opts ...Option) {
	c.JSON(http.StatusOK, New(data, opts...))
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, New(data, WithMessage(message)))
}

// Message writes a data-less success envelope.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, New(nil, WithMessage(message)))
}
