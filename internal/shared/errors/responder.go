package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// body is the wire shape of a failed response.
type body struct {
	Success bool `json:"success"`
	Problem
}

// Responder sends Problem responses.
type Responder struct{}

// NewResponder creates a new responder.
func NewResponder() *Responder {
	return &Responder{}
}

// DefaultResponder is used by the package-level helpers.
var DefaultResponder = NewResponder()

// Respond sends a Problem response and aborts the gin chain.
func (r *Responder) Respond(c *gin.Context, problem Problem) {
	if problem.Status == 0 {
		problem.Status = http.StatusInternalServerError
	}
	if problem.Status >= http.StatusInternalServerError {
		_ = c.Error(problem)
	}
	c.AbortWithStatusJSON(problem.Status, body{Success: false, Problem: problem})
}

// WriteHTTP renders problem on a plain http.ResponseWriter, for handlers outside gin.
func WriteHTTP(w http.ResponseWriter, problem Problem) error {
	if problem.Status == 0 {
		problem.Status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(problem.Status)
	return json.NewEncoder(w).Encode(body{Success: false, Problem: problem})
}

// RespondError converts a standard error to a Problem and responds.
// It checks if the error is already a Problem, otherwise wraps it.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem Problem
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem Problem) {
	DefaultResponder.Respond(c, problem)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// ErrorMapper maps domain/application errors to a Problem.
type ErrorMapper func(err error) (Problem, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
	// Fallback is the message used when no mapper matches, e.g. "Error creating order".
	Fallback string
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(fallback string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(),
		mappers:   mappers,
		Fallback:  fallback,
	}
}

// WithFallback returns a copy sharing the mappers but answering unmatched errors with message.
func (r *ChainedResponder) WithFallback(message string) *ChainedResponder {
	clone := *r
	clone.Fallback = message
	return &clone
}

// AddMapper adds an error mapper to the chain.
func (r *ChainedResponder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// RespondError tries each mapper before falling back to a 500 carrying the fallback message.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem Problem
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	fallback := ErrInternal
	if r.Fallback != "" {
		fallback = fallback.WithMessage(r.Fallback)
	}
	r.Respond(c, fallback.WithDetail(err.Error()))
}

// Is builds an ErrorMapper matching target with errors.Is.
// The mapped problem carries the error text as its message unless message is set.
func Is(target error, template Problem, message string) ErrorMapper {
	return func(err error) (Problem, bool) {
		if !errors.Is(err, target) {
			return Problem{}, false
		}
		if message != "" {
			return template.WithMessage(message), true
		}
		return template.WithMessage(err.Error()), true
	}
}

// HTTPStatusFromError extracts HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var problem Problem
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}

// FromBindingError turns a gin binding failure into a validation problem.
// Validator field errors become a field -> rule map; decode failures keep their text as detail.
func FromBindingError(err error) Problem {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = describe(fe)
		}
		return NewValidationProblem(fields)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return NewValidationProblem(map[string]string{typeErr.Field: "must be a " + typeErr.Type.String()})
	}
	return ErrValidation.WithDetail(err.Error())
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	return toSnake(ns)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid", "uuid4":
		return "must be a valid UUID"
	default:
		return "failed on '" + fe.Tag() + "'"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && isLowerOrDigit(s[i-1]) {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isLowerOrDigit(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
