package restaurantserver

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
)

const dateLayout = "2006-01-02"

// respondBindingError reports a body that failed to decode or validate.
func respondBindingError(c *gin.Context, err error) {
	apierrors.Respond(c, apierrors.FromBindingError(err))
}

// bindOptionalJSON binds a body that may be absent; an empty body leaves obj untouched.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		respondBindingError(c, err)
		return false
	}
	return true
}

// parseIDParam reads a uuid path parameter, answering 400 "Invalid <resource> ID format" when malformed.
func parseIDParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.Respond(c, apierrors.NewInvalidIDProblem(resource))
		return uuid.Nil, false
	}
	return id, true
}

// invalidInput maps errors wrapped in target to a 400 carrying the underlying rule as detail.
func invalidInput(target error) apierrors.ErrorMapper {
	return func(err error) (apierrors.Problem, bool) {
		if !errors.Is(err, target) {
			return apierrors.Problem{}, false
		}
		detail := strings.TrimPrefix(err.Error(), target.Error()+": ")
		return apierrors.ErrValidation.WithDetail(detail), true
	}
}

// sentence upper-cases the first letter of an error message.
func sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// queryFilters collects the field errors found while parsing query parameters.
type queryFilters struct {
	c      *gin.Context
	fields map[string]string
}

func newQueryFilters(c *gin.Context) *queryFilters {
	return &queryFilters{c: c, fields: map[string]string{}}
}

func (q *queryFilters) Bool(key string) *bool {
	raw, ok := q.c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fields[key] = "must be true or false"
		return nil
	}
	return &v
}

func (q *queryFilters) Int(key string) *int {
	raw, ok := q.c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fields[key] = "must be an integer"
		return nil
	}
	return &v
}

func (q *queryFilters) UUID(key string) *uuid.UUID {
	raw, ok := q.c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		q.fields[key] = "must be a valid uuid"
		return nil
	}
	return &v
}

// Day parses a YYYY-MM-DD parameter as the start of that UTC day.
func (q *queryFilters) Day(key string) *time.Time {
	raw, ok := q.c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}
	v, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		q.fields[key] = "must be a date formatted YYYY-MM-DD"
		return nil
	}
	return &v
}

// Range turns date_from/date_to into a half-open window; date_to includes the whole day.
func (q *queryFilters) Range(fromKey, toKey string) (*time.Time, *time.Time) {
	from := q.Day(fromKey)
	to := q.Day(toKey)
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	return from, to
}

func (q *queryFilters) Invalid(key, reason string) {
	q.fields[key] = reason
}

// Failed answers 400 with the collected field errors, if any.
func (q *queryFilters) Failed() bool {
	if len(q.fields) == 0 {
		return false
	}
	apierrors.Respond(q.c, apierrors.NewValidationProblem(q.fields))
	return true
}
