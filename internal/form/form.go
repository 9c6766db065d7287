// Package form manages the state of controlled input forms: current values,
// per-field errors and which fields the user has left at least once.
//
// Errors are computed eagerly but only reported through HasError once the
// field has been blurred, so a pristine form never shows red.
package form

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	defaultRequiredMessage = "This field is required"
	defaultPatternMessage  = "Invalid format"
)

// Rule declares the constraints of a single field. Checks run in the order
// required, minimum length, pattern; the first failure wins.
type Rule struct {
	Required  bool
	MinLength int
	Pattern   *regexp.Regexp

	// Message is used for any failing check without a specific message.
	Message          string
	RequiredMessage  string
	MinLengthMessage string
	PatternMessage   string
}

// Manager holds the state of one form. Field keys are any string type.
type Manager[F ~string] struct {
	initial  map[F]string
	rules    map[F]Rule
	order    []F
	values   map[F]string
	errors   map[F]string
	touched  map[F]bool
	validate *validator.Validate
}

// New creates a Manager with the given initial values and optional rules.
// Only fields present in initial are part of the form.
func New[F ~string](initial map[F]string, rules map[F]Rule) *Manager[F] {
	m := &Manager[F]{
		initial:  copyMap(initial),
		rules:    copyRules(rules),
		validate: validator.New(),
	}
	for field := range m.initial {
		m.order = append(m.order, field)
	}
	sort.Slice(m.order, func(i, j int) bool { return m.order[i] < m.order[j] })
	m.Reset()
	return m
}

// Change sets the value of field and clears its error until the next blur.
func (m *Manager[F]) Change(field F, value string) {
	m.values[field] = value
	delete(m.errors, field)
}

// Blur marks field as touched and validates it.
func (m *Manager[F]) Blur(field F) {
	m.touched[field] = true
	m.validateField(field)
}

// ValidateAll validates every field and reports whether all of them pass.
// It does not mark fields as touched.
func (m *Manager[F]) ValidateAll() bool {
	valid := true
	for _, field := range m.order {
		if !m.validateField(field) {
			valid = false
		}
	}
	return valid
}

// HasError reports whether field has been touched and currently fails validation.
func (m *Manager[F]) HasError(field F) bool {
	return m.touched[field] && m.errors[field] != ""
}

// Reset restores the initial values and clears errors and touched flags.
func (m *Manager[F]) Reset() {
	m.values = copyMap(m.initial)
	m.errors = make(map[F]string)
	m.touched = make(map[F]bool)
}

// Value returns the current value of field.
func (m *Manager[F]) Value(field F) string {
	return m.values[field]
}

// Values returns a copy of all current values.
func (m *Manager[F]) Values() map[F]string {
	return copyMap(m.values)
}

// Error returns the current error of field, touched or not.
func (m *Manager[F]) Error(field F) string {
	return m.errors[field]
}

// Errors returns a copy of the current errors, touched or not.
func (m *Manager[F]) Errors() map[F]string {
	return copyMap(m.errors)
}

// Touched reports whether field has been blurred since the last reset.
func (m *Manager[F]) Touched(field F) bool {
	return m.touched[field]
}

// Fields returns the form's fields in a stable order.
func (m *Manager[F]) Fields() []F {
	out := make([]F, len(m.order))
	copy(out, m.order)
	return out
}

// Valid reports whether no field currently holds an error.
func (m *Manager[F]) Valid() bool {
	return len(m.errors) == 0
}

// Err returns a *ValidationError describing the current errors, or nil.
func (m *Manager[F]) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	verr := &ValidationError{Fields: make(map[string]string, len(m.errors))}
	for field, msg := range m.errors {
		verr.Fields[string(field)] = msg
	}
	return verr
}

func (m *Manager[F]) validateField(field F) bool {
	rule, ok := m.rules[field]
	if !ok {
		delete(m.errors, field)
		return true
	}

	if msg := m.check(rule, m.values[field]); msg != "" {
		m.errors[field] = msg
		return false
	}
	delete(m.errors, field)
	return true
}

func (m *Manager[F]) check(rule Rule, value string) string {
	if rule.Required && m.validate.Var(strings.TrimSpace(value), "required") != nil {
		return pick(rule.RequiredMessage, rule.Message, defaultRequiredMessage)
	}
	if value == "" {
		return ""
	}
	if rule.MinLength > 0 && m.validate.Var(value, fmt.Sprintf("min=%d", rule.MinLength)) != nil {
		return pick(rule.MinLengthMessage, rule.Message, fmt.Sprintf("Minimum of %d characters", rule.MinLength))
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		return pick(rule.PatternMessage, rule.Message, defaultPatternMessage)
	}
	return ""
}

func pick(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func copyMap[F comparable, V any](in map[F]V) map[F]V {
	out := make(map[F]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyRules[F comparable](in map[F]Rule) map[F]Rule {
	if in == nil {
		return map[F]Rule{}
	}
	return copyMap(in)
}
