package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout datagrid
var (
	ErrInvalidSortArg = errors.New("invalid sort argument")
	ErrInvalidFilter  = errors.New("invalid filter argument")
	ErrUnknownKey     = errors.New("unknown config key")
)

// CLIError is a structured error with context and suggestions
type CLIError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return e.Title + ": " + e.Err.Error()
	}
	return e.Title
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *CLIError) Format() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Error: %s\n", e.Title)

	if e.Message != "" {
		fmt.Fprintf(&sb, "\n  %s\n", e.Message)
	}
	if e.Context != "" {
		fmt.Fprintf(&sb, "\n  %s\n", e.Context)
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			fmt.Fprintf(&sb, "    • %s\n", cause)
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			fmt.Fprintf(&sb, "    $ %s\n", sug)
		}
	}

	return sb.String()
}

// NewError creates a new CLIError
func NewError(title string) *CLIError {
	return &CLIError{Title: title}
}

// WithMessage adds a detailed message
func (e *CLIError) WithMessage(msg string) *CLIError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *CLIError) WithContext(ctx string) *CLIError {
	e.Context = ctx
	return e
}

// WithCauses adds possible causes
func (e *CLIError) WithCauses(causes ...string) *CLIError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestions adds actionable suggestions
func (e *CLIError) WithSuggestions(sugs ...string) *CLIError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *CLIError) Wrap(err error) *CLIError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// LoadError returns a structured error for an unreadable input file
func LoadError(path string, err error) *CLIError {
	return NewError("Cannot load "+path).
		WithCauses(
			"The file does not exist or is not readable",
			"The file extension does not match its content",
			"The file is not a header row + records (CSV/TSV) or a list of objects (JSON/YAML)",
		).
		WithSuggestions(
			"datagrid view --format csv "+path+"   # Force a format",
		).
		Wrap(err)
}

// UnknownColumnError returns a structured error for a column name that is
// not in the data
func UnknownColumnError(flag, name string, available []string) *CLIError {
	e := NewError(fmt.Sprintf("Unknown column '%s' in %s", name, flag))
	if len(available) > 0 {
		e.WithMessage("Available columns: " + strings.Join(available, ", "))
	}
	return e
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *CLIError {
	return NewError("Cannot connect to database").
		WithContext(url).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"psql \""+url+"\" -c 'select 1'   # Check the URL",
		).
		Wrap(err)
}

// QueryError returns a structured error for a failed SQL query
func QueryError(query string, err error) *CLIError {
	return NewError("Query failed").
		WithContext(query).
		Wrap(err)
}

// InvalidArgumentError returns an error for a malformed flag value
func InvalidArgumentError(flag, value, example string) *CLIError {
	e := NewError(fmt.Sprintf("Invalid value for %s: %q", flag, value))
	if example != "" {
		e.WithSuggestions(example)
	}
	return e
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *CLIError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestions(example)
	}
	return e
}

// TooManyArgumentsError returns an error for too many arguments
func TooManyArgumentsError(expected int, got int) *CLIError {
	return NewError(fmt.Sprintf("Too many arguments: expected %d, got %d", expected, got))
}
