package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kailas-cloud/mediacat/pkg/client"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (record not found, rejected query, server error)
	ExitCommandError = 2 // Command error (bad flags, unreadable input)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose output, keeps JSON on Writer clean
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success outputs data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Fail reports err in the configured format and returns it with an exit code.
func (f *OutputFormatter) Fail(err error) error {
	code, message := "error", err.Error()
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		code, message = apiErr.Code, apiErr.Message
	}
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message},
		})
	} else {
		fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	}
	return WrapExitError(ExitFailure, code, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func writeRecordTable(w io.Writer, records []client.Record) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tYEAR\tRATING\tGENRE\tTAG")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f\t%s\t%s\n",
			r.ID, r.Name, r.Year, r.Rating, strings.Join(r.Genre, ","), strings.Join(r.Tag, ","))
	}
	_ = tw.Flush()
}

func writeRecordDetail(w io.Writer, r *client.Record) {
	fmt.Fprintf(w, "ID:          %d\n", r.ID)
	fmt.Fprintf(w, "Name:        %s\n", r.Name)
	fmt.Fprintf(w, "Year:        %d\n", r.Year)
	fmt.Fprintf(w, "Rating:      %.1f\n", r.Rating)
	fmt.Fprintf(w, "Genre:       %s\n", strings.Join(r.Genre, ", "))
	fmt.Fprintf(w, "Tag:         %s\n", strings.Join(r.Tag, ", "))
	if r.Img != "" {
		fmt.Fprintf(w, "Image:       %s\n", r.Img)
	}
	if len(r.Episodes) > 0 {
		fmt.Fprintf(w, "Episodes:    %d\n", len(r.Episodes))
	}
	if r.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", r.Description)
	}
}
