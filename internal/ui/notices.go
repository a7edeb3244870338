package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	noticeLineTemplateConstant = "%s\n"
)

// NoticeWriter prints user-facing progress lines, highlighting warnings and reminders.
type NoticeWriter struct {
	output        io.Writer
	warningColor  *color.Color
	reminderColor *color.Color
}

// NewNoticeWriter constructs a NoticeWriter. Colors follow fatih/color's terminal detection.
func NewNoticeWriter(output io.Writer) *NoticeWriter {
	if output == nil {
		output = io.Discard
	}
	return &NoticeWriter{
		output:        output,
		warningColor:  color.New(color.FgYellow),
		reminderColor: color.New(color.FgCyan, color.Bold),
	}
}

// Output exposes the underlying writer for prompts that share the stream.
func (writer *NoticeWriter) Output() io.Writer {
	return writer.output
}

// Info prints a plain notice.
func (writer *NoticeWriter) Info(format string, arguments ...any) {
	fmt.Fprintf(writer.output, noticeLineTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Warning prints a highlighted non-fatal problem.
func (writer *NoticeWriter) Warning(format string, arguments ...any) {
	writer.warningColor.Fprintf(writer.output, noticeLineTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Reminder prints the closing reminder.
func (writer *NoticeWriter) Reminder(message string) {
	writer.reminderColor.Fprintf(writer.output, noticeLineTemplateConstant, message)
}

// Blank prints an empty line.
func (writer *NoticeWriter) Blank() {
	fmt.Fprintln(writer.output)
}
