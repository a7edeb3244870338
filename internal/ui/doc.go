// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger turns git and editor lifecycle events into
// sentences for console logging, and NoticeWriter prints the progress notices,
// warnings, and the closing reminder shown to the person running devsetup.
package ui
