// Package cli constructs the devsetup command-line interface, wiring the Cobra
// root command, the configuration loader, structured logging and the setup
// services. Execute runs the command as main does.
package cli
