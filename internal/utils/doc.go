// Package utils exposes reusable helpers consumed by the devsetup command.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging.
package utils
