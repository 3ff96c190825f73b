// Package logger provides the structured logger used by orchid, backed by
// zerolog.
//
// The client itself never writes logs unless a logger is installed through
// the logging extension (see middleware.Logging). Library code receives a
// *Logger explicitly; the package-level logger exists for applications that
// embed orchid and want one shared sink.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&logger.Config{Level: "debug"}, "orchid")
//	log.Debug("request sent", logger.Fields("method", "GET", "url", u))
package logger
