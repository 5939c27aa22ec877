// Package logger wraps zap with a global sugared logger, context helpers
// and leveled convenience functions. Components take a context and pull
// their logger from it, so names and fields follow the call chain.
package logger
