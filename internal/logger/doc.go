// Package logger wraps zap with the logging conventions shared by the
// eink-agent daemon and the einkctl CLI: a global sugared logger with a
// console encoder on stderr, context helpers (ToContext, FromContext,
// WithName, WithKV, WithFields) and level-aware package functions
// (InfoKV, Errorf, ...) that resolve the logger from the context.
//
// Services take a context and log through these helpers, so a component
// name attached once with WithName follows every call below it.
package logger
