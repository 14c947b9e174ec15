// Package logger builds *slog.Logger values for the Flipt adapter and the
// discovery server.
//
// New applies functional options on top of a JSON, INFO-level default and wraps
// the chosen slog handler in a ContextHandler, which appends attributes pulled
// from the record's context (request IDs, for instance) at log time.
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "flipt-discovery"),
//		logger.WithContextExtractors(httpserver.RequestIDExtractor()),
//	)
//
//	log.DebugContext(ctx, "flipt evaluation failed",
//		logger.FlagKey("new-checkout"),
//		logger.EntityID(userID),
//		logger.Error(err),
//	)
//
// The environment presets (WithDevelopment, WithStaging, WithProduction and
// WithEnvironment) pick level and format and stamp every record with
// "service" and "env".
//
// Attribute helpers keep key names consistent. Error, Errors and EntityID
// return an empty attribute for empty input, which slog drops, so callers
// need no nil checks.
//
// Packages that take an optional logger default to Discard.
package logger
