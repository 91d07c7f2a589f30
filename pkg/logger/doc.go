// Package logger builds *slog.Logger instances with functional options,
// per-environment defaults and context-driven attributes.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// result in LogHandlerDecorator, which runs registered ContextExtractor
// callbacks for every record. The helpers in attr.go keep attribute keys
// consistent across the two-factor packages: principal_id, resource_id,
// method, token_id, component and event.
//
// # Usage
//
//	log := logger.New(logger.WithEnvironment(os.Getenv("APP_ENV"), "twofactor"))
//	log.InfoContext(ctx, "token issued",
//	    logger.PrincipalID("user-42"),
//	    logger.Method("email"),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
