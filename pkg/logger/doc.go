// Package logger builds log/slog loggers for fieldhub services.
//
// Loggers are configured with functional options and decorated with context
// extractors, so request-scoped values such as the request id or the tenant
// subdomain appear on every record logged with a request context:
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Parse(cfg.Env), "fieldhub"),
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			tenant.LoggerExtractor(),
//		),
//	)
//	log.InfoContext(ctx, "csrf token issued", logger.Component("csrf"))
//
// Attribute helpers (Error, Component, Subdomain, Binding, Outcome) keep key
// names consistent across packages.
package logger
