/*
Package observability turns engine events into metrics and log lines.

Both NewMetrics and LogHooks return domain.Hooks; combine them with
Hooks.Merge and pass the result to ordinal.WithHooks.
*/
package observability
