/*
Package tracing provides lightweight request tracing.

Every HTTP request gets a span. Trace and span ids travel in the X-Trace-ID
and X-Span-ID headers, so a frontend can correlate a user action with the
backend log lines it produced. Finished spans are buffered and logged through
zap by a single collector goroutine.

# Usage

	tracer := tracing.New("webdesk", logger.Logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
