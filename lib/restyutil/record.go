// Package restyutil records the HTTP exchanges of a resty client for later inspection.
package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

type exchangeSeqKey struct{}

type recorder struct {
	output DumpOutput
	tracer trace.Tracer
	seq    *atomic.Uint64
}

// Record traces every request made by `client` and writes each completed exchange
// to `output` as http-<run id>-<seq>.txt. The run id is read from the request
// context (see WithRunId).
//
// `tracer` can be nil, it defaults to a tracer named "resty".
func Record(client *resty.Client, tracer trace.Tracer, output DumpOutput) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}
	r := recorder{output: output, tracer: tracer, seq: &atomic.Uint64{}}
	client.OnBeforeRequest(r.beforeRequest)
	client.OnAfterResponse(r.afterResponse)
	client.OnError(r.onError)
}

func (r recorder) beforeRequest(_ *resty.Client, req *resty.Request) error {
	seq := strconv.FormatUint(r.seq.Add(1), 10)
	ctx, span := r.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))
	span.SetAttributes(attribute.String("exchange", seq))
	if runId := RunId(ctx); runId != "" {
		span.SetAttributes(attribute.String("run", runId))
	}
	req.SetContext(context.WithValue(ctx, exchangeSeqKey{}, seq))
	return nil
}

func exchangeSeq(ctx context.Context) string {
	seq, _ := ctx.Value(exchangeSeqKey{}).(string)
	return seq
}

func (r recorder) afterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// RawRequest is only populated once the request has been sent
	if res.Request.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	}
	if res.RawResponse != nil {
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}

	seq := exchangeSeq(ctx)
	runId := RunId(ctx)
	name := DumpName(ctx, "http", seq, "txt")
	r.output.Write(name, formatExchange(runId, seq, res))

	slog.DebugContext(
		ctx, "recorded exchange",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"run", runId,
		"dump", name,
	)
	return nil
}

func (r recorder) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}

	slog.WarnContext(
		ctx, "request failed",
		"method", req.Method,
		"url", req.URL,
		"run", RunId(ctx),
		"exchange", exchangeSeq(ctx),
		"err", err,
	)
}
