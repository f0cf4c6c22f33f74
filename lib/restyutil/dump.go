package restyutil

import (
	"context"
	"fmt"
)

// DumpOutput receives named documents captured during a run, such as page markup
// or HTTP exchanges.
type DumpOutput interface {
	Write(name string, contents string)
}

type runIdKey struct{}

// WithRunId tags every dump written under ctx with the id of the run.
func WithRunId(ctx context.Context, runId string) context.Context {
	return context.WithValue(ctx, runIdKey{}, runId)
}

// RunId returns the run id attached by WithRunId, or "" if there is none.
func RunId(ctx context.Context) string {
	id, _ := ctx.Value(runIdKey{}).(string)
	return id
}

// DumpName names a dump `<kind>-<run id>-<stamp>.<ext>`, the run id is left out
// when ctx carries none.
func DumpName(ctx context.Context, kind, stamp, ext string) string {
	runId := RunId(ctx)
	if runId == "" {
		return fmt.Sprintf("%s-%s.%s", kind, stamp, ext)
	}
	return fmt.Sprintf("%s-%s-%s.%s", kind, runId, stamp, ext)
}
