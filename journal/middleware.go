package journal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hazyhaar/chrd/idgen"
	"github.com/hazyhaar/chrd/kit"
)

// Middleware journals every endpoint invocation: command name and session
// id come from the context, arguments from the request, and the outcome
// from the endpoint result. Journal failures never fail the command.
func Middleware(store *Store) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			e := &Entry{
				ID:        idgen.New(),
				SessionID: kit.GetSessionID(ctx),
				Command:   kit.GetCommand(ctx),
				Args:      encodeArgs(req),
				TookMs:    time.Since(start).Milliseconds(),
				Timestamp: time.Now().UnixMilli(),
			}
			if err != nil {
				e.Outcome = "error"
				e.Detail = err.Error()
			} else {
				e.Outcome = "ok"
				if s, ok := resp.(string); ok {
					e.Detail = firstLine(s)
				}
			}
			store.Record(e)

			return resp, err
		}
	}
}

func encodeArgs(req any) string {
	if req == nil {
		return "{}"
	}
	data, err := json.Marshal(req)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// firstLine keeps journal rows compact: a snapshot result can run to
// hundreds of lines, the first one is enough to identify it.
func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
