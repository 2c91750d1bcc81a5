package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"

	"go.uber.org/zap"
)

// request is one line of the stdio protocol: a tool name plus loosely
// typed arguments.
type request struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// RunStdio serves tool calls over a newline-delimited JSON protocol:
// one request object per input line, one Result object per output line.
// It returns when the input stream ends or ctx is cancelled.
func (r *Registry) RunStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			r.log.Warn("malformed request line", zap.Error(err))
			if err := enc.Encode(&Result{Text: "Error: malformed request: " + err.Error()}); err != nil {
				return err
			}
			continue
		}

		res := r.Call(ctx, req.Tool, req.Arguments)
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
