// Package stdio implements the stdio transport: one JSON
// {"name":..., "arguments":...} request per input line, one JSON
// ToolResult per output line. Adapted from the teacher's cmd/kite-api
// main.go process-lifetime loop shape, replacing its HTTP listener with a
// line-oriented stdin/stdout loop for callers that shell out to the
// process directly instead of speaking HTTP.
package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/gongahkia/lexcore/internal/observability"
	"github.com/gongahkia/lexcore/internal/shell"
	lexerrors "github.com/gongahkia/lexcore/pkg/errors"
	"github.com/gongahkia/lexcore/pkg/models"
)

type request struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Serve reads one request per line from r until EOF or ctx is done,
// dispatches it through sh, and writes one ToolResult per line to w.
// A malformed line yields an invalid_json Result Envelope rather than
// stopping the loop; the caller sees one line of output per line of
// input.
func Serve(ctx context.Context, r io.Reader, w io.Writer, sh *shell.Shell, log *observability.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			result := models.Fail("", lexerrors.CodeInvalidJSON, "malformed request line", map[string]interface{}{
				"parse_error": err.Error(),
			})
			if encErr := enc.Encode(result); encErr != nil {
				return encErr
			}
			continue
		}

		if req.Arguments == nil {
			req.Arguments = map[string]interface{}{}
		}

		result := sh.HandleToolCall(ctx, req.Name, req.Arguments)
		if err := enc.Encode(result); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		log.ErrorWithErr(err, "stdio transport scan failed")
		return err
	}
	return nil
}
