package api

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// writeJSON encodes a response body with the given encoder callback and
// writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

// rangeParams holds the query parameters shared by every range report.
type rangeParams struct {
	StartMs         int64
	EndMs           int64
	TzOffsetMinutes int
}

// parseRangeParams reads the start, end, and tz query parameters. start and
// end are required epoch milliseconds; tz defaults to zero.
func parseRangeParams(r *http.Request) (rangeParams, error) {
	q := r.URL.Query()

	startMs, err := strconv.ParseInt(q.Get("start"), 10, 64)
	if err != nil {
		return rangeParams{}, errors.New("start must be epoch milliseconds")
	}
	endMs, err := strconv.ParseInt(q.Get("end"), 10, 64)
	if err != nil {
		return rangeParams{}, errors.New("end must be epoch milliseconds")
	}

	tz := 0
	if v := q.Get("tz"); v != "" {
		tz, err = strconv.Atoi(v)
		if err != nil {
			return rangeParams{}, errors.New("tz must be an offset in minutes")
		}
	}

	return rangeParams{StartMs: startMs, EndMs: endMs, TzOffsetMinutes: tz}, nil
}
