// Package bind decodes a JSON request body into a struct and runs the
// struct's validation tags.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/validate"
)

const defaultBodyLimit = 4 << 20

// bodyLimit reads MAX_BODY_BYTES, falling back to 4 MB.
func bodyLimit() int64 {
	raw := config.Get("MAX_BODY_BYTES", "")
	if raw == "" {
		return defaultBodyLimit
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return defaultBodyLimit
	}
	return n
}

// JSON decodes r.Body into dest and validates it. A non-nil errs map
// carries field validation failures; a non-nil err means the body could
// not be decoded at all (malformed JSON, trailing garbage, or over the
// size cap).
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, bodyLimit())

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: unexpected trailing data")
	}
	_, _ = io.Copy(io.Discard, r.Body)

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
