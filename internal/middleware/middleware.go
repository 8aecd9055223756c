package middleware

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger logs every request with zerolog
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}

		event = event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())
		if userID := c.GetString(ContextUserIDKey); userID != "" {
			event = event.Str("userID", userID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.Msg("Request handled")
	}
}

// BodyLimit caps the size of request bodies
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// formPrefixKey holds the recorded start of a multipart body
const formPrefixKey = "formPrefix"

// maxPreservedField bounds a single recovered text field
const maxPreservedField = 1 << 20

// prefixBuffer keeps the first max bytes written to it and drops the rest
type prefixBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *prefixBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

type teeBody struct {
	io.Reader
	io.Closer
}

// RecordFormPrefix keeps the first maxBytes of the request body so that
// PartialFormValues can recover text fields when the body is rejected
func RecordFormPrefix(maxBytes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && maxBytes > 0 {
			prefix := &prefixBuffer{max: maxBytes}
			c.Request.Body = teeBody{Reader: io.TeeReader(c.Request.Body, prefix), Closer: c.Request.Body}
			c.Set(formPrefixKey, prefix)
		}
		c.Next()
	}
}

// PartialFormValues returns the complete text fields found in the recorded
// start of a multipart body. Fields cut off by the limit are left out.
func PartialFormValues(c *gin.Context) url.Values {
	values := url.Values{}
	v, ok := c.Get(formPrefixKey)
	if !ok {
		return values
	}
	prefix, ok := v.(*prefixBuffer)
	if !ok {
		return values
	}
	_, params, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || params["boundary"] == "" {
		return values
	}

	mr := multipart.NewReader(bytes.NewReader(prefix.buf.Bytes()), params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			return values
		}
		if part.FormName() == "" || part.FileName() != "" {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(part, maxPreservedField))
		if err != nil {
			return values
		}
		values.Add(part.FormName(), string(data))
	}
}

// IsBodyTooLarge reports whether err comes from a body cut off by BodyLimit
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}
