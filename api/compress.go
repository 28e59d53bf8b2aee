package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
)

// zstdCompression compresses tile/bbox JSON responses with zstd when the
// client advertises support for it, falling back to identity encoding
// otherwise. The teacher used this same library to persist an index to
// disk (cluster/storage.go); here it compresses the wire format of the
// query responses instead, since disk persistence of the index itself is
// out of scope.
func zstdCompression(c *gin.Context) {
	if !acceptsZstd(c.GetHeader("Accept-Encoding")) {
		c.Next()
		return
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		c.Next()
		return
	}
	defer enc.Close()

	writer := &zstdResponseWriter{ResponseWriter: c.Writer, enc: enc}
	c.Writer = writer
	c.Header("Content-Encoding", "zstd")
	c.Header("Vary", "Accept-Encoding")

	c.Next()

	if err := writer.Close(); err != nil {
		c.Error(err)
	}
}

func acceptsZstd(acceptEncoding string) bool {
	for _, enc := range strings.Split(acceptEncoding, ",") {
		if strings.TrimSpace(enc) == "zstd" {
			return true
		}
	}
	return false
}

// zstdResponseWriter buffers writes through a zstd encoder built once per
// request via zstd.NewWriter(nil) and reused with EncodeAll, since gin's
// ResponseWriter interface does not expose a streaming Close hook other
// than the request's own end.
type zstdResponseWriter struct {
	gin.ResponseWriter
	enc *zstd.Encoder
	buf []byte
}

func (w *zstdResponseWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *zstdResponseWriter) Close() error {
	if len(w.buf) == 0 {
		return nil
	}
	compressed := w.enc.EncodeAll(w.buf, nil)
	_, err := w.ResponseWriter.Write(compressed)
	return err
}
