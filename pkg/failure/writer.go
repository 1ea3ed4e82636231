package failure

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

const noWritten = -1

// bufferedWriter holds the status and body of the downstream chain so the
// response can still be replaced once the chain has returned.
type bufferedWriter struct {
	gin.ResponseWriter
	status      int
	wroteHeader bool
	size        int
	body        bytes.Buffer
}

func newBufferedWriter(w gin.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{ResponseWriter: w, status: w.Status(), size: noWritten}
}

func (w *bufferedWriter) WriteHeader(code int) {
	if code <= 0 || w.Written() {
		return
	}
	w.status = code
	w.wroteHeader = true
}

func (w *bufferedWriter) WriteHeaderNow() {
	if w.size == noWritten {
		w.size = 0
	}
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	w.WriteHeaderNow()
	n, err := w.body.Write(data)
	w.size += n
	return n, err
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *bufferedWriter) Status() int   { return w.status }
func (w *bufferedWriter) Size() int     { return w.size }
func (w *bufferedWriter) Written() bool { return w.size != noWritten }

// Flush is a no-op; the body is released by flush once the chain is done.
func (w *bufferedWriter) Flush() {}

// flush copies the buffered response to the underlying writer unchanged.
func (w *bufferedWriter) flush() error {
	if w.wroteHeader || w.Written() {
		w.ResponseWriter.WriteHeader(w.status)
	}
	if w.size == noWritten {
		return nil
	}
	if w.body.Len() == 0 {
		w.ResponseWriter.WriteHeaderNow()
		return nil
	}
	_, err := w.ResponseWriter.Write(w.body.Bytes())
	return err
}

// discard drops the buffered body and every header describing it.
func (w *bufferedWriter) discard() {
	w.body.Reset()
	h := w.ResponseWriter.Header()
	h.Del("Content-Length")
	h.Del("Content-Type")
	h.Del("Content-Encoding")
}

var _ http.ResponseWriter = (*bufferedWriter)(nil)
