package api

import (
	"io"
	"net/http"
)

// relayBufferSize bounds the memory held per relayed stream
const relayBufferSize = 32 * 1024

type flushWriter interface {
	io.Writer
	http.Flusher
}

// relay copies src to dst one buffer at a time, flushing after each chunk
// so the client receives bytes as they arrive from upstream.
func relay(dst flushWriter, src io.Reader) (int64, error) {
	buf := make([]byte, relayBufferSize)

	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			w, writeErr := dst.Write(buf[:n])
			written += int64(w)
			if writeErr != nil {
				return written, writeErr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
			dst.Flush()
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
