package logio

import (
	"bytes"
	"sync"
)

// Writer adapts a printf-style logging function into an io.Writer: every
// complete line written is logged through Logf, with an optional Prefix.
type Writer struct {
	Prefix string
	Logf   func(string, ...interface{})

	mu  sync.Mutex
	buf bytes.Buffer
}

func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	for {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		lw.Logf("%s%s", lw.Prefix, lw.buf.Next(i))
		lw.buf.Next(1)
	}
	return len(p), nil
}

// Close logs any partial final line.
func (lw *Writer) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if n := lw.buf.Len(); n > 0 {
		lw.Logf("%s%s", lw.Prefix, lw.buf.Next(n))
	}
	return nil
}
