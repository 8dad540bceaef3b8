package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter fans log lines out to its sinks from a single goroutine so
// handler goroutines never block on disk or stderr.
type asyncWriter struct {
	lines   chan []byte
	flushCh chan chan error
	done    chan struct{}
	once    sync.Once
	sinks   []*bufio.Writer
	mu      sync.Mutex
	failed  error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	sinks := make([]*bufio.Writer, 0, len(writers))
	for _, w := range writers {
		if w == nil {
			continue
		}
		sinks = append(sinks, bufio.NewWriterSize(w, bufSize))
	}
	aw := &asyncWriter{
		lines:   make(chan []byte, 256),
		flushCh: make(chan chan error),
		done:    make(chan struct{}),
		sinks:   sinks,
	}
	go aw.run()
	return aw
}

func (w *asyncWriter) run() {
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				w.flushSinks()
				close(w.done)
				return
			}
			if len(line) == 0 {
				continue
			}
			if err := w.writeSinks(line); err != nil {
				w.recordErr(err)
			}
		case ack := <-w.flushCh:
			ack <- w.flushSinks()
		}
	}
}

// Write copies p and queues it. When the queue is full the call blocks
// instead of dropping the line.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.err(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case w.lines <- line:
	default:
		w.lines <- line
	}
	return nil
}

// Flush blocks until everything queued so far has reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.err(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushCh <- ack
	return <-ack
}

// Close drains the queue, flushes, and returns the first write error seen.
func (w *asyncWriter) Close() error {
	w.once.Do(func() {
		close(w.lines)
	})
	<-w.done
	return w.err()
}

func (w *asyncWriter) writeSinks(p []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sink := range w.sinks {
		if sink == nil {
			continue
		}
		if _, err := sink.Write(p); err != nil {
			return err
		}
		if err := sink.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, sink := range w.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failed
}

func (w *asyncWriter) recordErr(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failed == nil {
		w.failed = err
	}
}
