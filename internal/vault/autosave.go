package vault

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Writer persists a document.
type Writer interface {
	Write(document Document) error
}

// SnapshotFunc captures the current journal.
type SnapshotFunc func() (Document, error)

// Autosaver coalesces bursts of changes into one write after a quiet period.
type Autosaver struct {
	delay    time.Duration
	writer   Writer
	snapshot SnapshotFunc
	log      *zap.Logger

	writeMu sync.Mutex
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	onSaved func(error)
}

func NewAutosaver(writer Writer, snapshot SnapshotFunc, delay time.Duration, log *zap.Logger) *Autosaver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Autosaver{
		delay:    delay,
		writer:   writer,
		snapshot: snapshot,
		log:      log,
	}
}

// OnSaved registers a callback invoked after every write attempt.
func (saver *Autosaver) OnSaved(callback func(error)) {
	saver.mu.Lock()
	defer saver.mu.Unlock()
	saver.onSaved = callback
}

// Schedule (re)starts the debounce timer.
func (saver *Autosaver) Schedule() {
	if saver == nil {
		return
	}

	saver.mu.Lock()
	defer saver.mu.Unlock()
	if saver.stopped {
		return
	}
	if saver.timer != nil {
		saver.timer.Stop()
	}
	saver.timer = time.AfterFunc(saver.delay, func() {
		_ = saver.Flush()
	})
}

// Flush writes the current snapshot immediately and cancels a pending write.
func (saver *Autosaver) Flush() error {
	saver.mu.Lock()
	if saver.timer != nil {
		saver.timer.Stop()
		saver.timer = nil
	}
	callback := saver.onSaved
	saver.mu.Unlock()

	err := saver.save()
	if err != nil {
		saver.log.Warn("vault autosave failed", zap.Error(err))
	} else {
		saver.log.Debug("vault autosaved")
	}
	if callback != nil {
		callback(err)
	}
	return err
}

// Stop flushes a pending write and disables further scheduling.
func (saver *Autosaver) Stop() error {
	saver.mu.Lock()
	pending := saver.timer != nil
	saver.stopped = true
	saver.mu.Unlock()

	if !pending {
		return nil
	}
	return saver.Flush()
}

func (saver *Autosaver) save() error {
	saver.writeMu.Lock()
	defer saver.writeMu.Unlock()

	document, err := saver.snapshot()
	if err != nil {
		return err
	}
	return saver.writer.Write(document)
}
