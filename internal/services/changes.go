package services

import "sync"

// ChangeListener runs after the journal or settings changed.
type ChangeListener func()

type changeNotifier struct {
	mu        sync.RWMutex
	listeners []ChangeListener
}

func (notifier *changeNotifier) OnChange(listener ChangeListener) {
	if listener == nil {
		return
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.listeners = append(notifier.listeners, listener)
}

func (notifier *changeNotifier) notifyChanged() {
	notifier.mu.RLock()
	listeners := append([]ChangeListener(nil), notifier.listeners...)
	notifier.mu.RUnlock()

	for _, listener := range listeners {
		listener()
	}
}
