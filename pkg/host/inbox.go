package host

import "sync"

// Inbox is an in-memory SubmitHandler target.
type Inbox struct {
	mu    sync.RWMutex
	items []Submission
}

// Handle appends a submission. Pass inbox.Handle to WithSubmitHandler.
func (i *Inbox) Handle(submission Submission) {
	i.mu.Lock()
	i.items = append(i.items, submission)
	i.mu.Unlock()
}

// List returns the submissions received so far, oldest first.
func (i *Inbox) List() []Submission {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]Submission, len(i.items))
	copy(out, i.items)
	return out
}
