package console

// Modal is a visibility-gated holder for a draft or a confirmation target.
// Every open starts from a fresh value and every close resets it, so a
// reopened modal never shows earlier input. Not safe for concurrent use; the
// owning controller serializes access.
type Modal[T any] struct {
	open    bool
	draft   T
	reset   func() T
	session uint64
}

func NewModal[T any](reset func() T) *Modal[T] {
	return &Modal[T]{draft: reset(), reset: reset}
}

// Open shows the modal holding a fresh default draft.
func (m *Modal[T]) Open() {
	m.session++
	m.open = true
	m.draft = m.reset()
}

// OpenWith shows the modal holding v, e.g. the entity a confirmation is about.
func (m *Modal[T]) OpenWith(v T) {
	m.session++
	m.open = true
	m.draft = v
}

func (m *Modal[T]) Close() {
	m.open = false
	m.draft = m.reset()
}

// CloseIf closes the modal only if it is still the opening identified by
// session. It reports whether it closed anything.
func (m *Modal[T]) CloseIf(session uint64) bool {
	if !m.open || m.session != session {
		return false
	}
	m.Close()
	return true
}

func (m *Modal[T]) IsOpen() bool { return m.open }

// Session identifies the current opening. Every Open and OpenWith starts a new one.
func (m *Modal[T]) Session() uint64 { return m.session }

func (m *Modal[T]) Draft() T { return m.draft }

// Update edits the held draft. It fails when the modal is closed.
func (m *Modal[T]) Update(fn func(*T)) error {
	if !m.open {
		return ErrModalClosed
	}
	fn(&m.draft)
	return nil
}
