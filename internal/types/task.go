package types

// Task is a zero-argument unit of work. The pool never looks inside a task:
// whatever a task computes and wherever it delivers its outcome is captured
// by the closure that implements it. The returned error only feeds pool
// statistics; the task's consumer learns the outcome through its own channel.
type Task interface {
	Run() error
}

// TaskFunc adapts an ordinary function to the Task interface.
type TaskFunc func() error

// Run calls f.
func (f TaskFunc) Run() error {
	return f()
}
