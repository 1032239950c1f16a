package engine

import "fmt"

// TaskID is an opaque, comparable identity minted by an Engine's arena. It
// is a small integer rather than a pointer so that parent/child/awaiting
// bookkeeping tables can use it as a map key without holding a reference to
// the task's goroutine machinery.
type TaskID int64

// noTask is the zero value. An arena started from zero never mints it (mint
// increments before returning), so it never names a real task.
const noTask TaskID = 0

func (id TaskID) String() string { return fmt.Sprintf("task#%d", int64(id)) }
