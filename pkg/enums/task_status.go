package enums

// TaskStatus is the lifecycle state of a work order.
type TaskStatus string

const (
	TaskStatusDraft      TaskStatus = "draft"
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// legacyTaskStatusLabels maps the labels the mobile clients still send to the
// canonical values stored in the database.
var legacyTaskStatusLabels = map[string]TaskStatus{
	"черновик":  TaskStatusDraft,
	"новая":     TaskStatusNew,
	"в работе":  TaskStatusInProgress,
	"выполнено": TaskStatusCompleted,
}

// ParseTaskStatus resolves a wire value (canonical or legacy label) to a
// TaskStatus. The second return value reports whether the value was known.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	switch TaskStatus(value) {
	case TaskStatusDraft, TaskStatusNew, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(value), true
	}
	if status, ok := legacyTaskStatusLabels[value]; ok {
		return status, true
	}
	return "", false
}

// Valid reports whether the status is one of the canonical values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusDraft, TaskStatusNew, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// RequiresBusinessFields reports whether tasks in this status must carry the
// full set of business fields. Only drafts may be sparse.
func (s TaskStatus) RequiresBusinessFields() bool {
	return s != TaskStatusDraft
}
