package enum

// ProjectStatus represents the state of a project.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusPaused   ProjectStatus = "paused"
	ProjectStatusFinished ProjectStatus = "finished"
)

// Valid reports whether the value is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusPaused, ProjectStatusFinished:
		return true
	}
	return false
}
