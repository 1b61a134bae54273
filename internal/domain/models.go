package domain

import "time"

type FormatRule struct {
	Suffixes  []string
	Command   []string
	Container bool
}

type Command struct {
	Name      string
	Args      []string
	Container bool
}

func (c Command) String() string {
	return joinArgs(append([]string{c.Name}, c.Args...))
}

type Extraction struct {
	ID         int64
	Archive    string
	Target     string
	Tool       string
	Status     string
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
}

type Promotion struct {
	Target    string
	Holding   string
	StartedAt time.Time
}

const (
	StatusPending     = "pending"
	StatusDone        = "done"
	StatusFailed      = "failed"
	StatusInterrupted = "interrupted"
)
