package metadata

import "time"

// FileName is the sidecar file name inside every client date folder.
const FileName = "metadata.json"

// Subfolders are the three fixed folders created per client.
var Subfolders = []string{SubfolderOriginals, SubfolderProcessed, SubfolderPhotos}

const (
	SubfolderOriginals = "originales"
	SubfolderProcessed = "procesados"
	SubfolderPhotos    = "fotos"
)

// Task priorities.
const (
	PriorityHigh   = "Alta"
	PriorityMedium = "Media"
	PriorityLow    = "Baja"
)

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// StatusFlags is the fixed four-flag workflow state of a repair job.
type StatusFlags struct {
	Recepcion  bool `json:"recepcion"`
	Desarme    bool `json:"desarme"`
	Reparacion bool `json:"reparacion"`
	Listo      bool `json:"listo"`
}

// StatusPatch carries a partial status update; nil fields keep their prior
// value.
type StatusPatch struct {
	Recepcion  *bool `json:"recepcion,omitempty"`
	Desarme    *bool `json:"desarme,omitempty"`
	Reparacion *bool `json:"reparacion,omitempty"`
	Listo      *bool `json:"listo,omitempty"`
}

// Apply merges the non-nil patch fields over flags.
func (p StatusPatch) Apply(flags StatusFlags) StatusFlags {
	if p.Recepcion != nil {
		flags.Recepcion = *p.Recepcion
	}
	if p.Desarme != nil {
		flags.Desarme = *p.Desarme
	}
	if p.Reparacion != nil {
		flags.Reparacion = *p.Reparacion
	}
	if p.Listo != nil {
		flags.Listo = *p.Listo
	}
	return flags
}

// Empty reports whether the patch changes nothing.
func (p StatusPatch) Empty() bool {
	return p.Recepcion == nil && p.Desarme == nil && p.Reparacion == nil && p.Listo == nil
}

// Task is one entry of a client's embedded task list.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// FileRecord describes one file registered with a client.
type FileRecord struct {
	Name         string    `json:"name,omitempty"`
	Path         string    `json:"path,omitempty"`
	Type         string    `json:"type,omitempty"`
	Size         int64     `json:"size,omitempty"`
	Profile      string    `json:"profile,omitempty"`
	SavedPercent int       `json:"savedPercent,omitempty"`
	AddedAt      time.Time `json:"addedAt,omitzero"`
}

// Record is the full persisted client record.
type Record struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt,omitzero"`
	Status     StatusFlags  `json:"status"`
	Files      []FileRecord `json:"files"`
	Tasks      []Task       `json:"tasks"`
	CopiedFrom string       `json:"copiedFrom,omitempty"`
}
