package output

// ConvertOutput is the JSON shape of a convert run.
type ConvertOutput struct {
	Files   []FileInfo     `json:"files"`
	Summary ConvertSummary `json:"summary"`
}

// FileInfo describes one converted file.
type FileInfo struct {
	Path     string         `json:"path"`
	Output   string         `json:"output,omitempty"`
	Comments int            `json:"comments"`
	Passes   map[string]int `json:"passes,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ConvertSummary counts the outcome of a convert run.
type ConvertSummary struct {
	Total     int `json:"total"`
	Converted int `json:"converted"`
	Failed    int `json:"failed"`
}

// PassInfo describes a registered transformation pass.
type PassInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Order       int    `json:"order"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Before      string `json:"before,omitempty"`
	After       string `json:"after,omitempty"`
}

// TaskGraphOutput is the JSON shape of a task graph.
type TaskGraphOutput struct {
	Levels     []TaskLevel `json:"levels"`
	TotalTasks int         `json:"total_tasks"`
	TotalEdges int         `json:"total_edges"`
}

// TaskLevel holds the tasks whose dependencies all sit at lower levels.
type TaskLevel struct {
	Level int        `json:"level"`
	Tasks []TaskNode `json:"tasks"`
}

// TaskNode is one task of a task graph.
type TaskNode struct {
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Declared  bool     `json:"declared"`
	DependsOn []string `json:"depends_on"`
	UsedBy    []string `json:"used_by"`
}
