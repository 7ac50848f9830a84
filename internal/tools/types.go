package tools

// Metadata is the contract for tool identity and display data.
type Metadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ArgSpec documents one named argument of an operation.
type ArgSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     string `json:"default,omitempty"`
}

// OperationSpec defines one supported tool action.
type OperationSpec struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Args        []ArgSpec `json:"args,omitempty"`
}

// Result is the deterministic execution result shape.
type Result struct {
	Status   string
	Stdout   []byte
	Stderr   []byte
	ExitCode int32
}

// Tool is a single self-contained transformation.
type Tool interface {
	Metadata() Metadata
	Operations() []OperationSpec
	Execute(action string, args map[string]string) (Result, error)
}
