package domain

// ExecutionMode tags how a workflow run was started. The materializer
// receives it so policies can differentiate manual from automated runs.
type ExecutionMode string

const (
	ModeManual   ExecutionMode = "manual"
	ModeTrigger  ExecutionMode = "trigger"
	ModeWebhook  ExecutionMode = "webhook"
	ModeInternal ExecutionMode = "internal"
	ModeCLI      ExecutionMode = "cli"
	ModeError    ExecutionMode = "error"
	ModeRetry    ExecutionMode = "retry"
)

// WorkflowNode is the minimal node shape a workflow hands to the
// registries for preloading. Parameters and credentials ride along so
// hosts can keep one struct for both preloading and execution.
type WorkflowNode struct {
	Name        string                         `json:"name" yaml:"name" mapstructure:"name"`
	Type        string                         `json:"type" yaml:"type" mapstructure:"type"`
	TypeVersion float64                        `json:"type_version,omitempty" yaml:"type_version,omitempty" mapstructure:"typeVersion"`
	Parameters  map[string]any                 `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
	Credentials map[string]CredentialReference `json:"credentials,omitempty" yaml:"credentials,omitempty" mapstructure:"credentials"`
	Disabled    bool                           `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled"`
}
