package protocol

import "encoding/json"

// ErrorKind classifies a failed tool invocation. Empty evaluator results
// (no matching programmes, no covering facilities) are legitimate results,
// not errors, and never carry a kind.
type ErrorKind string

const (
	KindInvalidArguments   ErrorKind = "InvalidArguments"
	KindPersistenceFailure ErrorKind = "PersistenceFailure"
	KindInternalFailure    ErrorKind = "InternalFailure"
)

type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Envelope answers one tool invocation. Exactly one of Result and Error
// is set.
type Envelope struct {
	Tool   string      `json:"tool"`
	Result interface{} `json:"result,omitempty"`
	Error  *ErrorInfo  `json:"error,omitempty"`
}

type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type Tool struct {
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Annotations map[string]bool `json:"annotations,omitempty"`
}

type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Capabilities    Capabilities `json:"capabilities"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Capabilities struct {
	Tools map[string]interface{} `json:"tools"`
}
