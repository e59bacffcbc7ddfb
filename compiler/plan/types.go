package plan

type PlanStatus string

const (
	StatusOK   PlanStatus = "ok"
	StatusWarn PlanStatus = "warn"
	StatusFail PlanStatus = "fail"
)

const SchemaVersion = "1"

// Plan is the complete, renderer-independent output of one generation run.
type Plan struct {
	SchemaVersion string       `json:"schemaVersion"`
	Generator     string       `json:"generator"`
	InputHash     string       `json:"inputHash,omitempty"`
	Status        PlanStatus   `json:"status"`
	// RejectedBy names the stage that failed the plan.
	RejectedBy    string       `json:"rejectedBy,omitempty"`
	Diagnostics   []Diagnostic `json:"diagnostics"`
	Modules       []Module     `json:"modules"`
}

type Module struct {
	Path     []string  `json:"path"`
	Package  string    `json:"package"`
	Dir      string    `json:"dir"`
	Services []Service `json:"services"`
}

type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Service is the generated actor for one service declaration.
type Service struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Server      string       `json:"server"`
	Client      string       `json:"client"`
	Constructor string       `json:"constructor"`
	File        string       `json:"file"`
	State       []Field      `json:"state"`
	Operations  []Operation  `json:"operations"`
	Message     MessageUnion `json:"message"`
	Dispatch    DispatchLoop `json:"dispatch"`
}

// Operation is the artifact set generated for one exported operation.
type Operation struct {
	ID       string           `json:"id"`
	Service  string           `json:"service"`
	Name     string           `json:"name"`
	Module   []string         `json:"module"`
	Ref      string           `json:"ref"`
	Request  RequestType      `json:"request"`
	Response ResponseType     `json:"response"`
	Variant  EnumVariant      `json:"variant"`
	Grouping Grouping         `json:"grouping"`
	Server   ServerMethodPair `json:"server"`
	Client   ClientMethod     `json:"client"`
}

// RequestType has one field per operation parameter, in declaration order.
type RequestType struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// ResponseType aliases the operation's return type. Unit responses are an
// empty struct.
type ResponseType struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Unit bool   `json:"unit,omitempty"`
}

type Grouping struct {
	Name     string `json:"name"`
	Request  string `json:"request"`
	Response string `json:"response"`
}

type EnumVariant struct {
	Tag      string `json:"tag"`
	Type     string `json:"type"`
	Grouping string `json:"grouping"`
}

type Receiver struct {
	Name    string `json:"name"`
	Mutable bool   `json:"mutable"`
}

type ServerMethodPair struct {
	Wrapper  WrapperMethod  `json:"wrapper"`
	Internal InternalMethod `json:"internal"`
}

// WrapperMethod takes the request and returns the response. Args lists the
// request fields forwarded to the internal handler, in order.
type WrapperMethod struct {
	Name       string   `json:"name"`
	RequestVar string   `json:"requestVar"`
	Request    string   `json:"request"`
	Response   string   `json:"response"`
	Args       []string `json:"args"`
	Unit       bool     `json:"unit,omitempty"`
}

// InternalMethod carries the original parameters and body.
type InternalMethod struct {
	Name     string   `json:"name"`
	Receiver Receiver `json:"receiver"`
	Params   []Field  `json:"params"`
	Returns  string   `json:"returns,omitempty"`
	Body     string   `json:"body"`
}

type ClientMethod struct {
	Name         string  `json:"name"`
	Receiver     string  `json:"receiver"`
	ContextParam string  `json:"contextParam"`
	ReplyParam   string  `json:"replyParam"`
	Params       []Field `json:"params"`
	Request      string  `json:"request"`
	Response     string  `json:"response"`
	Variant      string  `json:"variant"`
}

// MessageUnion is the closed set of messages one service accepts.
type MessageUnion struct {
	Name     string        `json:"name"`
	Marker   string        `json:"marker"`
	Variants []EnumVariant `json:"variants"`
}

type DispatchCase struct {
	Variant  string `json:"variant"`
	Tag      string `json:"tag"`
	Wrapper  string `json:"wrapper"`
	Response string `json:"response"`
}

type DispatchLoop struct {
	Method  string         `json:"method"`
	Server  string         `json:"server"`
	Message string         `json:"message"`
	MsgVar  string         `json:"msgVar"`
	Cases   []DispatchCase `json:"cases"`
}

type FileChange struct {
	Op      string `json:"op"`
	Path    string `json:"path"`
	Service string `json:"service,omitempty"`
	Hash    string `json:"hash,omitempty"`
}
