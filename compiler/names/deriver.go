package names

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Policy is the naming convention for generated symbols. The reserved prefix
// keeps request/response/handler names out of the way of user identifiers.
type Policy struct {
	ReservedPrefix    string `json:"reservedPrefix" validate:"required"`
	RequestSuffix     string `json:"requestSuffix" validate:"required"`
	ResponseSuffix    string `json:"responseSuffix" validate:"required,nefield=RequestSuffix"`
	InternalPrefix    string `json:"internalPrefix" validate:"required"`
	GroupingSeparator string `json:"groupingSeparator" validate:"required"`
	ServerSuffix      string `json:"serverSuffix" validate:"required"`
	ClientSuffix      string `json:"clientSuffix" validate:"required,nefield=ServerSuffix"`
	MessageSuffix     string `json:"messageSuffix" validate:"required,nefield=ServerSuffix,nefield=ClientSuffix"`
	ConstructorPrefix string `json:"constructorPrefix" validate:"required"`
	ListenMethod      string `json:"listenMethod" validate:"required"`
	FileSuffix        string `json:"fileSuffix" validate:"required"`
}

// DefaultPolicy is the convention generated code uses unless configured
// otherwise.
func DefaultPolicy() Policy {
	return Policy{
		ReservedPrefix:    "__",
		RequestSuffix:     "_request",
		ResponseSuffix:    "_response",
		InternalPrefix:    "__internal_",
		GroupingSeparator: "_",
		ServerSuffix:      "Server",
		ClientSuffix:      "Client",
		MessageSuffix:     "Message",
		ConstructorPrefix: "New",
		ListenMethod:      "Listen",
		FileSuffix:        "_servify.go",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (p Policy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("naming policy: %w", err)
	}
	return nil
}

// Names are the per-operation identifiers.
type Names struct {
	Service   string `json:"service"`
	Operation string `json:"operation"`
	Request   string `json:"request"`
	Response  string `json:"response"`
	Internal  string `json:"internal"`
	Variant   string `json:"variant"`
	Method    string `json:"method"`
	Grouping  string `json:"grouping"`
}

// ServiceNames are the per-service identifiers.
type ServiceNames struct {
	Service     string `json:"service"`
	Server      string `json:"server"`
	Client      string `json:"client"`
	Message     string `json:"message"`
	Marker      string `json:"marker"`
	Constructor string `json:"constructor"`
	Listen      string `json:"listen"`
	File        string `json:"file"`
}

type Deriver struct {
	policy Policy
}

func NewDeriver(p Policy) (*Deriver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Deriver{policy: p}, nil
}

func (d *Deriver) Policy() Policy { return d.policy }

// Derive computes the identifiers of one operation. It is a pure function of
// its arguments and the policy.
func (d *Deriver) Derive(service, operation string) Names {
	snake := ToSnakeCase(operation)
	variant := ExportName(operation)
	return Names{
		Service:   service,
		Operation: operation,
		Request:   d.policy.ReservedPrefix + snake + d.policy.RequestSuffix,
		Response:  d.policy.ReservedPrefix + snake + d.policy.ResponseSuffix,
		Internal:  d.policy.InternalPrefix + operation,
		Variant:   variant,
		Method:    variant,
		Grouping:  ToSnakeCase(service) + d.policy.GroupingSeparator + snake,
	}
}

func (d *Deriver) Service(service string) ServiceNames {
	base := ExportName(service)
	return ServiceNames{
		Service:     service,
		Server:      base + d.policy.ServerSuffix,
		Client:      base + d.policy.ClientSuffix,
		Message:     base + d.policy.MessageSuffix,
		Marker:      "is" + base + d.policy.MessageSuffix,
		Constructor: d.policy.ConstructorPrefix + base,
		Listen:      d.policy.ListenMethod,
		File:        ToSnakeCase(service) + d.policy.FileSuffix,
	}
}

// VariantType is the Go type carrying one message variant of a service.
func (d *Deriver) VariantType(service, variant string) string {
	return ExportName(service) + variant
}

// Collision reports two operations that derive the same identifier.
type Collision struct {
	Identifier string
	First      string
	Second     string
}

func (c Collision) String() string {
	return fmt.Sprintf("%s is derived by both %s and %s", c.Identifier, c.First, c.Second)
}

// ClientMethods are the methods every generated Client carries besides its
// operation proxies.
var ClientMethods = []string{"Clone", "Close"}

// Collisions reports identifiers shared between distinct declarations of one
// Go package. state maps a service to its state field names; fields and
// methods share the Server's selector namespace. Method names only collide
// within the same service.
func (d *Deriver) Collisions(services []ServiceNames, state map[string][]string, ops []Names) []Collision {
	owner := make(map[string]string)
	var out []Collision
	claim := func(id, by string) {
		if prev, ok := owner[id]; ok && prev != by {
			out = append(out, Collision{Identifier: id, First: prev, Second: by})
			return
		}
		owner[id] = by
	}
	for _, s := range services {
		by := s.Service
		for _, typ := range []string{s.Server, s.Client, s.Message, s.Constructor} {
			claim("type "+typ, by)
		}
		claim(s.Service+" server member "+s.Listen, by)
		for _, m := range ClientMethods {
			claim(s.Service+" client method "+m, by)
		}
		for _, f := range state[s.Service] {
			claim(s.Service+" server member "+f, s.Service+" state field "+f)
		}
	}
	for _, n := range ops {
		by := n.Service + "." + n.Operation
		claim("type "+n.Request, by)
		claim("type "+n.Response, by)
		claim("type "+n.Grouping, by)
		claim("type "+d.VariantType(n.Service, n.Variant), by)
		claim(n.Service+" server member "+n.Method, by)
		claim(n.Service+" server member "+n.Internal, by)
		claim(n.Service+" client method "+n.Method, by)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}
