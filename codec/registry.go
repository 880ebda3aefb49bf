package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultTypeURLPrefix is prepended to message names by Pack.
const DefaultTypeURLPrefix = "type.googleapis.com/"

var (
	ErrUnknownType    = errors.New("unknown message type")
	ErrDuplicateType  = errors.New("message type already registered")
	ErrUnknownService = errors.New("unknown service")
)

// MethodDesc describes one rpc of a service.
type MethodDesc struct {
	Name            string
	Input           string
	Output          string
	ClientStreaming bool
	ServerStreaming bool
}

// ServiceDesc describes a service declared in a schema. Input and output
// types are full message names that can be looked up in a Registry.
type ServiceDesc struct {
	Name    string
	Methods []MethodDesc
}

// Method returns the method called name.
func (s *ServiceDesc) Method(name string) (MethodDesc, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodDesc{}, false
}

// Registry maps full message names to constructors. It is populated by the
// RegisterTypes function emitted into every generated package and is safe for
// concurrent lookups once populated.
type Registry struct {
	mu       sync.RWMutex
	messages map[string]func() Named
	services map[string]*ServiceDesc
}

func NewRegistry() *Registry {
	return &Registry{
		messages: make(map[string]func() Named),
		services: make(map[string]*ServiceDesc),
	}
}

// Register adds a constructor for the message it produces.
func (r *Registry) Register(newMessage func() Named) error {
	name := newMessage().MessageName()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	r.messages[name] = newMessage
	return nil
}

// New returns an empty message of the named type.
func (r *Registry) New(name string) (Named, error) {
	r.mu.RLock()
	newMessage, ok := r.messages[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return newMessage(), nil
}

// Names returns the registered message names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.messages))
	for name := range r.messages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pack returns the type URL and encoding of m, the two halves of a
// google.protobuf.Any.
func (r *Registry) Pack(m Named) (string, []byte) {
	return DefaultTypeURLPrefix + m.MessageName(), Marshal(m)
}

// Unpack decodes value into a new message of the type named by the final
// path segment of typeURL.
func (r *Registry) Unpack(typeURL string, value []byte) (Named, error) {
	name := typeURL
	if i := strings.LastIndexByte(typeURL, '/'); i >= 0 {
		name = typeURL[i+1:]
	}
	m, err := r.New(name)
	if err != nil {
		return nil, err
	}
	if err := Unmarshal(value, m); err != nil {
		return nil, fmt.Errorf("unpack %s: %w", name, err)
	}
	return m, nil
}

func (r *Registry) RegisterService(desc *ServiceDesc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[desc.Name]; ok {
		return fmt.Errorf("%w: service %s", ErrDuplicateType, desc.Name)
	}
	r.services[desc.Name] = desc
	return nil
}

func (r *Registry) Service(name string) (*ServiceDesc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, name)
	}
	return desc, nil
}
