package compose

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/dbdock/internal/model"
)

// Descriptor is the subset of a Compose file that dbdock reads.
type Descriptor struct {
	// Path is the file the descriptor was loaded from.
	Path string `yaml:"-"`

	// Name is the optional top-level project name.
	Name string `yaml:"name,omitempty"`

	// Services maps service names to their definitions.
	Services map[string]Service `yaml:"services"`
}

// Service is the subset of a Compose service definition that dbdock reads.
type Service struct {
	// Image is the container image, e.g. "mysql:8.0".
	Image string `yaml:"image,omitempty"`

	// ContainerName is the fixed container name, if the descriptor sets one.
	ContainerName string `yaml:"container_name,omitempty"`

	// Ports holds the raw port entries. Each entry is either a short-syntax
	// string ("3306:3306") or a long-syntax mapping.
	Ports []PortEntry `yaml:"ports,omitempty"`
}

// PortEntry is one element of a service's ports list in either Compose
// syntax. Short-syntax entries are kept verbatim until variables are
// expanded, because a ${VAR:-default} reference may itself contain a colon.
type PortEntry struct {
	// Short is the raw short-syntax string, e.g. "127.0.0.1:3306:3306/tcp".
	// Empty for long-syntax entries.
	Short string

	// Published is the host-side port of a long-syntax entry, possibly
	// containing ${VAR} references or a range.
	Published string

	// Target is the container-side port of a long-syntax entry.
	Target string

	// Protocol is "tcp" or "udp" for long-syntax entries.
	Protocol string
}

// resolve expands variables and normalizes the entry to its published,
// target and protocol parts.
func (p PortEntry) resolve(vars map[string]string) (PortEntry, error) {
	if p.Short != "" {
		short, err := Expand(p.Short, vars)
		if err != nil {
			return PortEntry{}, err
		}
		return parseShortPort(short), nil
	}
	published, err := Expand(p.Published, vars)
	if err != nil {
		return PortEntry{}, err
	}
	target, err := Expand(p.Target, vars)
	if err != nil {
		return PortEntry{}, err
	}
	return PortEntry{Published: published, Target: target, Protocol: p.Protocol}, nil
}

// longPort mirrors the Compose long port syntax.
type longPort struct {
	Target    interface{} `yaml:"target"`
	Published interface{} `yaml:"published"`
	Protocol  string      `yaml:"protocol"`
	HostIP    string      `yaml:"host_ip"`
}

// UnmarshalYAML accepts both the short string form and the long mapping
// form of a Compose port entry.
func (p *PortEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = PortEntry{Short: node.Value}
		return nil

	case yaml.MappingNode:
		var lp longPort
		if err := node.Decode(&lp); err != nil {
			return err
		}
		*p = PortEntry{
			Published: scalarString(lp.Published),
			Target:    scalarString(lp.Target),
			Protocol:  lp.Protocol,
		}
		if p.Protocol == "" {
			p.Protocol = "tcp"
		}
		return nil

	default:
		return fmt.Errorf("line %d: unsupported port entry", node.Line)
	}
}

// parseShortPort splits "[[ip:]published:]target[/protocol]".
func parseShortPort(s string) PortEntry {
	entry := PortEntry{Protocol: "tcp"}

	if i := strings.LastIndex(s, "/"); i >= 0 {
		entry.Protocol = s[i+1:]
		s = s[:i]
	}

	// The target is always the last colon-separated field. IPv6 host IPs
	// are bracketed, so splitting on the last colons is safe.
	parts := strings.Split(s, ":")
	entry.Target = parts[len(parts)-1]
	if len(parts) >= 2 {
		entry.Published = parts[len(parts)-2]
	}
	return entry
}

// scalarString renders a YAML scalar decoded into interface{} as a string.
func scalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

// LoadDescriptor reads and parses the Compose file at path.
//
// Returns a CLIError of kind KindMissingOrchestrationDescriptor if the file
// does not exist.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.WrapCLIError(model.KindMissingOrchestrationDescriptor,
				fmt.Sprintf("compose file not found: %s", path), err)
		}
		return nil, model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to read compose file %s", path), err)
	}

	d, err := ParseDescriptor(data)
	if err != nil {
		return nil, model.WrapCLIError(model.KindGeneral,
			fmt.Sprintf("failed to parse compose file %s", path), err)
	}
	d.Path = path
	return d, nil
}

// ParseDescriptor parses Compose YAML bytes.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if d.Services == nil {
		d.Services = map[string]Service{}
	}
	return &d, nil
}

// ServiceNames returns the declared service names in sorted order.
func (d *Descriptor) ServiceNames() []string {
	names := make([]string, 0, len(d.Services))
	for name := range d.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Service returns the named service definition, or a CLIError of kind
// KindMissingOrchestrationDescriptor listing the services that do exist.
func (d *Descriptor) Service(name string) (Service, error) {
	svc, ok := d.Services[name]
	if !ok {
		return Service{}, model.NewCLIError(model.KindMissingOrchestrationDescriptor,
			fmt.Sprintf("service %q is not declared in %s (declared: %s)",
				name, d.Path, strings.Join(d.ServiceNames(), ", ")))
	}
	return svc, nil
}

// HostPorts resolves the service's published ports, expanding ${VAR}
// references with vars. Entries without a published port, with a port range,
// that reference a required variable that is unset, or that still do not
// parse after expansion are skipped: Compose assigns or validates those
// itself.
func (s Service) HostPorts(vars map[string]string) []model.HostPort {
	var ports []model.HostPort
	for _, entry := range s.Ports {
		p, err := entry.resolve(vars)
		if err != nil || p.Published == "" || strings.Contains(p.Published, "-") {
			continue
		}
		host, err := strconv.Atoi(p.Published)
		if err != nil || host < 1 || host > 65535 {
			continue
		}
		target, _ := strconv.Atoi(p.Target)
		ports = append(ports, model.HostPort{
			Port:          host,
			ContainerPort: target,
			Protocol:      p.Protocol,
		})
	}
	return ports
}

// ProjectName resolves the Compose project name the same way Compose does,
// in order: an explicit override, COMPOSE_PROJECT_NAME from vars, the
// descriptor's top-level name, then the base name of the directory holding
// the descriptor. The result is normalized.
func (d *Descriptor) ProjectName(override string, vars map[string]string) (string, error) {
	// An unresolvable name falls through to the directory name, as an
	// empty one does.
	declared, _ := Expand(d.Name, vars)
	candidates := []string{override, vars["COMPOSE_PROJECT_NAME"], declared}
	for _, c := range candidates {
		if name := NormalizeProjectName(c); name != "" {
			return name, nil
		}
	}

	abs, err := filepath.Abs(d.Path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve compose file path %s: %w", d.Path, err)
	}
	name := NormalizeProjectName(filepath.Base(filepath.Dir(abs)))
	if name == "" {
		return "", fmt.Errorf("cannot derive a project name from %s; set projectName", abs)
	}
	return name, nil
}

// NormalizeProjectName lowercases s and drops every character Compose does
// not allow in project names. Leading characters that are not a letter or
// digit are trimmed.
func NormalizeProjectName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			if b.Len() > 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
