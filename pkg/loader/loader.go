package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"

	"github.com/forgo/factory/pkg/factory"
)

// ErrInvalidDefinition is returned for malformed definition files.
var ErrInvalidDefinition = errors.New("invalid definition")

// Definer is implemented by factory.Factory and factory.Registry.
type Definer interface {
	Define(name string, cfg factory.Config) error
}

// Definition is one named definition read from a file.
type Definition struct {
	Name   string
	Config factory.Config
}

// File is a parsed definition file.
type File struct {
	Definitions []Definition
}

type fileDoc struct {
	Definitions map[string]definitionDoc `yaml:"definitions"`
}

type definitionDoc struct {
	Model     string                    `yaml:"model"`
	Sequences map[string]string         `yaml:"sequences"`
	Default   map[string]any            `yaml:"default"`
	Variants  map[string]map[string]any `yaml:"variants"`
	Traits    map[string]map[string]any `yaml:"traits"`
}

// LoadFile reads the definition file at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer fh.Close()

	file, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Load parses definitions from r. Unknown fields are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	names := make([]string, 0, len(doc.Definitions))
	for name := range doc.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	file := &File{Definitions: make([]Definition, 0, len(names))}
	for _, name := range names {
		cfg, err := doc.Definitions[name].config(name)
		if err != nil {
			return nil, err
		}
		file.Definitions = append(file.Definitions, Definition{Name: name, Config: cfg})
	}
	return file, nil
}

// Register defines every definition of the file on d, in name order.
func (f *File) Register(d Definer) error {
	for _, def := range f.Definitions {
		if err := d.Define(def.Name, def.Config); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the definition names in file order.
func (f *File) Names() []string {
	out := make([]string, len(f.Definitions))
	for i, def := range f.Definitions {
		out[i] = def.Name
	}
	return out
}

func (d definitionDoc) config(name string) (factory.Config, error) {
	cfg := factory.Config{Model: d.Model}

	if len(d.Sequences) > 0 {
		cfg.Sequences = make(map[string]factory.GenFunc, len(d.Sequences))
		for seq, format := range d.Sequences {
			fn, err := formatSequence(format)
			if err != nil {
				return cfg, invalid(name+".sequences."+seq, err)
			}
			cfg.Sequences[seq] = fn
		}
	}

	var err error
	if cfg.Default, err = attrs(name+".default", d.Default); err != nil {
		return cfg, err
	}
	if cfg.Variants, err = attrSets(name+".variants", d.Variants); err != nil {
		return cfg, err
	}
	if cfg.Traits, err = attrSets(name+".traits", d.Traits); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func attrSets(path string, in map[string]map[string]any) (map[string]factory.Attrs, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]factory.Attrs, len(in))
	for name, set := range in {
		a, err := attrs(path+"."+name, set)
		if err != nil {
			return nil, err
		}
		if a == nil {
			a = factory.Attrs{}
		}
		out[name] = a
	}
	return out, nil
}

func attrs(path string, in map[string]any) (factory.Attrs, error) {
	if in == nil {
		return nil, nil
	}
	out := make(factory.Attrs, len(in))
	for key, raw := range in {
		v, err := value(path+"."+key, raw, true)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// value converts a decoded YAML value. Marker mappings are only allowed
// as attribute values (top), since the resolver does not look inside
// literals.
func value(path string, raw any, top bool) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		if isMarker(v) {
			if !top {
				return nil, invalid(path, errors.New("markers are only allowed as attribute values"))
			}
			return marker(path, v)
		}
		out := make(map[string]any, len(v))
		for key, item := range v {
			conv, err := value(path+"."+key, item, false)
			if err != nil {
				return nil, err
			}
			out[key] = conv
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			conv, err := value(fmt.Sprintf("%s[%d]", path, i), item, false)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	default:
		return v, nil
	}
}

func isMarker(m map[string]any) bool {
	for key := range m {
		if strings.HasPrefix(key, "$") {
			return true
		}
	}
	return false
}

func marker(path string, m map[string]any) (any, error) {
	var kind string
	for key := range m {
		if !strings.HasPrefix(key, "$") {
			continue
		}
		if kind != "" {
			return nil, invalid(path, fmt.Errorf("more than one marker (%s, %s)", kind, key))
		}
		kind = key
	}

	switch kind {
	case "$seq":
		if err := onlyKeys(m, kind); err != nil {
			return nil, invalid(path, err)
		}
		name, err := str(m, kind)
		if err != nil {
			return nil, invalid(path, err)
		}
		return factory.Generate(name), nil

	case "$inline":
		if err := onlyKeys(m, kind); err != nil {
			return nil, invalid(path, err)
		}
		format, err := str(m, kind)
		if err != nil {
			return nil, invalid(path, err)
		}
		fn, err := formatSequence(format)
		if err != nil {
			return nil, invalid(path, err)
		}
		return factory.GenerateFunc(fn), nil

	case "$fake":
		if err := onlyKeys(m, kind); err != nil {
			return nil, invalid(path, err)
		}
		tmpl, err := str(m, kind)
		if err != nil {
			return nil, invalid(path, err)
		}
		return factory.Fake(func(f *gofakeit.Faker) any { return f.Generate(tmpl) }), nil

	case "$one":
		if err := onlyKeys(m, kind, "traits", "with"); err != nil {
			return nil, invalid(path, err)
		}
		target, args, err := assocArgs(path, m, kind)
		if err != nil {
			return nil, err
		}
		return factory.ToOne(target, args...), nil

	case "$many":
		if err := onlyKeys(m, kind, "count", "traits", "with"); err != nil {
			return nil, invalid(path, err)
		}
		target, args, err := assocArgs(path, m, kind)
		if err != nil {
			return nil, err
		}
		count, ok := m["count"].(int)
		if !ok || count < 0 {
			return nil, invalid(path, errors.New("$many needs a non-negative integer count"))
		}
		return factory.ToMany(target, count, args...), nil
	}
	return nil, invalid(path, fmt.Errorf("unknown marker %s", kind))
}

func assocArgs(path string, m map[string]any, kind string) (string, []any, error) {
	target, err := str(m, kind)
	if err != nil {
		return "", nil, invalid(path, err)
	}

	var args []any
	switch traits := m["traits"].(type) {
	case nil:
	case []any:
		for i, t := range traits {
			s, ok := t.(string)
			if !ok {
				return "", nil, invalid(fmt.Sprintf("%s.traits[%d]", path, i), fmt.Errorf("trait must be a string, got %T", t))
			}
			args = append(args, s)
		}
	case string:
		args = append(args, traits)
	default:
		return "", nil, invalid(path+".traits", fmt.Errorf("expected a list, got %T", traits))
	}

	if with, ok := m["with"]; ok {
		set, ok := with.(map[string]any)
		if !ok {
			return "", nil, invalid(path+".with", fmt.Errorf("expected a mapping, got %T", with))
		}
		overrides, err := attrs(path+".with", set)
		if err != nil {
			return "", nil, err
		}
		args = append(args, overrides)
	}
	return target, args, nil
}

func onlyKeys(m map[string]any, allowed ...string) error {
	for key := range m {
		ok := false
		for _, a := range allowed {
			if key == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("unexpected key %q", key)
		}
	}
	return nil
}

func str(m map[string]any, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s needs a non-empty string", key)
	}
	return s, nil
}

func formatSequence(format string) (factory.GenFunc, error) {
	if !strings.Contains(format, "%") {
		return nil, fmt.Errorf("sequence format %q has no verb", format)
	}
	return func(n int) any { return fmt.Sprintf(format, n) }, nil
}

func invalid(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, path, err)
}
