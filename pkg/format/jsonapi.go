package format

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/forgo/factory/pkg/factory"
)

// ModelResolver reports the model of the fixtures nested under key by
// fixtures of model. *factory.Registry implements it.
type ModelResolver interface {
	AssociationModel(model, key string) (string, bool)
}

// JSONAPI is a factory.Converter producing JSON:API documents.
//
// The type of a nested fixture is, in order: the WithRelationshipType
// override for its key, the target model reported by the ModelResolver,
// the attribute key itself.
type JSONAPI struct {
	types  map[string]string
	keyFor func(string) string
	models ModelResolver
	pinned bool
}

var (
	_ factory.Converter      = (*JSONAPI)(nil)
	_ factory.RegistryBinder = (*JSONAPI)(nil)
	_ ModelResolver          = (*factory.Registry)(nil)
)

// JSONAPIOption configures a JSONAPI converter.
type JSONAPIOption func(*JSONAPI)

// WithRelationshipType sets the resource type of the fixtures nested under
// attribute key, overriding the ModelResolver.
func WithRelationshipType(key, typ string) JSONAPIOption {
	return func(j *JSONAPI) { j.types[key] = typ }
}

// WithModelResolver sets the resolver for association types. A converter
// given one explicitly ignores BindRegistry.
func WithModelResolver(mr ModelResolver) JSONAPIOption {
	return func(j *JSONAPI) {
		j.models = mr
		j.pinned = mr != nil
	}
}

// WithKeyTransform replaces Dasherize for attribute and relationship keys.
func WithKeyTransform(fn func(string) string) JSONAPIOption {
	return func(j *JSONAPI) { j.keyFor = fn }
}

// NewJSONAPI creates a converter.
func NewJSONAPI(opts ...JSONAPIOption) *JSONAPI {
	j := &JSONAPI{
		types:  make(map[string]string),
		keyFor: Dasherize,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// BindRegistry makes r the model resolver, unless one was set with
// WithModelResolver. factory.New calls it.
func (j *JSONAPI) BindRegistry(r *factory.Registry) {
	if !j.pinned {
		j.models = r
	}
}

// ConvertForBuild returns {"data": resource, "included": [...]}. "included"
// is omitted when the fixture has no associations.
func (j *JSONAPI) ConvertForBuild(model string, fixture factory.Fixture) (factory.Fixture, error) {
	inc := &included{seen: make(map[string]bool)}
	data := j.resource(model, fixture, inc)

	doc := factory.Fixture{"data": data}
	if len(inc.resources) > 0 {
		doc["included"] = inc.resources
	}
	return doc, nil
}

// ConvertListForBuild returns one document for the whole list:
// {"data": [resources], "included": [...]}, with every related resource
// included once.
func (j *JSONAPI) ConvertListForBuild(model string, list []factory.Fixture) (any, error) {
	inc := &included{seen: make(map[string]bool)}
	data := make([]map[string]any, 0, len(list))
	for _, fixture := range list {
		data = append(data, j.resource(model, fixture, inc))
	}

	doc := factory.Fixture{"data": data}
	if len(inc.resources) > 0 {
		doc["included"] = inc.resources
	}
	return doc, nil
}

// ConvertForMake splits nested associations into included payloads and
// replaces them with their ids.
func (j *JSONAPI) ConvertForMake(model string, fixture factory.Fixture) (factory.Payload, error) {
	p := factory.Payload{
		Model:      model,
		ID:         fixture.ID(),
		Attributes: make(factory.Fixture, len(fixture)),
	}
	for _, key := range sortedKeys(fixture) {
		switch v := fixture[key].(type) {
		case factory.Fixture:
			child, err := j.ConvertForMake(j.typeFor(model, key), v)
			if err != nil {
				return factory.Payload{}, err
			}
			p.Included = append(p.Included, child)
			p.Attributes[key] = v.ID()
		case []factory.Fixture:
			ids := make([]any, 0, len(v))
			for _, item := range v {
				child, err := j.ConvertForMake(j.typeFor(model, key), item)
				if err != nil {
					return factory.Payload{}, err
				}
				p.Included = append(p.Included, child)
				ids = append(ids, item.ID())
			}
			p.Attributes[key] = ids
		default:
			p.Attributes[key] = v
		}
	}
	return p, nil
}

type included struct {
	resources []map[string]any
	seen      map[string]bool
}

func (inc *included) add(resource map[string]any) {
	key := fmt.Sprintf("%v:%v", resource["type"], resource["id"])
	if inc.seen[key] {
		return
	}
	inc.seen[key] = true
	inc.resources = append(inc.resources, resource)
}

func (j *JSONAPI) resource(typ string, fixture factory.Fixture, inc *included) map[string]any {
	attributes := make(map[string]any)
	relationships := make(map[string]any)

	for _, key := range sortedKeys(fixture) {
		if key == factory.IDKey {
			continue
		}
		switch v := fixture[key].(type) {
		case factory.Fixture:
			relType := j.typeFor(typ, key)
			inc.add(j.resource(relType, v, inc))
			relationships[j.keyFor(key)] = map[string]any{"data": linkage(relType, v)}
		case []factory.Fixture:
			relType := j.typeFor(typ, key)
			data := make([]map[string]any, 0, len(v))
			for _, item := range v {
				inc.add(j.resource(relType, item, inc))
				data = append(data, linkage(relType, item))
			}
			relationships[j.keyFor(key)] = map[string]any{"data": data}
		default:
			attributes[j.keyFor(key)] = v
		}
	}

	res := map[string]any{
		"id":         idString(fixture.ID()),
		"type":       typ,
		"attributes": attributes,
	}
	if len(relationships) > 0 {
		res["relationships"] = relationships
	}
	return res
}

func (j *JSONAPI) typeFor(model, key string) string {
	if typ, ok := j.types[key]; ok {
		return typ
	}
	if j.models != nil {
		if typ, ok := j.models.AssociationModel(model, key); ok {
			return typ
		}
	}
	return key
}

func linkage(typ string, f factory.Fixture) map[string]any {
	return map[string]any{"id": idString(f.ID()), "type": typ}
}

func idString(id any) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(id)
}

func sortedKeys(f factory.Fixture) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dasherize turns snake_case and camelCase keys into dash-case:
// "first_name" and "firstName" both become "first-name".
func Dasherize(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	var prev rune
	for _, r := range key {
		switch {
		case r == '_' || r == ' ':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
