// Package templates holds the templ views. Edit the .templ sources and
// run `templ generate`; the _templ.go files are generated.
package templates

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/globalhsr/hsrdb/internal/core"
)

// Form field prefixes understood by core.BuildCommand.
const (
	updatePrefix  = "update_"
	currentPrefix = "current_"
	deletePrefix  = "delete_"
)

// NavItem is one link in the site navigation.
type NavItem struct {
	Label string
	Href  string
}

// EntityView is the data behind one entity page.
type EntityView struct {
	Result  *core.ListResult
	Success *core.UserMessage
	Error   *core.UserMessage
}

func isEditing(res *core.ListResult, row core.Row) bool {
	return res.EditKey != nil && res.EditKey.String() == row.Key
}

func editURL(def core.EntityDefinition, key string) templ.SafeURL {
	return templ.URL(def.Path() + "?" + url.Values{"edit": {key}}.Encode())
}

// keyPrefix names the hidden key inputs of the edit form. Join entities
// may change their key, so the row is addressed by current_<key>.
func keyPrefix(def core.EntityDefinition) string {
	if def.Composite() {
		return currentPrefix
	}
	return updatePrefix
}

func enumOptions(f core.FieldSpec) []core.Option {
	opts := make([]core.Option, len(f.EnumValues))
	for i, v := range f.EnumValues {
		opts[i] = core.Option{Value: v, Label: v}
	}
	return opts
}

func inputType(f core.FieldSpec) string {
	switch f.Type {
	case core.FieldInt, core.FieldDecimal:
		return "number"
	default:
		return "text"
	}
}

func inputStep(f core.FieldSpec) string {
	switch f.Type {
	case core.FieldInt:
		return "1"
	case core.FieldDecimal:
		return "any"
	default:
		return ""
	}
}
