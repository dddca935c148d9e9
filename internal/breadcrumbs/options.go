package breadcrumbs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Parameter names recognised on the component configuration.
const (
	ParameterMenus                   = "breadcrumb-menus"
	ParameterSeparator               = "breadcrumb-separator"
	ParameterLinkNotFoundMode        = "linkNotFoundMode"
	ParameterAddTrailingDocumentOnly = "addTrailingDocumentOnly"
	ParameterAddContentBased         = "addContentBased"
	ParameterStrictMenus             = "breadcrumb-strict-menus"

	DefaultMenuName  = "main"
	DefaultSeparator = "&#187;"
)

// Parameters holds the raw string values supplied by the host. Empty fields
// fall back to defaults.
type Parameters struct {
	Menus                   string `json:"breadcrumb-menus" mapstructure:"menus" yaml:"menus"`
	Separator               string `json:"breadcrumb-separator" mapstructure:"separator" yaml:"separator"`
	LinkNotFoundMode        string `json:"linkNotFoundMode" mapstructure:"link_not_found_mode" yaml:"link_not_found_mode"`
	AddTrailingDocumentOnly string `json:"addTrailingDocumentOnly" mapstructure:"add_trailing_document_only" yaml:"add_trailing_document_only"`
	// AddContentBased is accepted for compatibility and has no effect.
	AddContentBased string `json:"addContentBased" mapstructure:"add_content_based" yaml:"add_content_based"`
	StrictMenus     string `json:"breadcrumb-strict-menus" mapstructure:"strict_menus" yaml:"strict_menus"`
}

// ParametersFromMap reads parameters keyed by their component names.
func ParametersFromMap(values map[string]string) Parameters {
	if values == nil {
		return Parameters{}
	}
	return Parameters{
		Menus:                   values[ParameterMenus],
		Separator:               values[ParameterSeparator],
		LinkNotFoundMode:        values[ParameterLinkNotFoundMode],
		AddTrailingDocumentOnly: values[ParameterAddTrailingDocumentOnly],
		AddContentBased:         values[ParameterAddContentBased],
		StrictMenus:             values[ParameterStrictMenus],
	}
}

// Options is the resolved, immutable builder configuration.
type Options struct {
	MenuNames            []string
	Separator            string
	LinkNotFoundMode     LinkNotFoundMode
	TrailingDocumentOnly bool
	StrictMenus          bool
}

// DefaultOptions returns the configuration used when nothing is supplied.
func DefaultOptions() Options {
	return Options{
		MenuNames: []string{DefaultMenuName},
		Separator: DefaultSeparator,
	}
}

// Menus returns a copy of the configured menu names.
func (o Options) Menus() []string {
	out := make([]string, len(o.MenuNames))
	copy(out, o.MenuNames)
	return out
}

// ParseMenuNames splits a comma separated list, trimming each name. Blank
// input yields the default single-menu list.
func ParseMenuNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{DefaultMenuName}
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return []string{DefaultMenuName}
	}
	return names
}

// ParseParameters validates raw parameters and resolves them into Options.
func ParseParameters(params Parameters) (Options, error) {
	if err := params.Validate(); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	mode, err := ParseLinkNotFoundMode(params.LinkNotFoundMode)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	opts := DefaultOptions()
	opts.MenuNames = ParseMenuNames(params.Menus)
	if params.Separator != "" {
		opts.Separator = params.Separator
	}
	opts.LinkNotFoundMode = mode
	opts.TrailingDocumentOnly = parseBool(params.AddTrailingDocumentOnly)
	opts.StrictMenus = parseBool(params.StrictMenus)
	return opts, nil
}

// Validate checks the raw values without resolving them.
func (p Parameters) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.LinkNotFoundMode, validation.By(func(value any) error {
			raw, _ := value.(string)
			_, err := ParseLinkNotFoundMode(raw)
			return err
		})),
		validation.Field(&p.AddTrailingDocumentOnly, validation.By(boolRule)),
		validation.Field(&p.AddContentBased, validation.By(boolRule)),
		validation.Field(&p.StrictMenus, validation.By(boolRule)),
	)
}

var errNotBoolean = errors.New("must be a boolean")

func boolRule(value any) error {
	raw, _ := value.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if _, err := strconv.ParseBool(strings.TrimSpace(raw)); err != nil {
		return errNotBoolean
	}
	return nil
}

func parseBool(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && value
}
