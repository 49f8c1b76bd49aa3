package dejson

import "github.com/iancoleman/strcase"

// Syntax selects the token front end used for text input.
type Syntax int

const (
	// SyntaxLenient accepts unquoted names and bare-word strings, single
	// quotes, '=' separators, comments and trailing commas.
	SyntaxLenient Syntax = iota
	// SyntaxStrict accepts RFC 8259 JSON only. Several top-level values
	// may follow one another, separated by whitespace.
	SyntaxStrict
)

func (s Syntax) String() string {
	if s == SyntaxStrict {
		return "strict"
	}
	return "lenient"
}

// FieldNaming derives member names for struct fields without a dejson or
// json tag.
type FieldNaming int

const (
	NamingAsDeclared FieldNaming = iota // Field name as written in Go.
	NamingLowerCamel                    // FirstName -> firstName
	NamingSnake                         // FirstName -> first_name
	NamingKebab                         // FirstName -> first-name
)

func (n FieldNaming) apply(name string) string {
	switch n {
	case NamingLowerCamel:
		return strcase.ToLowerCamel(name)
	case NamingSnake:
		return strcase.ToSnake(name)
	case NamingKebab:
		return strcase.ToKebab(name)
	}
	return name
}

// Options bundles analysis and decoding options.
type Options struct {
	Syntax      Syntax
	MaxDepth    int // Maximum container nesting; 0 means unlimited.
	FieldNaming FieldNaming
	Logger      Logger
	Registry    *Registry
}

// Option mutates Options.
type Option func(*Options)

// WithSyntax selects the token front end for text input.
func WithSyntax(s Syntax) Option { return func(o *Options) { o.Syntax = s } }

// WithMaxDepth bounds container nesting per decode.
func WithMaxDepth(n int) Option { return func(o *Options) { o.MaxDepth = n } }

// WithFieldNaming sets the naming rule for untagged struct fields.
func WithFieldNaming(n FieldNaming) Option { return func(o *Options) { o.FieldNaming = n } }

// WithLogger installs a Logger; nil restores the no-op logger.
func WithLogger(l Logger) Option { return func(o *Options) { o.Logger = l } }

// WithRegistry replaces the primitive registry used for scalar lookups.
func WithRegistry(r *Registry) Option { return func(o *Options) { o.Registry = r } }

func buildOptions(opts []Option) Options {
	o := Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Logger == nil {
		o.Logger = NopLogger{}
	}
	if o.Registry == nil {
		o.Registry = Primitives()
	}
	return o
}
