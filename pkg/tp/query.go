package tp

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Direction is an ordering direction.
type Direction string

// Ordering directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBy is one ordering term. An empty Direction means the remote
// system's default order for the field.
type OrderBy struct {
	Field     string
	Direction Direction
}

var includeNamePattern = regexp.MustCompile(`^[A-Za-z.]+$`)

// FormatOrderBy serializes ordering terms into the wire orderBy clause.
func FormatOrderBy(terms []OrderBy) string {
	parts := make([]string, 0, len(terms))

	for _, term := range terms {
		part := NormalizeFieldName(term.Field)
		if term.Direction != "" {
			part += " " + string(term.Direction)
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, ",")
}

// FormatInclude serializes related-entity names into the bracketed wire
// include clause. Entries are trimmed and blank entries dropped; every
// remaining name must be letters and dots only, or the whole clause is
// rejected before any entry is emitted.
func FormatInclude(names []string) (string, error) {
	cleaned := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		cleaned = append(cleaned, name)
	}

	for _, name := range cleaned {
		if !includeNamePattern.MatchString(name) {
			return "", &ValidationError{Fragment: name, Reason: "include names must contain only letters and dots"}
		}
	}

	return "[" + strings.Join(cleaned, ",") + "]", nil
}

// QueryParams represents query parameters for entity searches.
type QueryParams struct {
	// Where is the raw simplified filter expression, compiled by
	// CompileWhere before hitting the wire.
	Where string

	// Include lists related entities to embed in the response.
	Include []string

	// OrderBy lists ordering terms.
	OrderBy []OrderBy

	// Take bounds the number of returned items.
	Take int

	// Skip offsets into the result set.
	Skip int
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithWhere sets the raw filter expression.
func (p *QueryParams) WithWhere(where string) *QueryParams {
	p.Where = where

	return p
}

// WithInclude appends related-entity names.
func (p *QueryParams) WithInclude(names ...string) *QueryParams {
	p.Include = append(p.Include, names...)

	return p
}

// WithOrderBy appends an ordering term.
func (p *QueryParams) WithOrderBy(field string, direction Direction) *QueryParams {
	p.OrderBy = append(p.OrderBy, OrderBy{Field: field, Direction: direction})

	return p
}

// WithTake sets the result bound.
func (p *QueryParams) WithTake(take int) *QueryParams {
	p.Take = take

	return p
}

// WithSkip sets the result offset.
func (p *QueryParams) WithSkip(skip int) *QueryParams {
	p.Skip = skip

	return p
}

// ToValues converts the params to their wire query-string form. The where
// clause is compiled and the include clause validated; either can fail with
// a *ValidationError before any network call is made.
func (p *QueryParams) ToValues() (url.Values, error) {
	values := url.Values{}

	if p.Where != "" {
		compiled, err := CompileWhere(p.Where)
		if err != nil {
			return nil, err
		}

		values.Set("where", compiled)
	}

	if len(p.Include) > 0 {
		include, err := FormatInclude(p.Include)
		if err != nil {
			return nil, err
		}

		values.Set("include", include)
	}

	if len(p.OrderBy) > 0 {
		values.Set("orderBy", FormatOrderBy(p.OrderBy))
	}

	if p.Take > 0 {
		values.Set("take", strconv.Itoa(p.Take))
	}

	if p.Skip > 0 {
		values.Set("skip", strconv.Itoa(p.Skip))
	}

	return values, nil
}
