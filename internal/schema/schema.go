// Package schema resolves logical table names to the physical table names
// used in statements.
//
// A deployment groups its tables into schemas (legacy, main, term, ods and
// live). Each Profile says which schemas are reachable and under which
// prefix, so the same logical table can point at a test copy in one
// environment and at production in another:
//
//	resolver := schema.NewPrefixResolver(schema.Profile{
//	    Name:     "test",
//	    Prefixes: map[schema.Schema]string{schema.Legacy: "", schema.Main: "main_test"},
//	})
//
//	name, _ := resolver.Resolve(ctx, schema.Table(schema.Main, "facility"))
//	// name == "main_test.facility"
//
// A profile stored on the context with WithProfile overrides the resolver's
// default profile for that call.
package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Schema identifies a group of tables that share a physical prefix.
type Schema string

// Known schemas.
const (
	Legacy Schema = "legacy"
	Main   Schema = "main"
	Term   Schema = "term"
	ODS    Schema = "ods"
	Live   Schema = "live"
)

var (
	// ErrSchemaUnavailable indicates that the active profile does not provide
	// the schema a table lives in.
	ErrSchemaUnavailable = errors.New("schema unavailable")

	// ErrUnknownProfile indicates that no profile with the requested name is
	// configured.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrUnknownSchema indicates an unrecognised schema name.
	ErrUnknownSchema = errors.New("unknown schema")
)

// AllSchemas lists every known schema.
var AllSchemas = []Schema{Legacy, Main, Term, ODS, Live}

// ParseSchema converts a configuration key into a Schema.
func ParseSchema(s string) (Schema, error) {
	candidate := Schema(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllSchemas {
		if candidate == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSchema, s)
}

// LogicalTable is the stable name callers use for a table.
type LogicalTable struct {
	Schema Schema
	Name   string
}

// Table creates a LogicalTable.
func Table(s Schema, name string) LogicalTable {
	return LogicalTable{Schema: s, Name: name}
}

// String implements fmt.Stringer.
func (t LogicalTable) String() string {
	return string(t.Schema) + ":" + t.Name
}

// Profile describes the schemas reachable in one environment. A schema that
// is present in Prefixes with an empty prefix resolves to the bare table
// name; a schema missing from Prefixes is unavailable.
type Profile struct {
	Name     string
	Prefixes map[Schema]string
}

// Prefix returns the prefix for a schema and whether the schema is available.
func (p Profile) Prefix(s Schema) (string, bool) {
	prefix, ok := p.Prefixes[s]
	return prefix, ok
}

// Schemas returns the available schemas in a stable order.
func (p Profile) Schemas() []Schema {
	out := make([]Schema, 0, len(p.Prefixes))
	for s := range p.Prefixes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Profiles is a set of named profiles.
type Profiles map[string]Profile

// Lookup returns the named profile.
func (ps Profiles) Lookup(name string) (Profile, error) {
	p, ok := ps[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Resolver maps a logical table to the physical name used in statements.
// Implementations must be safe for concurrent use; they are called once per
// statement.
type Resolver interface {
	Resolve(ctx context.Context, t LogicalTable) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, t LogicalTable) (string, error)

// Resolve calls f(ctx, t).
func (f ResolverFunc) Resolve(ctx context.Context, t LogicalTable) (string, error) {
	return f(ctx, t)
}

// PrefixResolver resolves tables by prefixing them with the schema prefix of
// the active profile.
type PrefixResolver struct {
	defaultProfile Profile
}

// Compile-time check that *PrefixResolver implements Resolver.
var _ Resolver = (*PrefixResolver)(nil)

// NewPrefixResolver creates a resolver that uses def when the context carries
// no profile.
func NewPrefixResolver(def Profile) *PrefixResolver {
	return &PrefixResolver{defaultProfile: def}
}

// DefaultProfile returns the profile used when the context carries none.
func (r *PrefixResolver) DefaultProfile() Profile {
	return r.defaultProfile
}

// Resolve returns "prefix.name", or the bare name when the schema has an
// empty prefix.
func (r *PrefixResolver) Resolve(ctx context.Context, t LogicalTable) (string, error) {
	p := r.defaultProfile
	if cp, ok := ProfileFromContext(ctx); ok {
		p = cp
	}

	prefix, ok := p.Prefix(t.Schema)
	if !ok {
		return "", fmt.Errorf("%w: profile %q has no %s schema", ErrSchemaUnavailable, p.Name, t.Schema)
	}
	if prefix == "" {
		return t.Name, nil
	}
	return prefix + "." + t.Name, nil
}

type contextKey string

const profileKey contextKey = "schema_profile"

// WithProfile stores the active profile on the context.
func WithProfile(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// ProfileFromContext retrieves the active profile from the context.
func ProfileFromContext(ctx context.Context) (Profile, bool) {
	p, ok := ctx.Value(profileKey).(Profile)
	return p, ok
}
