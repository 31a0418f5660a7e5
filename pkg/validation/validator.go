package validation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/streampad/cli/pkg/plugin"
)

// DefaultProbeTimeout bounds the URL reachability probe.
const DefaultProbeTimeout = 10 * time.Second

// Rule is one named validation step. Rules read the context, append entries
// to the result, and return an error only for genuinely unexpected faults;
// expected validation failures always become entries.
type Rule struct {
	Name string
	Run  func(ctx *plugin.Context, res *Result) error
}

// Run executes rules in order against a shared result. The halt flag is
// consulted between rules, so a critical entry skips everything after the
// rule that recorded it.
func Run(ctx *plugin.Context, rules []Rule, res *Result) error {
	for _, rule := range rules {
		if res.Halted() {
			break
		}
		if err := rule.Run(ctx, res); err != nil {
			return fmt.Errorf("rule %s: %w", rule.Name, err)
		}
	}
	return nil
}

// Options configures a Validator.
type Options struct {
	// HTTPClient performs the URL reachability probe. When nil, a client
	// with the probe timeout is built.
	HTTPClient *http.Client
	// Timeout overrides DefaultProbeTimeout for the built-in client. It is
	// ignored when HTTPClient is set.
	Timeout time.Duration
}

// Validator holds the compiled schemas and the rule list for repeated runs.
// A single Validator may validate any number of packages; every run gets a
// fresh Result.
type Validator struct {
	schemas *plugin.Schemas
	rules   []Rule
}

// New compiles the schemas and assembles the default rule list.
func New(opts Options) (*Validator, error) {
	schemas, err := plugin.LoadSchemas()
	if err != nil {
		return nil, err
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultProbeTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Validator{schemas: schemas, rules: DefaultRules(client)}, nil
}

// Validate loads the package at rootPath and runs the pipeline.
func (v *Validator) Validate(rootPath string) (*Result, error) {
	ctx, err := plugin.BuildContext(rootPath, v.schemas)
	if err != nil {
		return nil, err
	}
	res := NewResult()
	if err := Run(ctx, v.rules, res); err != nil {
		return nil, err
	}
	return res, nil
}

// DefaultRules returns the standard pipeline. Later rules assume the
// earlier ones ran: everything after the manifest rule reads the loaded
// manifest view.
func DefaultRules(client *http.Client) []Rule {
	return []Rule{
		{Name: "package-path", Run: checkPackagePath},
		{Name: "manifest", Run: checkManifest},
		{Name: "file-references", Run: checkFileReferences},
		{Name: "action-identifiers", Run: checkActionIdentifiers},
		{Name: "url-reachability", Run: checkURLReachability(client)},
		{Name: "layout-documents", Run: checkLayoutDocuments},
		{Name: "layout-keys", Run: checkLayoutKeys},
		{Name: "layout-geometry", Run: checkLayoutGeometry},
	}
}
