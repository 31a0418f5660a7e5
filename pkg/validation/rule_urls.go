package validation

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/streampad/cli/pkg/plugin"
)

// checkURLReachability returns a rule that probes the manifest's support URL
// with a HEAD request. Malformed URLs never reach the network. DNS failures
// and non-2xx responses become diagnostics; other transport faults are
// unexpected and abort the run.
func checkURLReachability(client *http.Client) func(ctx *plugin.Context, res *Result) error {
	return func(ctx *plugin.Context, res *Result) error {
		if ctx.Manifest == nil {
			return nil
		}
		declared, ok := ctx.Manifest.URL.AsString()
		if !ok {
			return nil
		}
		fc := ctx.ManifestFile
		loc := ctx.Manifest.URL.Location()

		parsed, err := url.Parse(declared)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			entry := Entry{
				Message:  loc.Keyed("must have http or https protocol"),
				Location: &loc,
			}
			if err == nil && parsed.Scheme == "" && declared != "" {
				entry.Suggestion = "https://" + declared
			}
			res.Error(fc.Path, entry)
			return nil
		}

		req, err := http.NewRequest(http.MethodHead, declared, nil)
		if err != nil {
			res.Error(fc.Path, Entry{
				Message:  loc.Keyed("must be a valid URL"),
				Location: &loc,
			})
			return nil
		}
		resp, err := client.Do(req)
		if err != nil {
			var dnsErr *net.DNSError
			if errors.As(err, &dnsErr) {
				res.Error(fc.Path, Entry{
					Message:  loc.Keyed("must be resolvable"),
					Location: &loc,
				})
				return nil
			}
			return fmt.Errorf("probing %s: %w", declared, err)
		}
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			res.Warning(fc.Path, Entry{
				Message:  loc.Keyed(fmt.Sprintf("responded with status code %d", resp.StatusCode)),
				Location: &loc,
			})
		}
		return nil
	}
}
