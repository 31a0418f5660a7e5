package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/streampad/cli/pkg/console"
	"github.com/streampad/cli/pkg/validation"
)

// Package-level version information
var (
	version = "dev"
)

// MaxConcurrentValidations caps how many packages are validated in parallel
const MaxConcurrentValidations = 4

// ErrValidationFailed indicates at least one package had validation errors.
// The findings were already printed; callers only translate this into an
// exit code.
var ErrValidationFailed = errors.New("validation failed")

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v string) {
	version = v
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// ValidateOptions configures a validation run.
type ValidateOptions struct {
	Verbose bool
	Watch   bool
	Timeout time.Duration
}

// ValidatePlugins validates the given plugin packages and prints a report
// for each. With Watch set it keeps running and revalidates on file changes.
func ValidatePlugins(paths []string, opts ValidateOptions) error {
	v, err := validation.New(validation.Options{Timeout: opts.Timeout})
	if err != nil {
		return fmt.Errorf("loading schemas: %w", err)
	}

	if opts.Watch {
		return watchAndValidate(paths, v, opts.Verbose)
	}
	return runValidation(paths, v, opts.Verbose)
}

// runValidation validates all paths concurrently and prints the reports in
// input order. It returns ErrValidationFailed when any package had errors,
// or the first unexpected fault.
func runValidation(paths []string, v *validation.Validator, verbose bool) error {
	spin := console.NewSpinner(fmt.Sprintf("Validating %d package(s)...", len(paths)))
	spin.Start()
	results := validateConcurrent(v, paths)
	spin.Stop()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			return fmt.Errorf("validating %s: %w", r.path, r.err)
		}
		if verbose {
			fmt.Println(console.FormatLocationMessage(fmt.Sprintf("Package: %s", console.ToRelativePath(r.path))))
		}
		if output := FormatResult(r.res); output != "" {
			fmt.Print(output)
		}
		if r.res.Success() {
			fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("%s is valid", console.ToRelativePath(r.path))))
		} else {
			failed++
		}
	}

	if verbose && len(results) > 1 {
		printSummaryTable(results)
	}

	if failed > 0 {
		return ErrValidationFailed
	}
	return nil
}

// packageResult pairs one package's findings with its input position so the
// reports print in the order the packages were given.
type packageResult struct {
	index int
	path  string
	res   *validation.Result
	err   error
}

// validateConcurrent validates packages in parallel with bounded concurrency.
func validateConcurrent(v *validation.Validator, paths []string) []packageResult {
	p := pool.NewWithResults[packageResult]().WithMaxGoroutines(MaxConcurrentValidations)

	for i, path := range paths {
		i, path := i, path // capture loop variables
		p.Go(func() packageResult {
			res, err := v.Validate(path)
			return packageResult{index: i, path: path, res: res, err: err}
		})
	}

	results := p.Wait()
	sort.Slice(results, func(a, b int) bool { return results[a].index < results[b].index })
	return results
}

// printSummaryTable renders the per-package counts after a multi-package run.
func printSummaryTable(results []packageResult) {
	rows := make([][]string, 0, len(results))
	totalErrors, totalWarnings := 0, 0
	for _, r := range results {
		rows = append(rows, []string{
			console.ToRelativePath(r.path),
			strconv.Itoa(r.res.ErrorCount()),
			strconv.Itoa(r.res.WarningCount()),
		})
		totalErrors += r.res.ErrorCount()
		totalWarnings += r.res.WarningCount()
	}

	fmt.Print(console.RenderTable(console.TableConfig{
		Title:     "Validation Summary",
		Headers:   []string{"Package", "Errors", "Warnings"},
		Rows:      rows,
		ShowTotal: true,
		TotalRow:  []string{"TOTAL", strconv.Itoa(totalErrors), strconv.Itoa(totalWarnings)},
	}))
}
