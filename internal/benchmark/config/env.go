package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable pdfbench reads.
const EnvPrefix = "PDFBENCH_"

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from PDFBENCH_* variables found through lookup,
// normally os.LookupEnv. Lists are comma separated.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	errs := &ValidationErrors{}

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs.Add(EnvPrefix+name, fmt.Sprintf("invalid integer %q", v))
			return
		}
		*dst = n
	}
	list := func(name string, dst *[]int) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		values, err := ParseIntList(v)
		if err != nil {
			errs.Add(EnvPrefix+name, err.Error())
			return
		}
		*dst = values
	}

	str("GENERATOR_TYPE", &c.GeneratorType)
	str("INPUT", &c.Input)
	str("OUTPUT", &c.Output)
	str("IMAGE_TYPE", &c.ImageType)
	list("DPI", &c.DPI)
	list("QUALITY", &c.Quality)
	num("ITERATIONS", &c.Iterations)
	num("FIRST_PAGE", &c.FirstPage)
	num("LAST_PAGE", &c.LastPage)
	str("PASSWORD", &c.Password)
	str("REPORT", &c.Report)
	str("HTML_REPORT", &c.HTMLReport)
	str("METRICS_FILE", &c.MetricsFile)
	str("PDFTOPPM_PATH", &c.PdftoppmPath)
	str("PDFINFO_PATH", &c.PdfinfoPath)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup(EnvPrefix + "VERIFY_PAGES"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs.Add(EnvPrefix+"VERIFY_PAGES", fmt.Sprintf("invalid boolean %q", v))
		} else {
			c.VerifyPages = &b
		}
	}
	if v, ok := lookup(EnvPrefix + "THRESHOLDS"); ok {
		c.Thresholds = splitList(v, ";")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ApplyProcessEnv is ApplyEnv over the process environment.
func ApplyProcessEnv(c *Config) error {
	return ApplyEnv(c, os.LookupEnv)
}

// ParseIntList parses "72,150, 300" into its integers.
func ParseIntList(s string) ([]int, error) {
	parts := splitList(s, ",")
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q in list", p)
		}
		values = append(values, n)
	}
	return values, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
