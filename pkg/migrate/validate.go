package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// nonPortableSQL lists Postgres-only constructs that break the SQLite dev
// database.
var nonPortableSQL = map[string]*regexp.Regexp{
	"now()":           regexp.MustCompile(`(?i)\bnow\(\)`),
	"gen_random_uuid": regexp.MustCompile(`(?i)\bgen_random_uuid\b`),
	"::cast":          regexp.MustCompile(`\w::\w`),
	"jsonb":           regexp.MustCompile(`(?i)\bjsonb\b`),
}

// ValidateDir checks migration filenames, version uniqueness, goose
// annotations and SQL portability. Every problem found is reported.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var errs error
	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, ok := seen[m[1]]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name))
		}
		seen[m[1]] = name

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read file %q: %w", name, err))
			continue
		}
		errs = multierr.Append(errs, validateMigration(name, string(b)))
	}
	return errs
}

func validateMigration(name, txt string) error {
	up := strings.Index(txt, "-- +goose Up")
	down := strings.Index(txt, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
	case down < 0:
		return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
	case down < up:
		return fmt.Errorf("migration %q has Down before Up", name)
	}

	var errs error
	for construct, re := range nonPortableSQL {
		if re.MatchString(stripSQLComments(txt)) {
			errs = multierr.Append(errs, fmt.Errorf("migration %q uses non-portable %s", name, construct))
		}
	}
	return errs
}

func stripSQLComments(txt string) string {
	lines := strings.Split(txt, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "--") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
