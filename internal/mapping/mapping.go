// Package mapping holds the rename table: which icon names are rewritten to
// which, the themes, and the sizes every theme must provide.
package mapping

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/comsapp/iconfix/internal/reconcile"
	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/indent"
	"github.com/samber/lo"
	"gopkg.in/yaml.v2"
)

//go:embed default.yaml
var defaultTable []byte

var sizeTokenRe = regexp.MustCompile(`^\d+x\d+$`)

type Table struct {
	Themes        []Theme  `yaml:"themes" validate:"len=2,unique=Name,dive"`
	Extension     string   `yaml:"extension" validate:"required,startswith=."`
	RequiredSizes []string `yaml:"required_sizes" validate:"required,unique,dive,sizeToken"`
	Mappings      []Entry  `yaml:"mappings" validate:"required,unique=From,dive"`
}

type Theme struct {
	Name   string `yaml:"name" validate:"required,oneof=light dark"`
	Prefix string `yaml:"prefix" validate:"required,basename"`
}

type Entry struct {
	From string `yaml:"from" validate:"required,basename"`
	To   string `yaml:"to" validate:"required,basename"`
}

// TableError is returned when a table cannot be read or fails validation.
type TableError struct {
	Source string
	Err    error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("invalid rename table %s:\n%s", e.Source, indent.String(e.Err.Error(), 2))
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// Default returns the built-in table.
func Default() (*Table, error) {
	return parse("(built-in)", defaultTable)
}

// Load reads a table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TableError{Source: path, Err: err}
	}
	return parse(path, data)
}

func parse(source string, data []byte) (*Table, error) {
	var t Table
	if err := yaml.UnmarshalStrict(data, &t); err != nil {
		return nil, &TableError{Source: source, Err: err}
	}
	if err := t.Validate(); err != nil {
		return nil, &TableError{Source: source, Err: err}
	}
	slog.Debug("rename table loaded",
		"source", source,
		"mappings", len(t.Mappings),
		"sizes", len(t.RequiredSizes))
	return &t, nil
}

// Validate checks the table invariants, most importantly that every source
// name appears at most once.
func (t *Table) Validate() error {
	err := newValidator().Struct(t)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	lines := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return fmt.Sprintf("field %s: %v is invalid (%s)", fe.Namespace(), fe.Value(), fe.Tag())
	})
	return errors.New(strings.Join(lines, "\n"))
}

// Theme returns the theme called name ("light" or "dark").
func (t *Table) Theme(name string) (reconcile.Theme, bool) {
	th, ok := lo.Find(t.Themes, func(th Theme) bool { return th.Name == name })
	if !ok {
		return reconcile.Theme{}, false
	}
	return reconcile.Theme{Name: th.Name, Prefix: th.Prefix}, true
}

// Entries converts the mappings into reconcile entries, keeping their order.
func (t *Table) Entries() []reconcile.RenameEntry {
	return lo.Map(t.Mappings, func(e Entry, _ int) reconcile.RenameEntry {
		return reconcile.RenameEntry{From: e.From, To: e.To}
	})
}

// Options returns the reconcile options implied by the table.
func (t *Table) Options() []reconcile.Option {
	opts := []reconcile.Option{reconcile.WithExtension(t.Extension)}
	light, okLight := t.Theme("light")
	dark, okDark := t.Theme("dark")
	if okLight && okDark {
		opts = append(opts, reconcile.WithThemes(light, dark))
	}
	return opts
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("sizeToken", validateSizeToken)
	_ = v.RegisterValidation("basename", validateBasename)
	return v
}

// validateSizeToken accepts WxH tokens such as "192x192"
func validateSizeToken(fl validator.FieldLevel) bool {
	return sizeTokenRe.MatchString(fl.Field().String())
}

// validateBasename accepts plain file names without any directory part
func validateBasename(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
