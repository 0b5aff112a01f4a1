package view

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
)

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func errBlank(field string) error {
	return fmt.Errorf("%s cannot be empty", field)
}

// notBlank is a huh validator for required inputs.
func notBlank(field string) func(string) error {
	return func(s string) error {
		if trimmed(s) == "" {
			return errBlank(field)
		}

		return nil
	}
}

// validDisplayDate is a huh validator for DD-MM-YYYY inputs. Blank passes when optional.
func validDisplayDate(optional bool) func(string) error {
	return func(s string) error {
		s = trimmed(s)
		if s == "" {
			if optional {
				return nil
			}

			return errBlank("date")
		}

		_, err := datefmt.ParseDisplay(s)

		return err
	}
}

// validAmount is a huh validator for money inputs.
func validAmount(field string) func(string) error {
	return func(s string) error {
		_, err := payroll.ParseAmount(field, s)
		return err
	}
}
