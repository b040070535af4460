package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/agentx-labs/modreg/internal/controller"
)

// errFailedResult signals a failure Result that has already been printed.
var errFailedResult = errors.New("operation failed")

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// emit writes r as JSON when asJSON is set, otherwise calls render with the
// payload. A failed result always returns an error so the process exits
// non-zero.
func emit[T any](w io.Writer, r controller.Result[T], asJSON bool, render func(*T) error) error {
	if asJSON {
		if err := printJSON(w, r); err != nil {
			return err
		}
		if r.Failed() {
			return errFailedResult
		}
		return nil
	}
	if r.Failed() {
		return resultError(r.Error)
	}
	return render(r.Data)
}

func resultError(f *controller.Failure) error {
	if d, ok := f.Details.(controller.InvalidTypes); ok {
		return fmt.Errorf("%s error: %s (valid types: %v)", f.Kind, f.Message, d.Valid)
	}
	return fmt.Errorf("%s error: %s", f.Kind, f.Message)
}

func dash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
