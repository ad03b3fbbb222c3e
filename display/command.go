// Package display formats command results for the terminal: JSON when asked
// for, pterm summaries otherwise.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/errors"
)

// EnvOutput selects the default output format when no --json flag is given
const EnvOutput = "VKDOC_OUTPUT"

// ShouldOutputJSON reports whether cmd should print JSON: an explicit --json on the
// command wins, then the root's persistent --json, then VKDOC_OUTPUT=json.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return jsonFromEnv()
	}

	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return jsonFromEnv()
}

func jsonFromEnv() bool {
	return strings.EqualFold(os.Getenv(EnvOutput), "json")
}

// OutputJSON marshals v with MarshalJSON and prints it to stdout
func OutputJSON(v interface{}) error {
	return WriteJSON(os.Stdout, v)
}

// WriteJSON marshals v with MarshalJSON and writes it to w followed by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return errors.Wrap(err, "failed to write JSON")
	}
	return nil
}
