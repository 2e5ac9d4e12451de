package prompts

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// MissingInputError reports the required inputs absent from a Format call.
// Missing is sorted for stable messages.
type MissingInputError struct {
	Missing []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required inputs: %s", strings.Join(e.Missing, ", "))
}

// Prompt is a reusable template with metadata and formatting logic.
// Placeholders use ${name} syntax.
type Prompt struct {
	Name             string
	Description      string
	Template         string
	RequiredInputs   []string
	ResponseSchema   map[string]any
	ResponseMIMEType string
	Category         string
	Version          string
}

// Format substitutes the named values into the template. When the prompt
// declares no required inputs the template is returned unchanged and no
// substitution is attempted. Unknown placeholders are left verbatim, but a
// missing required input fails with a MissingInputError naming exactly the
// absent keys.
func (p Prompt) Format(values map[string]string) (string, error) {
	if len(p.RequiredInputs) == 0 {
		return p.Template, nil
	}
	var missing []string
	for _, name := range p.RequiredInputs {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingInputError{Missing: missing}
	}
	return os.Expand(p.Template, func(name string) string {
		if v, ok := values[name]; ok {
			return v
		}
		return "${" + name + "}"
	}), nil
}
