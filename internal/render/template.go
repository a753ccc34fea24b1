package render

import (
	"fmt"
	"strings"
	"text/template"
)

// Rendered files are dbt models, so the usual {{ }} delimiters belong to
// the output. Conventions use [[ ]] for their own substitutions instead.
func newTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).
		Delims("[[", "]]").
		Funcs(template.FuncMap{"qlist": quotedList}).
		Parse(text))
}

// quotedList formats a string slice the way dbt macro arguments expect:
// ['a', 'b'].
func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func execute(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("template '%s' failed: %w", t.Name(), err)
	}
	return b.String(), nil
}

// stageModelName is the dbt model name a source's stage model is written
// under, shared by every convention.
func stageModelName(source string) string { return "stg_" + source }

func stageModelNames(sources []string) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = stageModelName(s)
	}
	return out
}
