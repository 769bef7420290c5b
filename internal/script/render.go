// Package script defines the closed set of queries and commands the system
// issues against the desktop application, and renders them to automation
// (JXA) source only at this boundary. Domain logic never assembles script
// text itself.
package script

import (
	"fmt"
	"strings"
	"time"
)

// Query is a read against the backend. Reads print a JSON array (or a bare
// string for identity queries) on stdout.
type Query interface {
	Render() string
}

// Command is a mutation against the backend. Mutations print "true" on
// success, or the new record identifier for creates.
type Command interface {
	Render() string
}

// jsString renders a Go string as a JavaScript string literal.
func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// jsDate renders a timestamp as a JavaScript Date constructor call.
func jsDate(t time.Time) string {
	return fmt.Sprintf("new Date(%s)", jsString(t.Format(time.RFC3339)))
}

func jsStringArray(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = jsString(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func wrap(body string) string {
	return "(() => {\nconst app = Application('OmniFocus');\napp.includeStandardAdditions = true;\nconst doc = app.defaultDocument;\n" + body + "\n})()"
}
