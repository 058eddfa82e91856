package chat

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// literalPattern matches string literals, quoted identifiers and
	// comments, whose content must not be mistaken for clauses.
	literalPattern = regexp.MustCompile(`(?s)'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"` + "|`[^`]*`" + `|//[^\n]*|/\*.*?\*/`)

	// Keywords preceded by "." or ":" are property keys or labels.
	writeClausePattern = regexp.MustCompile(`(?i)(?:^|[^.:\w$])(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|FOREACH|LOAD\s+CSV|GRANT|REVOKE|DENY|ALTER|RENAME|START\s+DATABASE|STOP\s+DATABASE)\b`)

	writeProcedurePattern = regexp.MustCompile(`(?i)\bCALL\s+(dbms\.|apoc\.(create|merge|refactor|periodic|do|nodes\.delete|cypher\.(run|do)|trigger|schema\.assert|load|import|export)|db\.(create|index\.fulltext\.(create|drop)|clearQueryCaches))`)
)

// ValidateReadOnly rejects Cypher that could modify the graph or the
// server: write clauses, admin commands, write procedures and multiple
// statements.
func ValidateReadOnly(cypher string) error {
	stripped := literalPattern.ReplaceAllStringFunc(cypher, func(m string) string {
		if strings.HasPrefix(m, "//") || strings.HasPrefix(m, "/*") {
			return " "
		}
		return "''"
	})
	if strings.TrimSpace(stripped) == "" {
		return ErrEmptyTranslation
	}

	if m := writeClausePattern.FindStringSubmatch(stripped); m != nil {
		return fmt.Errorf("%w: contains %s", ErrWriteQuery, strings.ToUpper(m[1]))
	}
	if m := writeProcedurePattern.FindString(stripped); m != "" {
		return fmt.Errorf("%w: calls %s", ErrWriteQuery, m)
	}
	if i := strings.Index(stripped, ";"); i >= 0 && strings.TrimSpace(stripped[i+1:]) != "" {
		return fmt.Errorf("%w: multiple statements", ErrWriteQuery)
	}
	return nil
}
