package core

import (
	"bufio"
	"bytes"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const maxScriptLine = 1024 * 1024

// ScanImports extracts the top-level module of every import statement in
// a Python script.  Relative imports name local modules and are skipped.
func ScanImports(source []byte) ([]string, error) {
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), maxScriptLine)
	for scanner.Scan() {
		for _, symbol := range importHeads(scanner.Text()) {
			seen[symbol] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to scan script imports").
			WithCause(err)
	}
	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// importHeads returns the top-level modules named by one line.  A line may
// hold several statements separated by semicolons; "import" may list
// several modules separated by commas while "from" names exactly one.
func importHeads(line string) []string {
	code, _, _ := strings.Cut(line, "#")
	var heads []string
	for _, statement := range strings.Split(code, ";") {
		statement = strings.TrimSpace(statement)
		switch {
		case strings.HasPrefix(statement, "import "):
			for _, part := range strings.Split(strings.TrimPrefix(statement, "import "), ",") {
				if head, ok := moduleHead(part); ok {
					heads = append(heads, head)
				}
			}
		case strings.HasPrefix(statement, "from "):
			if head, ok := moduleHead(strings.TrimPrefix(statement, "from ")); ok {
				heads = append(heads, head)
			}
		}
	}
	return heads
}

func moduleHead(part string) (string, bool) {
	fields := strings.Fields(strings.Trim(part, " \t()"))
	if len(fields) == 0 {
		return "", false
	}
	path := fields[0]
	if strings.HasPrefix(path, ".") {
		return "", false
	}
	head, _, _ := strings.Cut(path, ".")
	if !isIdentifier(head) {
		return "", false
	}
	return head, true
}

func isIdentifier(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
