// Package manifest reads pip requirement files.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Manifest is a parsed requirements file.
type Manifest struct {
	Path string
	// Requirements holds the requirement specifiers in file order.
	Requirements []string
	// Options holds pip option lines such as "--index-url" or "-r other.txt".
	Options []string
}

// Empty reports whether the manifest declares nothing to install.
func (m *Manifest) Empty() bool {
	return len(m.Requirements) == 0 && len(m.Options) == 0
}

// Load parses the file at path. Comments, blank lines and trailing
// backslash continuations follow pip's requirements format.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	m := &Manifest{Path: path}
	scanner := bufio.NewScanner(f)
	var pending strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasSuffix(line, `\`) {
			pending.WriteString(strings.TrimSuffix(line, `\`))

			continue
		}
		pending.WriteString(line)
		m.add(pending.String())
		pending.Reset()
	}
	if pending.Len() > 0 {
		m.add(pending.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	return m, nil
}

func (m *Manifest) add(line string) {
	line = stripComment(line)
	if line == "" {
		return
	}

	if strings.HasPrefix(line, "-") {
		m.Options = append(m.Options, line)

		return
	}
	m.Requirements = append(m.Requirements, line)
}

// stripComment drops a "#" comment that starts the line or follows whitespace.
func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}

	if idx := strings.Index(line, " #"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, "\t#"); idx >= 0 {
		line = line[:idx]
	}

	return strings.TrimSpace(line)
}
