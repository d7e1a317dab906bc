// Package frontmatter strips an optional leading YAML metadata block from
// a Markdown file before the block parser sees the body. A file opens
// with front matter when its first line is exactly "---"; the block
// ends at the next line that is exactly "---". The YAML itself is
// parsed only far enough to confirm it is well-formed document
// metadata (invalid YAML is passed through unchanged rather than
// rejected, since front-matter recognition is a convenience, not part
// of the task grammar).
package frontmatter

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Strip removes a leading YAML front-matter block from source, if
// present, and returns the remaining body. The returned slice shares no
// required relationship with source's line numbers: callers that need
// line numbers relative to the original file should add back the
// number of lines the front-matter block occupied.
func Strip(source []byte) (body []byte, skippedLines int) {
	const delim = "---"

	lines := bytes.Split(source, []byte("\n"))
	if len(lines) == 0 || string(bytes.TrimRight(lines[0], "\r")) != delim {
		return source, 0
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if string(bytes.TrimRight(lines[i], "\r")) == delim {
			end = i
			break
		}
	}
	if end == -1 {
		return source, 0
	}

	var meta map[string]any
	if err := yaml.Unmarshal(bytes.Join(lines[1:end], []byte("\n")), &meta); err != nil {
		return source, 0
	}

	return bytes.Join(lines[end+1:], []byte("\n")), end + 1
}
