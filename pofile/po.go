// Package pofile reads GNU gettext PO catalogs far enough to count
// translated, fuzzy and untranslated messages the way msgfmt --statistics
// does.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one message of a catalog.
type Entry struct {
	Flags        []string
	MsgCtxt      string
	MsgID        string
	MsgIDPlural  string
	MsgStr       string
	MsgStrPlural map[int]string
	Obsolete     bool
}

// IsFuzzy returns true if the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool {
	for _, f := range e.Flags {
		if f == "fuzzy" {
			return true
		}
	}
	return false
}

// HasTranslation reports whether the entry carries a translation. For
// plural entries only the first form is looked at, as msgfmt does.
func (e *Entry) HasTranslation() bool {
	if e.MsgIDPlural != "" {
		return e.MsgStrPlural[0] != ""
	}
	return e.MsgStr != ""
}

// File is a parsed catalog without its header entry.
type File struct {
	Entries []*Entry
}

// Stats are message counts of one catalog.
type Stats struct {
	Translated   int
	Fuzzy        int
	Untranslated int
}

// Total returns the number of counted messages.
func (s Stats) Total() int {
	return s.Translated + s.Fuzzy + s.Untranslated
}

// Stats counts live messages. The header and obsolete entries are not
// messages. An entry without a translation is untranslated whether or not
// it is fuzzy.
func (f *File) Stats() Stats {
	var s Stats
	for _, e := range f.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		switch {
		case !e.HasTranslation():
			s.Untranslated++
		case e.IsFuzzy():
			s.Fuzzy++
		default:
			s.Translated++
		}
	}
	return s
}

// field names the string a continuation line extends.
type field int

const (
	fieldNone field = iota
	fieldCtxt
	fieldID
	fieldIDPlural
	fieldStr
	fieldStrPlural
)

// Parse reads a catalog. Comments other than flags are skipped.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cur       *Entry
		last      field
		pluralIdx int
		lineNum   int
	)

	flush := func() {
		if cur != nil && (cur.MsgID != "" || cur.Obsolete) {
			f.Entries = append(f.Entries, cur)
		}
		cur = nil
		last = fieldNone
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if cur == nil {
			cur = &Entry{MsgStrPlural: make(map[int]string)}
		}

		if strings.HasPrefix(line, "#~") {
			cur.Obsolete = true
			line = strings.TrimSpace(line[2:])
			if line == "" || strings.HasPrefix(line, "|") {
				continue
			}
		}

		switch {
		case strings.HasPrefix(line, "#,"):
			for _, flag := range strings.Split(line[2:], ",") {
				if flag = strings.TrimSpace(flag); flag != "" {
					cur.Flags = append(cur.Flags, flag)
				}
			}
		case strings.HasPrefix(line, "#"):
			// translator, extracted, reference and previous-msgid comments
		case strings.HasPrefix(line, "msgctxt "):
			cur.MsgCtxt, last = unquote(line[len("msgctxt "):]), fieldCtxt
		case strings.HasPrefix(line, "msgid_plural "):
			cur.MsgIDPlural, last = unquote(line[len("msgid_plural "):]), fieldIDPlural
		case strings.HasPrefix(line, "msgid "):
			cur.MsgID, last = unquote(line[len("msgid "):]), fieldID
		case strings.HasPrefix(line, "msgstr["):
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			if _, err := fmt.Sscanf(line[len("msgstr["):end], "%d", &pluralIdx); err != nil {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			cur.MsgStrPlural[pluralIdx], last = unquote(line[end+1:]), fieldStrPlural
		case strings.HasPrefix(line, "msgstr "):
			cur.MsgStr, last = unquote(line[len("msgstr "):]), fieldStr
		case strings.HasPrefix(line, `"`):
			val := unquote(line)
			switch last {
			case fieldCtxt:
				cur.MsgCtxt += val
			case fieldID:
				cur.MsgID += val
			case fieldIDPlural:
				cur.MsgIDPlural += val
			case fieldStr:
				cur.MsgStr += val
			case fieldStrPlural:
				cur.MsgStrPlural[pluralIdx] += val
			}
		default:
			return nil, fmt.Errorf("line %d: unexpected content: %s", lineNum, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	return f, nil
}

// ParseFile reads a catalog from disk.
func ParseFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	f, err := Parse(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// unquote removes PO-style quoting from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
