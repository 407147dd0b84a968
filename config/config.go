package config

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Project is what can be learned from an unpacked source tree without any
// configuration.
type Project struct {
	// Name from the top-level project() call, else the directory name.
	Name string
	// Version from a "<name>-<version>" directory name.
	Version string
	// Translations are the languages under po/ holding <Name>.po.
	Translations []string
	// Handbooks are the languages under doc/ other than en_US.
	Handbooks []string
	// HasSourceDocs is true when doc/en_US exists.
	HasSourceDocs bool
}

var (
	projectRe = regexp.MustCompile(`(?i)^\s*project\s*\(\s*([A-Za-z0-9_.+-]+)`)
	dirNameRe = regexp.MustCompile(`^(.+?)-(\d[0-9A-Za-z.+~-]*)$`)
)

// Detect inspects rootDir.
func Detect(rootDir string) *Project {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	p := &Project{}
	base := filepath.Base(absRoot)
	if m := dirNameRe.FindStringSubmatch(base); m != nil {
		p.Name = m[1]
		p.Version = m[2]
	}

	// project() wins over the directory name
	if name, err := parseProjectName(filepath.Join(absRoot, "CMakeLists.txt")); err == nil {
		p.Name = name
	}
	if p.Name == "" {
		p.Name = base
	}

	p.Translations = detectTranslations(filepath.Join(absRoot, "po"), p.Name)
	p.Handbooks, p.HasSourceDocs = detectHandbooks(filepath.Join(absRoot, "doc"))
	return p
}

func parseProjectName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := projectRe.FindStringSubmatch(scanner.Text()); m != nil {
			return strings.ToLower(m[1]), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", os.ErrNotExist
}

// detectTranslations finds languages from the nested po/<lang>/<name>.po layout.
func detectTranslations(poDir, name string) []string {
	entries, err := os.ReadDir(poDir)
	if err != nil {
		return nil
	}

	var langs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		lang := entry.Name()
		if _, err := os.Stat(filepath.Join(poDir, lang, name+".po")); err == nil {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

func detectHandbooks(docDir string) (langs []string, source bool) {
	entries, err := os.ReadDir(docDir)
	if err != nil {
		return nil, false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if entry.Name() == "en_US" {
			source = true
			continue
		}
		langs = append(langs, entry.Name())
	}
	sort.Strings(langs)
	return langs, source
}

// Merge fills unset fields of rf from what Detect found.
func (rf *ReleaseFile) Merge(p *Project) {
	if p == nil {
		return
	}
	if rf.Name == "" {
		rf.Name = p.Name
	}
	if rf.Version == "" {
		rf.Version = p.Version
	}
	if rf.Product == "" {
		rf.Product = rf.Name
	}
}
