package relocate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/minios-linux/relkit/cmake"
	"github.com/minios-linux/relkit/remote"
	"github.com/minios-linux/relkit/workspace"
)

// SourceDocsDir is the directory of the untranslated handbook under doc/.
const SourceDocsDir = "en_US"

// ErrNoSourceDocs means the untranslated handbook could not be fetched.
var ErrNoSourceDocs = errors.New("source documentation not found")

// Documentation fetches the untranslated handbook into doc/en_US, then
// moves every translated handbook found in the repository to doc/<lang>.
// doc/CMakeLists.txt lists every directory under doc/; when no translated
// handbook exists doc/ is removed, en_US included.
func (r *Relocator) Documentation(ctx context.Context, langs []string) (*Populated, error) {
	populated := NewPopulated()

	err := r.Root.Phase("documentation", func() error {
		docDir := r.Root.Path("doc")
		if err := os.MkdirAll(docDir, 0755); err != nil {
			return workspace.Wrap("mkdir", docDir, err)
		}

		source := r.Component.sourceDocsPath()
		enUS := r.Root.Path("doc", SourceDocsDir)
		if _, err := r.Fetcher.Checkout(ctx, source, enUS); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrNoSourceDocs, source, err)
		}
		if !workspace.IsDir(enUS) {
			return fmt.Errorf("%w: %s", ErrNoSourceDocs, source)
		}
		if err := cmake.Write(enUS, cmake.HandbookStanza(r.Component.Name)); err != nil {
			return err
		}

		p := r.progress()
		p.Start(len(langs), "preparing doc processing")
		defer p.Finish()

		for _, lang := range langs {
			p.Step(fmt.Sprintf("processing %s's %s documentation", lang, r.Component.Name))
			if !validCode(lang) {
				r.warn("skipping invalid language code %q", lang)
				continue
			}
			if err := r.handbook(ctx, lang, populated); err != nil {
				return err
			}
		}

		return r.aggregate("doc", populated, nil)
	})
	return populated, err
}

func (r *Relocator) handbook(ctx context.Context, lang string, populated *Populated) error {
	if err := r.checkout(ctx, r.Component.docsPath(lang)); err != nil {
		return err
	}

	staging := r.Root.Staging()
	if !workspace.IsDir(staging) {
		return nil
	}

	dest := r.Root.Path("doc", lang)
	if workspace.Exists(dest) {
		return workspace.Wrap("move", dest, fs.ErrExist)
	}

	r.info("Copying %s's %s documentation over...", lang, r.Component.Name)
	if err := remote.Move(staging, dest); err != nil {
		return workspace.Wrap("move", staging, err)
	}

	if err := cmake.Write(dest, cmake.HandbookStanza(r.Component.Name)); err != nil {
		return err
	}
	r.register(ctx, filepath.Join(dest, cmake.FileName))
	populated.Add(lang)
	return nil
}
