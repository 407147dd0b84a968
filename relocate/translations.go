package relocate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/minios-linux/relkit/cmake"
	"github.com/minios-linux/relkit/remote"
	"github.com/minios-linux/relkit/workspace"
)

// svnMeta is the working-copy metadata directory kept next to each .po so
// the language directory stays a checkout.
const svnMeta = ".svn"

// Translations fills po/<lang>/ for every language whose catalog exists in
// the repository, then writes po/CMakeLists.txt and enables po in the root
// descriptor. When no language has a catalog, po/ is removed.
func (r *Relocator) Translations(ctx context.Context, langs []string) (*Populated, error) {
	populated := NewPopulated()

	err := r.Root.Phase("translations", func() error {
		poDir := r.Root.Path("po")
		if err := os.Mkdir(poDir, 0755); err != nil {
			return workspace.Wrap("mkdir", poDir, err)
		}

		p := r.progress()
		p.Start(len(langs), "preparing l10n processing")
		defer p.Finish()

		for _, lang := range langs {
			p.Step("processing po/" + lang)
			if !validCode(lang) {
				r.warn("skipping invalid language code %q", lang)
				continue
			}
			if err := r.translation(ctx, lang, populated); err != nil {
				return err
			}
		}

		return r.aggregate("po", populated, cmake.GettextGuard)
	})
	return populated, err
}

func (r *Relocator) translation(ctx context.Context, lang string, populated *Populated) error {
	if err := r.checkout(ctx, r.Component.messagesPath(lang)); err != nil {
		return err
	}

	poName := r.Component.Name + ".po"
	staged := filepath.Join(r.Root.Staging(), poName)
	if !workspace.IsFile(staged) {
		return nil
	}

	dest := r.Root.Path("po", lang)
	if err := os.Mkdir(dest, 0755); err != nil {
		return workspace.Wrap("mkdir", dest, err)
	}

	r.info("Copying %s's %s over ...", lang, poName)
	if err := remote.Move(staged, filepath.Join(dest, poName)); err != nil {
		return workspace.Wrap("move", staged, err)
	}
	meta := filepath.Join(r.Root.Staging(), svnMeta)
	if workspace.IsDir(meta) {
		if err := remote.Move(meta, filepath.Join(dest, svnMeta)); err != nil {
			return workspace.Wrap("move", meta, err)
		}
	}

	if err := cmake.Write(dest, cmake.TranslationStanza); err != nil {
		return err
	}
	r.register(ctx, filepath.Join(dest, cmake.FileName))
	populated.Add(lang)
	return nil
}
