package optimizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/projectdiscovery/gologger"
	"github.com/viant/afs/url"

	"github.com/FOUEN/feishin-optimize/internal/manifest"
)

// ErrNoSource is returned when the target directory does not exist.
var ErrNoSource = errors.New("source tree not found")

// checkSource verifies that root exists and warns when its package.json does
// not carry the expected project name. Only a missing root is fatal; the
// steps themselves report missing files.
func (o *Optimizer) checkSource(ctx context.Context, root string) error {
	ok, err := o.fs.Exists(ctx, root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSource, root)
	}

	expected := o.profile.Manifest.ExpectName
	if expected == "" {
		return nil
	}
	if name := o.projectName(ctx, root); name != expected {
		gologger.Warning().Msgf("%s does not look like a %s checkout (package name %q)", root, expected, name)
	}
	return nil
}

// projectName returns the package name declared in the tree's manifest, or
// "" if it cannot be read.
func (o *Optimizer) projectName(ctx context.Context, root string) string {
	data, err := o.fs.DownloadWithURL(ctx, url.Join(root, o.profile.Manifest.File))
	if err != nil {
		return ""
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return ""
	}
	return m.Name()
}
