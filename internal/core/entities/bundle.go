package entities

import (
	"github.com/semio-ai/drydoc/internal/core/vfs"
)

// Bundle pairs a manifest of pages with the virtual filesystem of resources
// those pages reference. Bundles are what generators return and what the
// build driver merges bottom-up into the final site description.
type Bundle struct {
	Manifest  Manifest   `json:"manifest" msgpack:"manifest"`
	Resources vfs.Folder `json:"resources" msgpack:"resources"`
}

// NewBundle creates a bundle with the given manifest and empty resources.
func NewBundle(manifest Manifest) Bundle {
	return Bundle{
		Manifest:  manifest,
		Resources: vfs.FolderOf(vfs.NewVirtualFolder()),
	}
}

// Merge folds other into b: manifests merge left-biased and resource trees
// merge folder-wise.
func (b Bundle) Merge(other Bundle) (Bundle, error) {
	b.Manifest.Merge(other.Manifest)
	resources, err := b.Resources.Merge(other.Resources)
	if err != nil {
		return Bundle{}, err
	}
	b.Resources = resources
	return b, nil
}

// InsertEntry adds a file or folder at name within the resource root,
// materializing a lazy resource tree first.
func (b Bundle) InsertEntry(name string, entry vfs.Entry) (Bundle, error) {
	virt, err := b.Resources.ToVirtual()
	if err != nil {
		return Bundle{}, err
	}
	if err := virt.Insert(name, entry); err != nil {
		return Bundle{}, err
	}
	b.Resources = vfs.FolderOf(virt)
	return b, nil
}
