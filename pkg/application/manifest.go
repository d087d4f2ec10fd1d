package application

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// DefaultImagePattern matches the image files batch and watch pick up by default.
const DefaultImagePattern = "**/*.{png,jpg,jpeg,webp,gif}"

// Manifest lists a batch of images. Entry contexts override Defaults field by field.
type Manifest struct {
	Defaults asset.Context   `yaml:"defaults"`
	Assets   []ManifestEntry `yaml:"assets"`
}

// ManifestEntry is one image in a manifest.
type ManifestEntry struct {
	Image   string        `yaml:"image"`
	Context asset.Context `yaml:"context"`
}

// LoadManifest reads a YAML manifest. Relative local image paths resolve against the
// manifest's directory.
func LoadManifest(path string) ([]BatchItem, error) {
	// #nosec G304 -- the caller names the manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Assets) == 0 {
		return nil, fmt.Errorf("manifest %s lists no assets", path)
	}

	base := filepath.Dir(path)
	items := make([]BatchItem, 0, len(m.Assets))
	for i, entry := range m.Assets {
		if strings.TrimSpace(entry.Image) == "" {
			return nil, fmt.Errorf("manifest entry %d: image is required", i+1)
		}
		img := asset.NewImage(entry.Image)
		if img.Kind() == asset.ImageFile && !filepath.IsAbs(img.Ref) {
			img = asset.NewImage(filepath.Join(base, img.Ref))
		}

		c := MergeContext(m.Defaults, entry.Context)
		if c.TargetAudience == "" {
			c.TargetAudience = asset.AudiencePublic
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("manifest entry %d (%s): %w", i+1, entry.Image, err)
		}
		items = append(items, BatchItem{Image: img, Context: c})
	}
	return items, nil
}

// MergeContext fills blank fields of override from base.
func MergeContext(base, override asset.Context) asset.Context {
	out := base
	if override.AssetType != "" {
		out.AssetType = override.AssetType
	}
	if override.SchoolName != "" {
		out.SchoolName = override.SchoolName
	}
	if override.SchoolColors.Primary != "" {
		out.SchoolColors.Primary = override.SchoolColors.Primary
	}
	if override.SchoolColors.Secondary != "" {
		out.SchoolColors.Secondary = override.SchoolColors.Secondary
	}
	if override.SchoolColors.Accent != "" {
		out.SchoolColors.Accent = override.SchoolColors.Accent
	}
	if override.MascotType != "" {
		out.MascotType = override.MascotType
	}
	if override.IntendedUse != "" {
		out.IntendedUse = override.IntendedUse
	}
	if override.TargetAudience != "" {
		out.TargetAudience = override.TargetAudience
	}
	return out
}

// ExpandGlob pairs every file under dir matching pattern with the shared context.
// Results are sorted so batches are reproducible.
func ExpandGlob(dir, pattern string, c asset.Context) ([]BatchItem, error) {
	if pattern == "" {
		pattern = DefaultImagePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no images match %s in %s", pattern, dir)
	}
	sort.Strings(matches)

	items := make([]BatchItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, BatchItem{
			Image:   asset.NewImage(filepath.Join(dir, filepath.FromSlash(m))),
			Context: c,
		})
	}
	return items, nil
}
