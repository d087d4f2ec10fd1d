package application

import (
	"fmt"
	"strings"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// AssetRequest is the loosely typed form of an image and its context, as received from
// the CLI, the HTTP API and MCP clients.
type AssetRequest struct {
	Image          string             `json:"image" yaml:"image" jsonschema:"required,description=Image URL, data URI or local path"`
	AssetType      string             `json:"asset_type" yaml:"asset_type" jsonschema:"required,description=herocard, mascot, poster, banner or profile"`
	SchoolName     string             `json:"school_name" yaml:"school_name" jsonschema:"required,description=School the asset is branded for"`
	SchoolColors   asset.SchoolColors `json:"school_colors" yaml:"school_colors" jsonschema:"required,description=School brand palette"`
	MascotType     string             `json:"mascot_type,omitempty" yaml:"mascot_type,omitempty" jsonschema:"description=Mascot the image should depict, e.g. eagle"`
	IntendedUse    string             `json:"intended_use,omitempty" yaml:"intended_use,omitempty" jsonschema:"description=Where the asset will be used"`
	TargetAudience string             `json:"target_audience,omitempty" yaml:"target_audience,omitempty" jsonschema:"description=student, parent, recruiter or public (default public)"`
}

// Resolve parses the request into an image and a validated context.
func (r AssetRequest) Resolve() (asset.Image, asset.Context, error) {
	image := asset.NewImage(r.Image)
	if image.Ref == "" {
		return image, asset.Context{}, asset.ErrEmptyImage
	}
	c, err := r.Context()
	if err != nil {
		return image, asset.Context{}, err
	}
	return image, c, nil
}

// Context parses and validates the request's context fields alone. Batch directory
// runs share one context across many images.
func (r AssetRequest) Context() (asset.Context, error) {
	assetType, err := asset.ParseType(r.AssetType)
	if err != nil {
		return asset.Context{}, err
	}
	audience := asset.AudiencePublic
	if strings.TrimSpace(r.TargetAudience) != "" {
		if audience, err = asset.ParseAudience(r.TargetAudience); err != nil {
			return asset.Context{}, err
		}
	}

	c := asset.Context{
		AssetType:      assetType,
		SchoolName:     strings.TrimSpace(r.SchoolName),
		SchoolColors:   r.SchoolColors,
		MascotType:     strings.TrimSpace(r.MascotType),
		IntendedUse:    strings.TrimSpace(r.IntendedUse),
		TargetAudience: audience,
	}
	if c.IntendedUse == "" {
		c.IntendedUse = fmt.Sprintf("%s %s", c.SchoolName, assetType)
	}
	if err := c.Validate(); err != nil {
		return asset.Context{}, err
	}
	return c, nil
}

// BatchItems resolves every request, reporting the first invalid one by index.
func BatchItems(reqs []AssetRequest) ([]BatchItem, error) {
	items := make([]BatchItem, 0, len(reqs))
	for i, r := range reqs {
		image, c, err := r.Resolve()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, BatchItem{Image: image, Context: c})
	}
	return items, nil
}

// Validate checks a hero card request.
func (r HeroCardRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("athlete name is required")
	}
	if strings.TrimSpace(r.School) == "" {
		return asset.ErrMissingSchool
	}
	if r.SchoolColors.Primary == "" || r.SchoolColors.Secondary == "" {
		return asset.ErrMissingColors
	}
	return nil
}

// Validate checks a mascot request.
func (r MascotRequest) Validate() error {
	if strings.TrimSpace(r.SchoolName) == "" {
		return asset.ErrMissingSchool
	}
	if strings.TrimSpace(r.MascotType) == "" {
		return fmt.Errorf("mascot type is required")
	}
	if r.SchoolColors.Primary == "" || r.SchoolColors.Secondary == "" {
		return asset.ErrMissingColors
	}
	return nil
}
