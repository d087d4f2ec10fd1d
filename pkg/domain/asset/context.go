// Package asset defines the value objects describing a generated image and the
// outcome of validating it.
package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies the kind of generated asset.
type Type string

const (
	TypeHeroCard Type = "herocard"
	TypeMascot   Type = "mascot"
	TypePoster   Type = "poster"
	TypeBanner   Type = "banner"
	TypeProfile  Type = "profile"
)

// Audience identifies who the asset is made for.
type Audience string

const (
	AudienceStudent   Audience = "student"
	AudienceParent    Audience = "parent"
	AudienceRecruiter Audience = "recruiter"
	AudiencePublic    Audience = "public"
)

var (
	ErrUnknownAssetType = errors.New("unknown asset type")
	ErrUnknownAudience  = errors.New("unknown target audience")
	ErrMissingSchool    = errors.New("school name is required")
	ErrMissingColors    = errors.New("primary and secondary school colors are required")
)

// AllTypes lists every supported asset type in display order.
func AllTypes() []Type {
	return []Type{TypeHeroCard, TypeMascot, TypePoster, TypeBanner, TypeProfile}
}

// ParseType normalizes user input ("hero-card", "Hero Card", "profile-image") to a Type.
func ParseType(raw string) (Type, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	switch normalized {
	case "herocard", "hero":
		return TypeHeroCard, nil
	case "mascot":
		return TypeMascot, nil
	case "poster":
		return TypePoster, nil
	case "banner":
		return TypeBanner, nil
	case "profile", "profileimage":
		return TypeProfile, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAssetType, raw)
}

// ParseAudience normalizes user input to an Audience.
func ParseAudience(raw string) (Audience, error) {
	a := Audience(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case AudienceStudent, AudienceParent, AudienceRecruiter, AudiencePublic:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAudience, raw)
}

// SchoolColors holds the brand palette. Values are hex codes or color names.
type SchoolColors struct {
	Primary   string `json:"primary" yaml:"primary" jsonschema:"description=Primary school color (hex or name)"`
	Secondary string `json:"secondary" yaml:"secondary" jsonschema:"description=Secondary school color (hex or name)"`
	Accent    string `json:"accent,omitempty" yaml:"accent,omitempty" jsonschema:"description=Optional accent color"`
}

// String renders the palette for prompts and messages.
func (c SchoolColors) String() string {
	s := fmt.Sprintf("%s and %s", c.Primary, c.Secondary)
	if c.Accent != "" {
		s += fmt.Sprintf(" (accent %s)", c.Accent)
	}
	return s
}

// Context describes what a generated image is supposed to depict.
type Context struct {
	AssetType      Type         `json:"asset_type" yaml:"asset_type"`
	SchoolName     string       `json:"school_name" yaml:"school_name"`
	SchoolColors   SchoolColors `json:"school_colors" yaml:"school_colors"`
	MascotType     string       `json:"mascot_type,omitempty" yaml:"mascot_type,omitempty"`
	IntendedUse    string       `json:"intended_use" yaml:"intended_use"`
	TargetAudience Audience     `json:"target_audience" yaml:"target_audience"`
}

// HasMascot reports whether the context names a mascot to check for.
func (c Context) HasMascot() bool {
	return strings.TrimSpace(c.MascotType) != ""
}

// Validate checks that the context is fully populated. Callers building contexts
// from user input should run it before validating an asset.
func (c Context) Validate() error {
	if _, err := ParseType(string(c.AssetType)); err != nil {
		return err
	}
	if _, err := ParseAudience(string(c.TargetAudience)); err != nil {
		return err
	}
	if strings.TrimSpace(c.SchoolName) == "" {
		return ErrMissingSchool
	}
	if strings.TrimSpace(c.SchoolColors.Primary) == "" || strings.TrimSpace(c.SchoolColors.Secondary) == "" {
		return ErrMissingColors
	}
	return nil
}
