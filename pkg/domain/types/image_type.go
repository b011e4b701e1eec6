package types

import "fmt"

// ImageType tells the backend which classifier to run on an uploaded image
type ImageType string

const (
	ImageTypeSkin           ImageType = "skin"
	ImageTypeRash           ImageType = "rash"
	ImageTypeWound          ImageType = "wound"
	ImageTypeDermatological ImageType = "dermatological"
)

// DefaultImageType is preselected in the image analysis view
const DefaultImageType = ImageTypeSkin

// AllImageTypes returns all valid image types
func AllImageTypes() []ImageType {
	return []ImageType{
		ImageTypeSkin,
		ImageTypeRash,
		ImageTypeWound,
		ImageTypeDermatological,
	}
}

// IsValid checks if the image type is valid
func (t ImageType) IsValid() bool {
	switch t {
	case ImageTypeSkin,
		ImageTypeRash,
		ImageTypeWound,
		ImageTypeDermatological:
		return true
	default:
		return false
	}
}

// Label returns the human readable label
func (t ImageType) Label() string {
	switch t {
	case ImageTypeSkin:
		return "Skin Condition"
	case ImageTypeRash:
		return "Rash"
	case ImageTypeWound:
		return "Wound"
	case ImageTypeDermatological:
		return "Dermatological"
	default:
		return string(t)
	}
}

// String returns the string representation of the image type
func (t ImageType) String() string {
	return string(t)
}

// ParseImageType parses a string into an ImageType
func ParseImageType(s string) (ImageType, error) {
	t := ImageType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid image type: %s", s)
	}
	return t, nil
}
