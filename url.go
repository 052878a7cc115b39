package flickr_search

import (
	"errors"
	"fmt"
	"strings"
)

// Size suffixes understood by the static image hosts.
const (
	SizeLargeSquare = "q"
	SizeLarge       = "b"
)

var ErrIncompletePhoto = errors.New("photo is missing id, server, farm or secret")

// Image is the addressable form of a search hit.
type Image struct {
	ID        string
	URLMedium string
	URLLarge  string
}

// ImageURL builds the farm-hosted URL of the photo for the given size suffix
// and file extension.
func (p Photo) ImageURL(size, ext string) (string, error) {
	if p.FarmID == nil {
		return "", fmt.Errorf("%w: %s", ErrIncompletePhoto, p)
	}
	return p.imageURL(fmt.Sprintf("https://farm%s.staticflickr.com", *p.FarmID), size, ext)
}

func (p Photo) imageURL(base, size, ext string) (string, error) {
	if p.ID == nil || p.ServerID == nil || p.Secret == nil {
		return "", fmt.Errorf("%w: %s", ErrIncompletePhoto, p)
	}
	return fmt.Sprintf("%s/%s/%s_%s_%s.%s", strings.TrimRight(base, "/"), *p.ServerID, *p.ID, *p.Secret, size, ext), nil
}

// ImageURL resolves against StaticEndpoint when one is configured, and the
// photo's farm host otherwise.
func (c *Client) ImageURL(p Photo, size, ext string) (string, error) {
	if c.StaticEndpoint == "" {
		return p.ImageURL(size, ext)
	}
	return p.imageURL(c.StaticEndpoint, size, ext)
}

func (c *Client) image(p Photo) (Image, error) {
	medium, err := c.ImageURL(p, SizeLargeSquare, "png")
	if err != nil {
		return Image{}, err
	}
	large, err := c.ImageURL(p, SizeLarge, "png")
	if err != nil {
		return Image{}, err
	}
	return Image{ID: *p.ID, URLMedium: medium, URLLarge: large}, nil
}
