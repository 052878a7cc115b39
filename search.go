package flickr_search

import (
	"context"
	"errors"
	"net"

	"go.uber.org/zap"
)

type ResultCode int

const (
	ResultOK ResultCode = iota
	ResultGeneralError
	ResultNoNetwork
)

// ErrNoPhotos is reported when an ok response carries no <photos> element.
var ErrNoPhotos = errors.New("response has no photos element")

func (c ResultCode) String() string {
	switch c {
	case ResultOK:
		return "OK"
	case ResultGeneralError:
		return "GENERAL_ERROR"
	case ResultNoNetwork:
		return "NO_NETWORK"
	}
	return "UNKNOWN"
}

// SearchResult is one page of addressable images. Err carries the underlying
// failure when Code is not ResultOK.
type SearchResult struct {
	Code     ResultCode
	Images   []Image
	NextPage int
	Err      error
}

// SearchImages runs a search and converts the hits into image URLs. It never
// returns an error directly: failures are folded into the result code.
func (c *Client) SearchImages(ctx context.Context, text string, page, perPage int) SearchResult {
	rsp, err := c.Search(ctx, text, page, perPage)
	if err != nil {
		c.logger().Warn("search failed", zap.String("text", text), zap.Int("page", page), zap.Error(err))
		if isNoNetwork(err) {
			return SearchResult{Code: ResultNoNetwork, Err: err}
		}
		return SearchResult{Code: ResultGeneralError, Err: err}
	}
	if !rsp.OK() {
		err := &APIError{Method: "flickr.photos.search", Stat: stringOf(rsp.Stat)}
		c.logger().Warn("search rejected", zap.String("text", text), zap.Error(err))
		return SearchResult{Code: ResultGeneralError, Err: err}
	}

	if rsp.PhotoList == nil {
		c.logger().Warn("search returned no photos element", zap.String("text", text))
		return SearchResult{Code: ResultGeneralError, Err: ErrNoPhotos}
	}
	photos := rsp.Photos()
	images := make([]Image, 0, len(photos))
	for _, p := range photos {
		img, err := c.image(p)
		if errors.Is(err, ErrIncompletePhoto) {
			c.logger().Debug("skipping photo", zap.Stringer("photo", p))
			continue
		}
		if err != nil {
			return SearchResult{Code: ResultGeneralError, Err: err}
		}
		images = append(images, img)
	}
	return SearchResult{Code: ResultOK, Images: images, NextPage: page + 1}
}

// isNoNetwork reports failures to reach the endpoint at all: name resolution
// or connection setup. Timeouts and HTTP errors do not count.
func isNoNetwork(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial" && !opErr.Timeout()
}
