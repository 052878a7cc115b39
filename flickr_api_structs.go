package flickr_search

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Rsp is the envelope of a flickr.photos.search response. The root element
// name is not checked.
type Rsp struct {
	Stat      *string    `xml:"stat,attr"`
	PhotoList *PhotoList `xml:"photos"`
}

// PhotoList holds the photo elements nested under <photos>, in document order.
// The paging attributes are kept as text so a malformed value never fails
// decoding.
type PhotoList struct {
	Page   string  `xml:"page,attr"`
	Pages  string  `xml:"pages,attr"`
	Total  string  `xml:"total,attr"`
	Photos []Photo `xml:"photo"`
}

// Photo is one <photo> entry. Absent attributes stay nil.
type Photo struct {
	ID       *string `xml:"id,attr"`
	FarmID   *string `xml:"farm,attr"`
	ServerID *string `xml:"server,attr"`
	Secret   *string `xml:"secret,attr"`
}

// InfoRsp is the envelope of a flickr.photos.getInfo response.
type InfoRsp struct {
	Stat  *string    `xml:"stat,attr"`
	Photo *PhotoInfo `xml:"photo"`
}

type PhotoInfoOwner struct {
	ID       string `xml:"nsid,attr"`
	UserName string `xml:"username,attr"`
	RealName string `xml:"realname,attr"`
}

type PhotoInfo struct {
	ID           string         `xml:"id,attr"`
	DateUploaded int64          `xml:"dateuploaded,attr"`
	License      int            `xml:"license,attr"`
	Owner        PhotoInfoOwner `xml:"owner"`
	Title        string         `xml:"title"`
	Description  string         `xml:"description"`
	FlickrURL    string         `xml:"urls>url"`
}

// DecodeRsp reads a search response. Unknown elements and attributes are
// skipped; only malformed XML is an error.
func DecodeRsp(r io.Reader) (*Rsp, error) {
	var rsp Rsp
	if err := newDecoder(r).Decode(&rsp); err != nil {
		return nil, fmt.Errorf("decode rsp: %w", err)
	}
	return &rsp, nil
}

func DecodeInfoRsp(r io.Reader) (*InfoRsp, error) {
	var rsp InfoRsp
	if err := newDecoder(r).Decode(&rsp); err != nil {
		return nil, fmt.Errorf("decode info rsp: %w", err)
	}
	return &rsp, nil
}

// newDecoder accepts documents declaring any IANA encoding, not just UTF-8.
func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// TotalPages reports the pages attribute, if present and numeric.
func (l *PhotoList) TotalPages() (int, bool) {
	if l == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(l.Pages))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Photos returns the photo entries, or nil when the <photos> element was absent.
func (r *Rsp) Photos() []Photo {
	if r.PhotoList == nil {
		return nil
	}
	return r.PhotoList.Photos
}

// OK reports whether the API flagged the response as successful.
func (r *Rsp) OK() bool {
	return r.Stat != nil && *r.Stat == statOK
}

func (r *InfoRsp) OK() bool {
	return r.Stat != nil && *r.Stat == statOK
}

const statOK = "ok"

func (p Photo) String() string {
	return "Photo{id='" + orNull(p.ID) +
		"', farmId='" + orNull(p.FarmID) +
		"', serverId='" + orNull(p.ServerID) +
		"', secret='" + orNull(p.Secret) + "'}"
}

func (l *PhotoList) String() string {
	if l == nil {
		return "null"
	}
	parts := make([]string, len(l.Photos))
	for i, p := range l.Photos {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (r Rsp) String() string {
	return "Rsp{stat='" + orNull(r.Stat) + "', photoList=" + r.PhotoList.String() + "}"
}

func orNull(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}

func stringOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
