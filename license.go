package flickr_search

import (
	"fmt"
)

type license struct {
	name string
	link string
}

// Flickr license ids, as reported by flickr.photos.licenses.getInfo.
var licenses = map[int]license{
	0:  {"All Rights Reserved", ""},
	1:  {"Attribution-NonCommercial-ShareAlike License", "https://creativecommons.org/licenses/by-nc-sa/2.0/"},
	2:  {"Attribution-NonCommercial License", "https://creativecommons.org/licenses/by-nc/2.0/"},
	3:  {"Attribution-NonCommercial-NoDerivs License", "https://creativecommons.org/licenses/by-nc-nd/2.0/"},
	4:  {"Attribution License", "https://creativecommons.org/licenses/by/2.0/"},
	5:  {"Attribution-ShareAlike License", "https://creativecommons.org/licenses/by-sa/2.0/"},
	6:  {"Attribution-NoDerivs License", "https://creativecommons.org/licenses/by-nd/2.0/"},
	7:  {"No known copyright restrictions", "https://www.flickr.com/commons/usage/"},
	8:  {"United States Government Work", "http://www.usa.gov/copyright.shtml"},
	9:  {"Public Domain Dedication (CC0)", "https://creativecommons.org/publicdomain/zero/1.0/"},
	10: {"Public Domain Mark", "https://creativecommons.org/publicdomain/mark/1.0/"},
}

func (info *PhotoInfo) LicenseName() (string, error) {
	l, ok := licenses[info.License]
	if !ok {
		return "", fmt.Errorf("unknown license number: %d", info.License)
	}
	return l.name, nil
}

func (info *PhotoInfo) LicenseLink() (string, error) {
	l, ok := licenses[info.License]
	if !ok {
		return "", fmt.Errorf("unknown license number: %d", info.License)
	}
	return l.link, nil
}

// LicenseDescription renders "name (link)", or just the name when the
// license has no public link.
func (info *PhotoInfo) LicenseDescription() (string, error) {
	name, err := info.LicenseName()
	if err != nil {
		return "", err
	}
	link, _ := info.LicenseLink()
	if link == "" {
		return name, nil
	}
	return fmt.Sprintf("%s (%s)", name, link), nil
}
