package flickr_search

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dsoprea/go-exif/v2"
	exifcommon "github.com/dsoprea/go-exif/v2/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure"
	log "github.com/dsoprea/go-logging"
)

// stampExif writes the photo's attribution into the IFD0 block of the JPEG at
// jpegPath, rewriting the file in place.
func stampExif(jpegPath string, info *PhotoInfo) error {
	if info == nil {
		return errors.New("no photo info to stamp")
	}
	copyright, err := info.LicenseDescription()
	if err != nil {
		return err
	}
	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseFile(jpegPath)
	if err != nil {
		return fmt.Errorf("parse %s: %w", jpegPath, err)
	}
	sl := intfc.(*jpegstructure.SegmentList)
	rootIb, err := rootExifBuilder(sl)
	if err != nil {
		return err
	}
	ifd0Ib, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD0")
	if err != nil {
		return err
	}
	artist := fmt.Sprintf("%s (on flickr @%s)", info.Owner.RealName, info.Owner.UserName)
	if err := ifd0Ib.SetStandardWithName("Artist", artist); err != nil {
		return err
	}
	if err := ifd0Ib.SetStandardWithName("Copyright", copyright); err != nil {
		return err
	}
	description := fmt.Sprintf("%s\n%s\n%s", info.Title, info.Description, info.FlickrURL)
	if err := ifd0Ib.SetStandardWithName("ImageDescription", description); err != nil {
		return err
	}
	// Upload time, not download time, so re-downloads produce identical bytes.
	dateTime := exif.ExifFullTimestampString(time.Unix(info.DateUploaded, 0))
	if err := ifd0Ib.SetStandardWithName("DateTime", dateTime); err != nil {
		return err
	}
	if err := sl.SetExif(rootIb); err != nil {
		return err
	}
	b := new(bytes.Buffer)
	if err := sl.Write(b); err != nil {
		return err
	}
	return os.WriteFile(jpegPath, b.Bytes(), 0o666)
}

// rootExifBuilder returns a builder over the file's existing EXIF, or an
// empty standard one when the file carries none (typical for resized
// derivatives).
func rootExifBuilder(sl *jpegstructure.SegmentList) (*exif.IfdBuilder, error) {
	rootIb, err := sl.ConstructExifBuilder()
	if err == nil {
		return rootIb, nil
	}
	if !errors.Is(err, exif.ErrNoExif) && !log.Is(err, exif.ErrNoExif) {
		return nil, err
	}
	im := exif.NewIfdMapping()
	if err := exif.LoadStandardIfds(im); err != nil {
		return nil, err
	}
	ti := exif.NewTagIndex()
	return exif.NewIfdBuilder(im, ti, exifcommon.IfdPathStandard, exifcommon.EncodeDefaultByteOrder), nil
}
