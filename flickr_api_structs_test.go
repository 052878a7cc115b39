package flickr_search

import (
	"strings"
	"testing"
)

func decodeString(t *testing.T, doc string) *Rsp {
	t.Helper()
	rsp, err := DecodeRsp(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rsp
}

func TestDecodeRspKeepsAttributeValuesVerbatim(t *testing.T) {
	rsp := decodeString(t, `<rsp stat=" ok "><photos>`+
		`<photo id="5280" farm="6" server="4512" secret="a b&amp;c"/>`+
		`<photo id="" farm="" server="" secret=""/>`+
		`</photos></rsp>`)

	if rsp.Stat == nil || *rsp.Stat != " ok " {
		t.Fatalf("unexpected stat: %v", rsp.Stat)
	}
	photos := rsp.Photos()
	if len(photos) != 2 {
		t.Fatalf("unexpected photo count: %d", len(photos))
	}
	first := photos[0]
	if *first.ID != "5280" || *first.FarmID != "6" || *first.ServerID != "4512" || *first.Secret != "a b&c" {
		t.Fatalf("unexpected first photo: %s", first)
	}
	second := photos[1]
	if second.ID == nil || *second.ID != "" || second.Secret == nil || *second.Secret != "" {
		t.Fatalf("empty attributes should decode as set empty strings: %s", second)
	}
}

func TestDecodeRspPreservesDocumentOrder(t *testing.T) {
	rsp := decodeString(t, `<rsp stat="ok"><photos>
		<photo id="3"/><photo id="1"/><photo id="2"/>
	</photos></rsp>`)

	var ids []string
	for _, p := range rsp.Photos() {
		ids = append(ids, *p.ID)
	}
	if strings.Join(ids, ",") != "3,1,2" {
		t.Fatalf("unexpected order: %v", ids)
	}
}

func TestDecodeRspWithoutPhotosElement(t *testing.T) {
	rsp := decodeString(t, `<rsp stat="fail"><err code="100" msg="Invalid API Key"/></rsp>`)

	if rsp.PhotoList != nil {
		t.Fatalf("photo list should be absent, got %s", rsp.PhotoList)
	}
	if rsp.Photos() != nil {
		t.Fatalf("Photos() should be nil without a photos element")
	}
	if rsp.Stat == nil || *rsp.Stat != "fail" {
		t.Fatalf("unexpected stat: %v", rsp.Stat)
	}
	if rsp.OK() {
		t.Fatalf("fail stat must not be OK")
	}
}

func TestDecodeRspWithoutStat(t *testing.T) {
	rsp := decodeString(t, `<rsp/>`)

	if rsp.Stat != nil {
		t.Fatalf("stat should be unset, got %q", *rsp.Stat)
	}
	if rsp.OK() {
		t.Fatalf("missing stat must not be OK")
	}
}

func TestDecodeRspEmptyPhotosElement(t *testing.T) {
	rsp := decodeString(t, `<rsp stat="ok"><photos page="1" pages="0" total="0"></photos></rsp>`)

	if rsp.PhotoList == nil {
		t.Fatalf("photo list should be present")
	}
	if len(rsp.PhotoList.Photos) != 0 {
		t.Fatalf("photo list should be empty, got %d", len(rsp.PhotoList.Photos))
	}
	if got := rsp.String(); got != "Rsp{stat='ok', photoList=[]}" {
		t.Fatalf("unexpected rendering: %s", got)
	}
}

func TestDecodeRspMissingSecret(t *testing.T) {
	rsp := decodeString(t, `<rsp stat="ok"><photos><photo id="1" farm="2" server="3"/></photos></rsp>`)

	p := rsp.Photos()[0]
	if p.Secret != nil {
		t.Fatalf("secret should be unset, got %q", *p.Secret)
	}
	if *p.ID != "1" || *p.FarmID != "2" || *p.ServerID != "3" {
		t.Fatalf("unexpected photo: %s", p)
	}
	if got := p.String(); got != "Photo{id='1', farmId='2', serverId='3', secret='null'}" {
		t.Fatalf("unexpected rendering: %s", got)
	}
}

func TestRspString(t *testing.T) {
	rsp := decodeString(t, `<rsp stat="ok"><photos><photo id="1" farm="2" server="3" secret="abc"/></photos></rsp>`)

	want := "Rsp{stat='ok', photoList=[Photo{id='1', farmId='2', serverId='3', secret='abc'}]}"
	if got := rsp.String(); got != want {
		t.Fatalf("unexpected rendering:\n got %s\nwant %s", got, want)
	}
}

func TestRspStringAbsentFields(t *testing.T) {
	if got := (Rsp{}).String(); got != "Rsp{stat='null', photoList=null}" {
		t.Fatalf("unexpected rendering: %s", got)
	}
	two := Rsp{PhotoList: &PhotoList{Photos: []Photo{{}, {}}}}
	want := "Rsp{stat='null', photoList=[" +
		"Photo{id='null', farmId='null', serverId='null', secret='null'}, " +
		"Photo{id='null', farmId='null', serverId='null', secret='null'}]}"
	if got := two.String(); got != want {
		t.Fatalf("unexpected rendering: %s", got)
	}
}

func TestDecodeRspIgnoresUnknownContent(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8" ?>
<rsp stat="ok" version="2">
	<meta><generator name="x"/></meta>
	<photos page="1" pages="10" perpage="100" total="1000">
		<photo id="1" owner="12@N01" secret="s" server="7" farm="8" title="t" ispublic="1">
			<description>nested</description>
		</photo>
		<video id="99"/>
	</photos>
	<trailer>text</trailer>
</rsp>`
	rsp := decodeString(t, doc)

	photos := rsp.Photos()
	if len(photos) != 1 {
		t.Fatalf("unexpected photo count: %d", len(photos))
	}
	if got := photos[0].String(); got != "Photo{id='1', farmId='8', serverId='7', secret='s'}" {
		t.Fatalf("unexpected photo: %s", got)
	}
}

func TestDecodeRspAcceptsAnyRootName(t *testing.T) {
	rsp := decodeString(t, `<response stat="ok"><photos><photo id="1"/></photos></response>`)

	if !rsp.OK() || len(rsp.Photos()) != 1 {
		t.Fatalf("unexpected rsp: %s", rsp)
	}
}

func TestDecodeRspRejectsMalformedXML(t *testing.T) {
	for _, doc := range []string{``, `<rsp stat="ok"><photos>`, `not xml at all`} {
		if _, err := DecodeRsp(strings.NewReader(doc)); err == nil {
			t.Fatalf("expected error for %q", doc)
		}
	}
}

func TestDecodeInfoRsp(t *testing.T) {
	doc := `<rsp stat="ok">
	<photo id="42" secret="s" server="1" farm="2" dateuploaded="1600000000" license="4">
		<owner nsid="12@N01" username="ann" realname="Ann Example" location=""/>
		<title>Sunset</title>
		<description>Over the bay</description>
		<urls><url type="photopage">https://www.flickr.com/photos/ann/42/</url></urls>
	</photo>
</rsp>`
	rsp, err := DecodeInfoRsp(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rsp.OK() || rsp.Photo == nil {
		t.Fatalf("unexpected rsp: %+v", rsp)
	}
	info := rsp.Photo
	if info.ID != "42" || info.License != 4 || info.DateUploaded != 1600000000 {
		t.Fatalf("unexpected attributes: %+v", info)
	}
	if info.Owner.RealName != "Ann Example" || info.Owner.UserName != "ann" || info.Owner.ID != "12@N01" {
		t.Fatalf("unexpected owner: %+v", info.Owner)
	}
	if info.Title != "Sunset" || info.Description != "Over the bay" {
		t.Fatalf("unexpected text: %+v", info)
	}
	if info.FlickrURL != "https://www.flickr.com/photos/ann/42/" {
		t.Fatalf("unexpected url: %s", info.FlickrURL)
	}
}

func TestDecodeRspDeclaredEncoding(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<rsp stat=\"ok\"><photos><photo id=\"1\" secret=\"caf\xe9\"/></photos></rsp>"
	rsp := decodeString(t, doc)

	if got := *rsp.Photos()[0].Secret; got != "café" {
		t.Fatalf("unexpected secret: %q", got)
	}
}

func TestPhotoListTotalPages(t *testing.T) {
	rsp := decodeString(t, `<rsp stat="ok"><photos page="1" pages="12" total="1200"/></rsp>`)
	if n, ok := rsp.PhotoList.TotalPages(); !ok || n != 12 {
		t.Fatalf("unexpected pages: %d %v", n, ok)
	}

	rsp = decodeString(t, `<rsp stat="ok"><photos pages="many"/></rsp>`)
	if _, ok := rsp.PhotoList.TotalPages(); ok {
		t.Fatalf("non-numeric pages should be unknown")
	}
	if got := rsp.String(); got != "Rsp{stat='ok', photoList=[]}" {
		t.Fatalf("unexpected rendering: %s", got)
	}

	var missing *PhotoList
	if _, ok := missing.TotalPages(); ok {
		t.Fatalf("absent list should have no pages")
	}
}
