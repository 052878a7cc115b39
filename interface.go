package flickr_search

import "context"

type Input struct {
	Client         *Client
	Query          string
	OutputDir      string
	NumberOfImages int
	PerPage        int
	ForceReload    bool
	WithInfo       bool
}

type DownloadedFile struct {
	Path  string
	Photo Photo
	// Info is only set when Input.WithInfo was requested.
	Info *PhotoInfo
}

type Output struct {
	Files []DownloadedFile
}

func (i *Input) Execute(ctx context.Context) (*Output, error) {
	return i.execute(ctx)
}
