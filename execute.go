package flickr_search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (input *Input) execute(ctx context.Context) (*Output, error) {
	o := &Output{}
	c := input.Client
	if c == nil {
		return o, errors.New("client must be provided")
	}
	q := input.Query
	if q == "" {
		return o, ErrEmptyQuery
	}
	n := input.NumberOfImages
	if n <= 0 {
		n = 1
	}
	od := input.OutputDir
	if od == "" {
		od = filepath.Join("flickr_search", q)
	}
	if err := os.MkdirAll(od, 0o777); err != nil {
		return o, fmt.Errorf("error creating output directory at %s: %w", od, err)
	}
	existing, err := filepath.Glob(filepath.Join(od, "*.jpg"))
	if err != nil {
		return o, fmt.Errorf("error reading cached images at %s: %w", od, err)
	}
	if len(existing) > 0 && !input.ForceReload {
		c.logger().Info("using cached images", zap.String("dir", od), zap.Int("count", len(existing)))
		for _, path := range existing {
			o.Files = append(o.Files, DownloadedFile{Path: path})
		}
		return o, nil
	}

	photos, err := input.collectPhotos(ctx, n)
	if err != nil {
		return o, fmt.Errorf("error calling flickr API with term %s: %w", q, err)
	}
	n = len(photos)
	files := make([]DownloadedFile, n)
	urls := make([]string, n)
	for i, photo := range photos {
		files[i] = DownloadedFile{
			Path:  filepath.Join(od, uuid.New().String()+".jpg"),
			Photo: photo,
		}
		if urls[i], err = c.ImageURL(photo, SizeLarge, "jpg"); err != nil {
			return o, err
		}
	}
	errChans := make([]chan error, 0, 2*n)
	for i := range files {
		errChans = append(errChans, c.downloadJpg(ctx, urls[i], partPath(files[i].Path)))
		if input.WithInfo {
			errChans = append(errChans, c.downloadInfo(ctx, &files[i]))
		}
	}
	var firstErr error
	for _, errChan := range errChans {
		if err := <-errChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		removeRun(files)
		return o, fmt.Errorf("error with secondary flickr calls (info/jpg download): %w", firstErr)
	}
	if input.WithInfo {
		for _, f := range files {
			if err := stampExif(partPath(f.Path), f.Info); err != nil {
				removeRun(files)
				return o, fmt.Errorf("error attributing file at %s: %w", f.Path, err)
			}
		}
	}
	// Only complete files get the .jpg name the cached-directory check looks for.
	for _, f := range files {
		if err := os.Rename(partPath(f.Path), f.Path); err != nil {
			removeRun(files)
			return o, fmt.Errorf("error finalizing %s: %w", f.Path, err)
		}
	}
	o.Files = files
	return o, nil
}

func partPath(path string) string {
	return path + ".part"
}

// removeRun deletes everything a failed run wrote, finished or not.
func removeRun(files []DownloadedFile) {
	for _, f := range files {
		_ = os.Remove(partPath(f.Path))
		_ = os.Remove(f.Path)
	}
}

// collectPhotos walks result pages until n addressable photos are found or
// the results run out. Photos are unique by id; a page that brings no new
// ids ends the walk, as Flickr repeats its last page past the end.
func (input *Input) collectPhotos(ctx context.Context, n int) ([]Photo, error) {
	c := input.Client
	perPage := input.PerPage
	if perPage <= 0 {
		// Rough page sizes scaled to the request.
		perPage = 1
		if n > 1 {
			perPage = 100
		}
		if n > 5 {
			perPage = 500
		}
	}
	result := make([]Photo, 0, n)
	seen := make(map[string]bool)
	for page := 1; ; page++ {
		rsp, err := c.Search(ctx, input.Query, page, perPage)
		if err != nil {
			return result, err
		}
		if !rsp.OK() {
			return result, &APIError{Method: "flickr.photos.search", Stat: stringOf(rsp.Stat)}
		}
		ps := rsp.Photos()
		fresh := 0
		for _, p := range ps {
			if p.ID == nil || seen[*p.ID] {
				continue
			}
			seen[*p.ID] = true
			fresh++
			if _, err := c.ImageURL(p, SizeLarge, "jpg"); err != nil {
				continue
			}
			result = append(result, p)
			if len(result) == n {
				return result, nil
			}
		}
		c.logger().Debug("search page",
			zap.Int("page", page),
			zap.Int("found", len(ps)),
			zap.Int("new", fresh),
			zap.Int("remaining", n-len(result)),
		)
		if fresh == 0 || len(ps) < perPage {
			return result, nil
		}
		if pages, ok := rsp.PhotoList.TotalPages(); ok && page >= pages {
			return result, nil
		}
	}
}

func (c *Client) downloadJpg(ctx context.Context, url, filePath string) chan error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- c.fetchToFile(ctx, url, filePath)
	}()
	return errChan
}

func (c *Client) fetchToFile(ctx context.Context, url, filePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: "download " + url, Code: resp.StatusCode}
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := io.Copy(file, resp.Body); err != nil {
		return err
	}
	return file.Close()
}

func (c *Client) downloadInfo(ctx context.Context, f *DownloadedFile) chan error {
	errChan := make(chan error, 1)
	go func() {
		info, err := c.GetInfo(ctx, stringOf(f.Photo.ID))
		if err != nil {
			errChan <- err
			return
		}
		f.Info = info
		errChan <- nil
	}()
	return errChan
}
