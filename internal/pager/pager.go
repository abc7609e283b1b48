// Package pager owns the database file and an in-memory, write-back cache
// of raw page blocks keyed by page number. It does not cache decoded nodes:
// callers decode a page's bytes each time they load it. It is the only component that
// talks to the filesystem; every other package addresses a node by page
// number and goes through the pager to reach it.
package pager

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const pagerOpenFlags = os.O_RDWR | os.O_CREATE

const (
	// PageSize is the fixed width, in bytes, of every page in the file.
	PageSize = 4096
	// MaxPages bounds both the in-memory cache and the file: no more than
	// this many pages may ever be allocated.
	MaxPages = 100
)

// ErrPagerFull is returned by AllocatePage once NumPages reaches MaxPages.
var ErrPagerFull = errors.New("pager: table full")

// ErrCorruptFile is returned by Open when the file length is not a whole
// multiple of PageSize.
var ErrCorruptFile = errors.New("pager: file length is not a multiple of page size")

// Page is one cached, loaded-on-demand block of the database file. Nodes
// built on top of the pager work directly with Data; the pager itself
// never interprets page contents.
type Page struct {
	Data  [PageSize]byte
	dirty bool
}

// Pager is the sole owner of the database file handle and of every cached
// page. Callers never open the file themselves.
type Pager struct {
	fs       afero.Fs
	file     afero.File
	path     string
	pages    []*Page
	numPages int
	log      *zap.SugaredLogger
}

// Open creates-or-opens path for read+write access through fs and derives
// NumPages from the file length. A zero-length file is not an error; it
// simply starts with no pages. Open fails if the file length is not a
// whole multiple of PageSize, which indicates a corrupt database file.
func Open(fs afero.Fs, path string, log *zap.SugaredLogger) (*Pager, error) {
	f, err := fs.OpenFile(path, pagerOpenFlags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("pager: stat %s: %w", path, err)
	}
	size := info.Size()
	if size%PageSize != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrCorruptFile, path, size)
	}
	numPages := int(size / PageSize)
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log.Debugw("pager opened", "path", path, "num_pages", numPages)
	return &Pager{
		fs:       fs,
		file:     f,
		path:     path,
		pages:    make([]*Page, numPages, MaxPages),
		numPages: numPages,
		log:      log,
	}, nil
}

// NumPages reports how many pages have been allocated so far.
func (p *Pager) NumPages() int { return p.numPages }

// AllocatePage appends a fresh, zeroed page and returns its page number.
// The caller is expected to fill Data and let a later Flush/Close write it
// back; the slot is marked dirty immediately.
func (p *Pager) AllocatePage() (uint32, error) {
	if p.numPages >= MaxPages {
		return 0, ErrPagerFull
	}
	pg := &Page{dirty: true}
	p.pages = append(p.pages, pg)
	pageNum := uint32(p.numPages)
	p.numPages++
	return pageNum, nil
}

// Get returns the cached page, loading it from disk on a cache miss.
func (p *Pager) Get(pageNum uint32) (*Page, error) {
	if int(pageNum) >= p.numPages {
		return nil, fmt.Errorf("pager: page %d beyond end of file (%d pages)", pageNum, p.numPages)
	}
	if p.pages[pageNum] != nil {
		return p.pages[pageNum], nil
	}
	pg, err := p.loadFromDisk(pageNum)
	if err != nil {
		return nil, err
	}
	p.pages[pageNum] = pg
	return pg, nil
}

// GetMut returns the cached page for mutation and marks it dirty. Callers
// must not hold onto the returned pointer across a call that might reload
// or replace another page's slot; addressing other pages is always done
// by page number, never by retained pointer, so this never happens in
// practice.
func (p *Pager) GetMut(pageNum uint32) (*Page, error) {
	pg, err := p.Get(pageNum)
	if err != nil {
		return nil, err
	}
	pg.dirty = true
	return pg, nil
}

func (p *Pager) loadFromDisk(pageNum uint32) (*Page, error) {
	off := int64(pageNum) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("pager: seek page %d: %w", pageNum, err)
	}
	pg := &Page{}
	if _, err := io.ReadFull(p.file, pg.Data[:]); err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("pager: read page %d: %w", pageNum, err)
	}
	return pg, nil
}

// FlushAll writes every dirty cached page back to the file.
func (p *Pager) FlushAll() error {
	flushed := 0
	for i, pg := range p.pages {
		if pg == nil || !pg.dirty {
			continue
		}
		if err := p.flushPage(uint32(i), pg); err != nil {
			return err
		}
		pg.dirty = false
		flushed++
	}
	p.log.Debugw("pager flushed", "pages_written", flushed)
	return nil
}

func (p *Pager) flushPage(pageNum uint32, pg *Page) error {
	off := int64(pageNum) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("pager: seek page %d: %w", pageNum, err)
	}
	if _, err := p.file.Write(pg.Data[:]); err != nil {
		return fmt.Errorf("pager: write page %d: %w", pageNum, err)
	}
	return nil
}

// Close flushes every dirty page and releases the file handle.
func (p *Pager) Close() error {
	if err := p.FlushAll(); err != nil {
		return err
	}
	return p.file.Close()
}
