package dataset

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"github.com/geogaslab/spectra/compress"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
	"github.com/geogaslab/spectra/internal/hash"
	"github.com/geogaslab/spectra/internal/options"
	"github.com/geogaslab/spectra/internal/pool"
	"github.com/geogaslab/spectra/section"
)

// Dataset is an open spectroscopy dataset store. It is not safe for
// concurrent use; the store file is locked against other processes for the
// lifetime of the Dataset.
type Dataset struct {
	path     string
	lockPath string
	f        *os.File
	header   section.FileHeader
	ctype    format.CompressionType
	codec    compress.Codec
	closed   bool

	tagOrder []string
	tagSet   map[string]struct{}

	elems map[format.ElementKind][]*record
	byID  map[uint64]*record
	seq   uint64
}

type storeConfig struct {
	bigEndian bool
	ctype     format.CompressionType
}

// StoreOption configures Create and Open.
type StoreOption = options.Option[*storeConfig]

// WithCompression selects the codec applied to record payloads committed
// through this Dataset. The default is zstd. Records already in the store
// keep the codec they were written with.
func WithCompression(ctype format.CompressionType) StoreOption {
	return options.New(func(c *storeConfig) error {
		if !ctype.Valid() {
			return fmt.Errorf("invalid compression type: %d", ctype)
		}
		c.ctype = ctype
		return nil
	})
}

// WithBigEndian creates the store with big-endian byte order. It only
// affects Create; Open takes the byte order from the file header.
func WithBigEndian() StoreOption {
	return options.NoError(func(c *storeConfig) { c.bigEndian = true })
}

func applyStoreOptions(opts []StoreOption) (*storeConfig, error) {
	cfg := &storeConfig{ctype: format.CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Create creates a new, empty dataset store at path, truncating any existing
// file, and returns it open for reading and writing. The store is locked
// until Close is called.
func Create(path string, opts ...StoreOption) (*Dataset, error) {
	cfg, err := applyStoreOptions(opts)
	if err != nil {
		return nil, err
	}
	codec, err := compress.CreateCodec(cfg.ctype, "record")
	if err != nil {
		return nil, err
	}

	lockPath, err := acquireLock(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		releaseLock(lockPath)
		return nil, fmt.Errorf("create store %s: %w", path, err)
	}

	header := section.NewFileHeader(time.Now().UTC(), cfg.bigEndian)
	if _, err := f.Write(header.Bytes()); err != nil {
		f.Close()
		releaseLock(lockPath)
		return nil, fmt.Errorf("write store header: %w", err)
	}

	return newDataset(path, lockPath, f, header, cfg.ctype, codec), nil
}

// Open opens an existing dataset store at path for reading and writing,
// loading every element into memory. Opening a path with no store returns
// an error wrapping errs.ErrStoreNotFound; a store already in use by
// another Dataset returns one wrapping errs.ErrStoreLocked.
func Open(path string, opts ...StoreOption) (*Dataset, error) {
	cfg, err := applyStoreOptions(opts)
	if err != nil {
		return nil, err
	}
	codec, err := compress.CreateCodec(cfg.ctype, "record")
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errs.ErrStoreNotFound, path)
	}

	lockPath, err := acquireLock(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		releaseLock(lockPath)
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	header, err := readFileHeader(f)
	if err != nil {
		f.Close()
		releaseLock(lockPath)
		return nil, err
	}

	d := newDataset(path, lockPath, f, header, cfg.ctype, codec)
	if err := d.load(); err != nil {
		f.Close()
		releaseLock(lockPath)
		return nil, err
	}
	return d, nil
}

func newDataset(path, lockPath string, f *os.File, header section.FileHeader, ctype format.CompressionType, codec compress.Codec) *Dataset {
	return &Dataset{
		path:     path,
		lockPath: lockPath,
		f:        f,
		header:   header,
		ctype:    ctype,
		codec:    codec,
		tagSet:   make(map[string]struct{}),
		elems:    make(map[format.ElementKind][]*record),
		byID:     make(map[uint64]*record),
	}
}

func readFileHeader(f *os.File) (section.FileHeader, error) {
	buf := make([]byte, section.FileHeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return section.FileHeader{}, errs.ErrInvalidHeaderSize
		}
		return section.FileHeader{}, fmt.Errorf("read store header: %w", err)
	}
	return section.ParseFileHeader(buf)
}

// load scans the frame sequence after the file header and rebuilds the
// in-memory element and tag state. The file offset is left at end of file,
// where subsequent commits append.
func (d *Dataset) load() error {
	engine := d.header.GetEndianEngine()
	hdrBuf := make([]byte, section.FrameHeaderSize)

	for {
		if _, err := io.ReadFull(d.f, hdrBuf); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return errs.ErrTruncatedStore
			}
			return fmt.Errorf("read frame header: %w", err)
		}

		var fh section.FrameHeader
		if err := fh.Parse(hdrBuf, engine); err != nil {
			return err
		}
		payload := make([]byte, fh.Length)
		if _, err := io.ReadFull(d.f, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return errs.ErrTruncatedStore
			}
			return fmt.Errorf("read frame payload: %w", err)
		}

		switch {
		case fh.IsTagRegistry():
			tags, err := decodeTagList(payload, engine)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				d.addTag(tag)
			}
		case fh.IsTagRetract():
			tags, err := decodeTagList(payload, engine)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				d.dropTag(tag)
			}
		case fh.IsContinuation():
			cont, err := decodeRecord(payload)
			if err != nil {
				return err
			}
			base, ok := d.byID[cont.id]
			if !ok {
				return fmt.Errorf("%w: continuation of unknown record %016x",
					errs.ErrMalformedRecord, cont.id)
			}
			if err := mergeContinuation(base, cont); err != nil {
				return err
			}
		default:
			rec, err := decodeRecord(payload)
			if err != nil {
				return err
			}
			if rec.kind != fh.Kind {
				return fmt.Errorf("%w: frame kind %s holds a %s record",
					errs.ErrMalformedRecord, fh.Kind, rec.kind)
			}
			if _, dup := d.byID[rec.id]; dup {
				return fmt.Errorf("%w: duplicate resource ID %016x",
					errs.ErrMalformedRecord, rec.id)
			}
			rec.ds = d
			d.elems[rec.kind] = append(d.elems[rec.kind], rec)
			d.byID[rec.id] = rec
			d.seq++
		}
	}
}

// appendFrame writes one frame to the store file.
func (d *Dataset) appendFrame(fh section.FrameHeader, payload []byte) error {
	engine := d.header.GetEndianEngine()
	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	buf.MustWrite(fh.Bytes(engine))
	buf.MustWrite(payload)
	if _, err := buf.WriteTo(d.f); err != nil {
		return fmt.Errorf("append frame: %w", err)
	}
	return nil
}

// Path returns the store file path.
func (d *Dataset) Path() string { return d.path }

// IsBigEndian reports the byte order the store was created with.
func (d *Dataset) IsBigEndian() bool { return d.header.IsBigEndian() }

// CreatedAt returns the creation time recorded in the store header.
func (d *Dataset) CreatedAt() time.Time { return d.header.CreatedAsTime() }

// Count returns the number of committed elements of the given kind.
func (d *Dataset) Count(kind format.ElementKind) int { return len(d.elems[kind]) }

// Element returns the element with the given resource ID, or false when the
// dataset holds no such element.
func (d *Dataset) Element(rid uint64) (Element, bool) {
	rec, ok := d.byID[rid]
	if !ok {
		return nil, false
	}
	return wrapRecord(rec), true
}

// Elements iterates over every committed element of the given kind in
// commit order. The returned sequence can be ranged over multiple times.
func (d *Dataset) Elements(kind format.ElementKind) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for _, rec := range d.elems[kind] {
			if !yield(wrapRecord(rec)) {
				return
			}
		}
	}
}

func (d *Dataset) checkOpen() error {
	if d.closed {
		return fmt.Errorf("%w: %s", errs.ErrDatasetClosed, d.path)
	}
	return nil
}

// Close syncs and closes the store file and releases the store lock.
// Closing an already closed Dataset is a no-op.
func (d *Dataset) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var firstErr error
	if err := d.f.Sync(); err != nil {
		firstErr = fmt.Errorf("sync store: %w", err)
	}
	if err := d.f.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close store: %w", err)
	}
	if err := releaseLock(d.lockPath); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// nextResourceID derives a fresh dataset-unique resource ID. IDs hash the
// element kind, the wall clock and a commit counter; collisions retry.
func (d *Dataset) nextResourceID(kind format.ElementKind) uint64 {
	for {
		d.seq++
		rid := hash.ID(fmt.Sprintf("%s/%d/%d", kind, time.Now().UnixNano(), d.seq))
		if rid == 0 {
			continue
		}
		if _, taken := d.byID[rid]; !taken {
			return rid
		}
	}
}

// acquireLock creates the sidecar lock file guarding the store against
// concurrent writers. O_EXCL makes creation the atomic test-and-set.
func acquireLock(path string) (string, error) {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", errs.ErrStoreLocked, path)
		}
		return "", fmt.Errorf("lock store %s: %w", path, err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return lockPath, nil
}

func releaseLock(lockPath string) error {
	if err := os.Remove(lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release store lock: %w", err)
	}
	return nil
}
