package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/a11yreq/pkg/clause"
)

// Kind names a class of catalogue item. Each kind lives in its own directory
// under the store's base path.
type Kind string

const (
	KindClause Kind = "clause"
	KindInfo   Kind = "info"
	KindPreset Kind = "preset"
)

// ErrNotFound is returned when an id has no stored item.
var ErrNotFound = errors.New("store: not found")

// Persistence defines the persistence contract for the requirements catalogue.
type Persistence interface {
	Clauses(ctx context.Context) ([]clause.Record, error)
	Clause(ctx context.Context, id string) (clause.Record, error)
	StoreClause(r *clause.Record) error
	DeleteClause(id string) error

	Infos(ctx context.Context) ([]clause.InfoSection, error)
	Info(ctx context.Context, id string) (clause.InfoSection, error)
	StoreInfo(s *clause.InfoSection) error
	DeleteInfo(id string) error

	Presets(ctx context.Context) ([]clause.Preset, error)
	Preset(ctx context.Context, id string) (clause.Preset, error)
	StorePreset(p *clause.Preset) error
	DeletePreset(id string) error
	PresetsReferencing(ctx context.Context, clauseID string) ([]clause.Preset, error)

	Import(ctx context.Context, b clause.Bundle) (ImportReport, error)
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Drivers name the storage backends Load can open.
const (
	DriverDiskv  = "diskv"
	DriverSQLite = "sqlite"
)

// Option configures a Persistence.
type Option func(*persistence)

// WithLogger sets the logger used to report unreadable items and watcher
// failures.
func WithLogger(log *zap.Logger) Option {
	return func(p *persistence) {
		if log != nil {
			p.log = log
		}
	}
}

// WithDriver selects the storage backend. Empty means diskv.
func WithDriver(driver string) Option {
	return func(p *persistence) {
		p.driver = driver
	}
}

// Load creates a Persistence under the config's base path: one file per item
// with diskv, or a single database file with sqlite.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		settings, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = settings
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	p := &persistence{
		basePath: basePath,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if s, ok := cfg.(*Settings); ok && p.driver == "" {
		p.driver = s.Driver
	}
	switch p.driver {
	case "", DriverDiskv:
		p.b = &diskvBackend{
			d: diskv.New(diskv.Options{
				BasePath:          basePath,
				AdvancedTransform: keyToPathTransform,
				InverseTransform:  pathToKeyTransform,
				CacheSizeMax:      1024 * 1024, // 1MB
			}),
			basePath: basePath,
			log:      p.log,
		}
	case DriverSQLite:
		b, err := openSQLite(filepath.Join(basePath, sqliteFile))
		if err != nil {
			return nil, err
		}
		p.b = b
	default:
		return nil, fmt.Errorf("store: unknown driver %q", p.driver)
	}
	return p, nil
}

type persistence struct {
	b        backend
	driver   string
	basePath string
	log      *zap.Logger
}

// backend holds raw JSON items keyed by kind and id. Missing items are
// reported with os.ErrNotExist.
type backend interface {
	each(ctx context.Context, kind Kind, fn func(id string, data []byte)) error
	read(kind Kind, id string) ([]byte, error)
	write(kind Kind, id string, data []byte) error
	erase(kind Kind, id string) error
	close() error
}

func (p *persistence) Close() error {
	return p.b.close()
}

func (p *persistence) Clauses(ctx context.Context) ([]clause.Record, error) {
	var all []clause.Record
	err := p.each(ctx, KindClause, func(id string, data []byte) error {
		var r clause.Record
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		r.ID = id
		all = append(all, r)
		return nil
	})
	clause.SortRecords(all)
	return all, err
}

func (p *persistence) Clause(_ context.Context, id string) (clause.Record, error) {
	var r clause.Record
	if err := p.read(KindClause, id, &r); err != nil {
		return clause.Record{}, err
	}
	r.ID = id
	return r, nil
}

func (p *persistence) StoreClause(r *clause.Record) error {
	r.Number = clause.Normalize(r.Number)
	if err := r.Validate(); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return p.write(KindClause, r.ID, r)
}

func (p *persistence) DeleteClause(id string) error {
	return p.erase(KindClause, id)
}

func (p *persistence) Infos(ctx context.Context) ([]clause.InfoSection, error) {
	var all []clause.InfoSection
	err := p.each(ctx, KindInfo, func(id string, data []byte) error {
		var s clause.InfoSection
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s.ID = id
		all = append(all, s)
		return nil
	})
	clause.SortSections(all)
	return all, err
}

func (p *persistence) Info(_ context.Context, id string) (clause.InfoSection, error) {
	var s clause.InfoSection
	if err := p.read(KindInfo, id, &s); err != nil {
		return clause.InfoSection{}, err
	}
	s.ID = id
	return s, nil
}

func (p *persistence) StoreInfo(s *clause.InfoSection) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return p.write(KindInfo, s.ID, s)
}

func (p *persistence) DeleteInfo(id string) error {
	return p.erase(KindInfo, id)
}

func (p *persistence) Presets(ctx context.Context) ([]clause.Preset, error) {
	var all []clause.Preset
	err := p.each(ctx, KindPreset, func(id string, data []byte) error {
		var pr clause.Preset
		if err := json.Unmarshal(data, &pr); err != nil {
			return err
		}
		pr.ID = id
		all = append(all, pr)
		return nil
	})
	clause.SortPresets(all)
	return all, err
}

func (p *persistence) Preset(_ context.Context, id string) (clause.Preset, error) {
	var pr clause.Preset
	if err := p.read(KindPreset, id, &pr); err != nil {
		return clause.Preset{}, err
	}
	pr.ID = id
	return pr, nil
}

func (p *persistence) StorePreset(pr *clause.Preset) error {
	if err := pr.Validate(); err != nil {
		return err
	}
	if pr.ID == "" {
		pr.ID = uuid.NewString()
	}
	return p.write(KindPreset, pr.ID, pr)
}

func (p *persistence) DeletePreset(id string) error {
	return p.erase(KindPreset, id)
}

func (p *persistence) PresetsReferencing(ctx context.Context, clauseID string) ([]clause.Preset, error) {
	presets, err := p.Presets(ctx)
	if err != nil {
		return nil, err
	}
	var out []clause.Preset
	for _, pr := range presets {
		if pr.References(clauseID) {
			out = append(out, pr)
		}
	}
	return out, nil
}

// each streams every stored item of a kind. Items that cannot be decoded are
// logged and skipped so one corrupt item does not hide the catalogue.
func (p *persistence) each(ctx context.Context, kind Kind, fn func(id string, data []byte) error) error {
	return p.b.each(ctx, kind, func(id string, data []byte) {
		if err := fn(id, data); err != nil {
			p.log.Warn("decode item", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		}
	})
}

func (p *persistence) read(kind Kind, id string, v any) error {
	if !validID(id) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	data, err := p.b.read(kind, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		return fmt.Errorf("store: read %s %s: %w", kind, id, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: decode %s %s: %w", kind, id, err)
	}
	return nil
}

func (p *persistence) write(kind Kind, id string, v any) error {
	if !validID(id) {
		return fmt.Errorf("store: invalid %s id %q", kind, id)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := p.b.write(kind, id, data); err != nil {
		return fmt.Errorf("store: write %s %s: %w", kind, id, err)
	}
	return nil
}

func (p *persistence) erase(kind Kind, id string) error {
	if !validID(id) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	if err := p.b.erase(kind, id); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		return fmt.Errorf("store: erase %s %s: %w", kind, id, err)
	}
	return nil
}

// diskvBackend keeps each item in its own file, one directory per kind.
type diskvBackend struct {
	d        *diskv.Diskv
	basePath string
	log      *zap.Logger
}

func (b *diskvBackend) each(ctx context.Context, kind Kind, fn func(id string, data []byte)) error {
	if _, err := os.Stat(b.basePath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	prefix := string(kind) + "-"
	for key := range b.d.KeysPrefix(prefix, ctx.Done()) {
		data, err := b.d.Read(key)
		if err != nil {
			b.log.Warn("read item", zap.String("key", key), zap.Error(err))
			continue
		}
		fn(keyToPathTransform(key).FileName, data)
	}
	return ctx.Err()
}

func (b *diskvBackend) read(kind Kind, id string) ([]byte, error) {
	return b.d.Read(toKey(kind, id))
}

func (b *diskvBackend) write(kind Kind, id string, data []byte) error {
	return b.d.Write(toKey(kind, id), data)
}

func (b *diskvBackend) erase(kind Kind, id string) error {
	key := toKey(kind, id)
	if !b.d.Has(key) {
		return os.ErrNotExist
	}
	return b.d.Erase(key)
}

func (b *diskvBackend) close() error { return nil }

// Keys are `kind-id`. Ids are uuids and may contain dashes, so only the first
// dash separates the directory from the file name.
func keyToPathTransform(s string) *diskv.PathKey {
	kind, id, found := strings.Cut(s, "-")
	if !found {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{kind},
		FileName: id,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// validID keeps ids inside their kind directory.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func toKey(kind Kind, id string) string {
	return fmt.Sprintf("%s-%s", kind, id)
}
