package collection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/bollard/internal/assetmeta"
	"git.home.luguber.info/inful/bollard/internal/attrs"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/imaging"
	"git.home.luguber.info/inful/bollard/internal/logfields"
	"git.home.luguber.info/inful/bollard/internal/metrics"
	"git.home.luguber.info/inful/bollard/internal/sitepath"
	"git.home.luguber.info/inful/bollard/internal/templating"
	"git.home.luguber.info/inful/bollard/internal/util/sets"
)

// ImagesDir is the directory, below the collection path, holding derivatives.
const ImagesDir = "images"

// NamedSize is a derivative bounding box. Its name prefixes the page fields
// describing the derivative, e.g. ThumbImage, ThumbWidth and ThumbHeight.
type NamedSize struct {
	Name  string
	Bound imaging.Size
}

// Spec describes a derivative collection.
type Spec struct {
	Name   string
	Source string
	Layout string
	Sizes  []NamedSize
}

// Derivatives is a collection with one page per photo asset in its source
// directory, plus resized copies of each photo.
type Derivatives struct {
	spec  Spec
	host  Host
	store assetmeta.Store
	gen   *imaging.Generator
	pages []attrs.Map
}

// NewDerivatives creates a derivative collection.
func NewDerivatives(host Host, spec Spec, store assetmeta.Store, gen *imaging.Generator) *Derivatives {
	if gen == nil {
		gen = imaging.NewGenerator(nil)
	}
	if store == nil {
		store = assetmeta.ExifStore{}
	}
	return &Derivatives{spec: spec, host: host, store: store, gen: gen}
}

func (d *Derivatives) Name() string       { return d.spec.Name }
func (d *Derivatives) Path() string       { return sitepath.Clean(d.spec.Name) }
func (d *Derivatives) Source() string     { return sitepath.Clean(d.spec.Source) }
func (d *Derivatives) Pages() []attrs.Map { return d.pages }

// IsAsset reports whether a file name is a photo asset.
func IsAsset(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

type prepared struct {
	page  attrs.Map
	taken time.Time
}

// Prep reads every asset, generates missing derivatives and builds the page
// records, sorted by capture time and indexed from 0. A failing asset is
// reported and skipped.
func (d *Derivatives) Prep(ctx context.Context) error {
	log := d.host.Logger().With(logfields.Collection(d.spec.Name))
	res := d.host.Resolver()

	srcDir, err := res.SourcePath(d.Source())
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "collection source directory is not readable").
			WithContext("collection", d.spec.Name).
			WithContext("path", srcDir).
			Fatal().
			Build()
	}

	imagesPath := sitepath.Combine(d.Path(), ImagesDir)
	imagesDir, err := res.DestPath(imagesPath)
	if err != nil {
		return err
	}
	if err := d.host.EnsureDir(imagesDir); err != nil {
		return err
	}

	used := sets.New[string]()
	var records []prepared
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "_") || !IsAsset(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		assetPath := sitepath.Combine(d.Source(), entry.Name())
		rec, err := d.prepAsset(filepath.Join(srcDir, entry.Name()), assetPath, imagesPath, used)
		if err != nil {
			if errors.HasCategory(err, errors.CategoryPathEscape) {
				return err
			}
			d.host.Fail(assetPath, err)
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].taken.Before(records[j].taken)
	})
	d.pages = make([]attrs.Map, len(records))
	for i, r := range records {
		r.page.Set("Index", attrs.Int(i))
		d.pages[i] = r.page
	}

	log.Info("Collection prepared", logfields.Count(len(d.pages)))
	return nil
}

func (d *Derivatives) prepAsset(osPath, assetPath, imagesPath string, used sets.Set[string]) (prepared, error) {
	md, err := assetmeta.Read(d.store, osPath)
	if err != nil {
		d.host.Recorder().IncDerivative(d.spec.Name, metrics.DerivativeFailed)
		return prepared{}, err
	}

	// Assets sharing a base name share their page and derivative paths. The
	// derivatives of the first one are kept.
	base := imaging.BaseName(md.Taken, md.Title)
	if used.Has(base) {
		d.host.Logger().Warn("Duplicate photo base name",
			logfields.Collection(d.spec.Name),
			logfields.Asset(assetPath),
			logfields.Path(base))
	}
	used.Add(base)

	pagePath := sitepath.Combine(d.Path(), base+".html")
	page := d.host.Defaults(pagePath, d.spec.Name)

	for _, size := range d.spec.Sizes {
		target := imaging.LimitSize(md.Size, size.Bound)
		imagePath := sitepath.Combine(imagesPath, imaging.DerivativeName(base, target))
		dst, err := d.host.Resolver().DestPath(imagePath)
		if err != nil {
			return prepared{}, err
		}

		created, err := d.gen.Generate(osPath, dst, md.Size, target, md.Orientation)
		if err != nil {
			d.host.Recorder().IncDerivative(d.spec.Name, metrics.DerivativeFailed)
			return prepared{}, err
		}
		if created {
			d.host.Recorder().IncDerivative(d.spec.Name, metrics.DerivativeCreated)
			d.host.Logger().Debug("Derivative created", logfields.Asset(assetPath), logfields.Path(imagePath))
		} else {
			d.host.Recorder().IncDerivative(d.spec.Name, metrics.DerivativeExisting)
		}

		display := target.Divide(2)
		page.Set(size.Name+"Image", attrs.String(imagePath))
		page.Set(size.Name+"Width", attrs.Int(display.Width))
		page.Set(size.Name+"Height", attrs.Int(display.Height))
	}

	tags := make([]attrs.Value, len(md.Tags))
	for i, t := range md.Tags {
		tags[i] = attrs.String(t)
	}
	page.Set("Title", attrs.String(md.Title))
	page.Set("Comment", attrs.String(md.Comment))
	page.Set("Date", attrs.Time(md.Taken))
	page.Set("Latitude", attrs.Float(md.Latitude))
	page.Set("Longitude", attrs.Float(md.Longitude))
	page.Set("Tags", attrs.List(tags...))
	page.Set("Name", attrs.String(base))
	page.Set("Collection", attrs.String(d.spec.Name))
	page.Set("Source", attrs.String(assetPath))
	page.Set("Path", attrs.String(pagePath))
	page.Set("Url", attrs.String(strings.TrimRight(d.host.SiteAttrs().Str("Url"), "/")+pagePath))

	return prepared{page: page, taken: md.Taken}, nil
}

// Render runs the collection layout once per page.
func (d *Derivatives) Render(ctx context.Context) error {
	if len(d.pages) == 0 {
		return nil
	}

	layout, err := d.host.Lookup(d.spec.Layout)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			err = classified.WithContext("directive", fmt.Sprintf("Layout=%q", d.spec.Layout))
		}
		d.host.Fail(d.Path(), err)
		return nil
	}

	list := make([]attrs.Value, len(d.pages))
	for i, p := range d.pages {
		list[i] = attrs.MapValue(p)
	}
	col := attrs.Map{
		"Name":  attrs.String(d.spec.Name),
		"Path":  attrs.String(d.Path()),
		"Pages": attrs.List(list...),
	}

	for _, page := range d.pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pagePath := page.Str("Path")
		out, err := templating.NewSession(layout).Run(templating.Context{
			Site:       d.host.SiteAttrs(),
			Page:       page,
			Collection: col,
			Lookup:     d.host.Lookup,
		})
		if err == nil {
			err = d.host.WriteOutput(pagePath, []byte(out))
		}
		if errors.HasCategory(err, errors.CategoryPathEscape) {
			return err
		}
		if err != nil {
			d.host.Fail(pagePath, err)
			d.host.Recorder().IncFileOutcome(metrics.FileFailed)
			continue
		}
		d.host.Recorder().IncFileOutcome(metrics.FileRendered)
	}
	return nil
}
