package media

import (
	"bytes"
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"time"

	"portfolio/internal/filesystem"
	"portfolio/internal/logging"
	"portfolio/internal/mediatypes"
	"portfolio/internal/metrics"
	"portfolio/internal/scanner"

	"github.com/disintegration/imaging"
)

const (
	// ThumbnailSize bounds both sides of a derived thumbnail.
	ThumbnailSize = 400
	// ThumbnailQuality is the JPEG quality of derived thumbnails.
	ThumbnailQuality = 85
)

var (
	// ErrDerivationDisabled is returned when the deriver has no usable cache.
	ErrDerivationDisabled = errors.New("thumbnail derivation disabled")
	// ErrNotAnImage is returned for sources that are not raster images.
	ErrNotAnImage = errors.New("source is not an image")
	// ErrThrottled is returned on a cache miss while memory is under pressure.
	ErrThrottled = errors.New("thumbnail derivation throttled")
)

// Throttler reports memory pressure.
type Throttler interface {
	ShouldThrottle() bool
}

var log = logging.With("media")

// ThumbnailDeriver produces thumbnails from entry header images.
type ThumbnailDeriver struct {
	cacheDir string
	enabled  bool
	throttle Throttler
	mu       sync.Mutex
}

// NewThumbnailDeriver creates a deriver caching under <cacheDir>/thumbnails.
// It is disabled when enabled is false or the directory cannot be created.
func NewThumbnailDeriver(cacheDir string, enabled bool) *ThumbnailDeriver {
	dir := filepath.Join(cacheDir, "thumbnails")
	if enabled {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn("cannot create thumbnail cache %s, derivation disabled: %v", dir, err)
			enabled = false
		} else {
			log.Debug("thumbnail derivation enabled, cache dir: %s", dir)
		}
	}
	return &ThumbnailDeriver{cacheDir: dir, enabled: enabled}
}

// IsEnabled reports whether Derive can produce thumbnails.
func (d *ThumbnailDeriver) IsEnabled() bool {
	return d.enabled
}

// SetThrottler makes Derive refuse new work while t reports pressure.
// Cached thumbnails are still served.
func (d *ThumbnailDeriver) SetThrottler(t Throttler) {
	d.throttle = t
}

// CacheDir returns the directory holding cached thumbnails.
func (d *ThumbnailDeriver) CacheDir() string {
	return d.cacheDir
}

// Derive returns a JPEG thumbnail of source, from the cache when an entry for
// the source's current modification time exists.
func (d *ThumbnailDeriver) Derive(source string) ([]byte, error) {
	if !d.enabled {
		return nil, ErrDerivationDisabled
	}
	if mediatypes.KindOf(source) != mediatypes.KindImage {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, source)
	}

	start := time.Now()
	info, err := filesystem.StatWithRetry(source, filesystem.DefaultRetryConfig())
	if err != nil {
		metrics.ThumbnailDerivationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("source not accessible: %w", err)
	}

	cachePath := d.cachePath(source, info.ModTime())
	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailDerivationsTotal.WithLabelValues("cache_hit").Inc()
		log.Debug("thumbnail cache hit: %s", source)
		touch(cachePath)
		return data, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailDerivationsTotal.WithLabelValues("cache_hit").Inc()
		return data, nil
	}

	if d.throttle != nil && d.throttle.ShouldThrottle() {
		metrics.ThumbnailDerivationsTotal.WithLabelValues("throttled").Inc()
		return nil, ErrThrottled
	}

	data, err := encodeThumbnail(source)
	if err != nil {
		metrics.ThumbnailDerivationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		log.Warn("failed to cache thumbnail %s: %v", cachePath, err)
	}

	metrics.ThumbnailDerivationsTotal.WithLabelValues("generated").Inc()
	metrics.ThumbnailDerivationDuration.Observe(time.Since(start).Seconds())
	log.Debug("derived thumbnail for %s in %v", source, time.Since(start))
	return data, nil
}

// PruneCache removes cached thumbnails unused for maxAge and returns how many
// were removed. A cache hit refreshes the file's modification time, so only
// thumbnails of replaced or deleted headers age out.
func (d *ThumbnailDeriver) PruneCache(ctx context.Context, maxAge time.Duration) (int, error) {
	if !d.enabled {
		return 0, nil
	}

	// The cache is local disk; NFS retries do not apply.
	walker := scanner.NewWalker(d.cacheDir, scanner.WithExtensions(".jpg"),
		scanner.WithRetryConfig(filesystem.RetryConfig{}))
	files, err := walker.Walk(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, f := range files {
		if !f.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("cannot remove stale thumbnail %s: %v", f.Path, err)
			continue
		}
		removed++
	}
	log.Info("pruned %d of %d cached thumbnails older than %v", removed, len(files), maxAge)
	return removed, nil
}

func touch(path string) {
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		log.Debug("cannot refresh thumbnail %s: %v", path, err)
	}
}

func (d *ThumbnailDeriver) cachePath(source string, modTime time.Time) string {
	hash := md5.Sum([]byte(fmt.Sprintf("%s:%d", source, modTime.UnixNano())))
	return filepath.Join(d.cacheDir, fmt.Sprintf("%x.jpg", hash))
}

func encodeThumbnail(source string) ([]byte, error) {
	img, err := LoadImageConstrained(source, MaxImageDimension, MaxImagePixels)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", source, err)
	}

	thumb := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: ThumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
