package registry

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Alain-L/quellogidx/index"
)

// DetectionCache memoizes which recognizer matched a given path on a prior
// open, so a caller that repeatedly reopens the same path (log rotation,
// tail -f style re-tailing) doesn't re-run every recognizer from scratch.
// Backed by github.com/hashicorp/golang-lru/v2.
type DetectionCache struct {
	cache *lru.Cache[string, string]
}

// NewDetectionCache returns a cache bounded to size entries.
func NewDetectionCache(size int) (*DetectionCache, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &DetectionCache{cache: c}, nil
}

// Remember records that name matched path.
func (d *DetectionCache) Remember(path, name string) {
	d.cache.Add(path, name)
}

// OrderFor reorders formats so that whichever one previously matched path
// (if any) is tried first, preserving relative order otherwise.
func (d *DetectionCache) OrderFor(path string, formats []index.Format) []index.Format {
	name, ok := d.cache.Get(path)
	if !ok {
		return formats
	}
	ordered := make([]index.Format, 0, len(formats))
	var rest []index.Format
	for _, f := range formats {
		if f.Name() == name {
			ordered = append(ordered, f)
		} else {
			rest = append(rest, f)
		}
	}
	return append(ordered, rest...)
}
