package identity

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/houshuang/alif/internal/domain"
)

// variantCacheSize bounds the in-process hot cache sitting above the
// durable variant_decisions table; oracle calls are expensive and rare
// enough that a modest working set avoids almost all repeat lookups within
// a session without holding the whole table in memory.
const variantCacheSize = 4096

// variantCache is the in-process LRU layer over VariantDecisionRepo. A miss
// here falls through to the durable store and, beyond that, the oracle.
type variantCache struct {
	cache *lru.Cache[string, domain.VariantVerdict]
}

func newVariantCache() *variantCache {
	c, err := lru.New[string, domain.VariantVerdict](variantCacheSize)
	if err != nil {
		// Only fails for a non-positive size, which variantCacheSize never is.
		panic("identity: failed to construct variant cache: " + err.Error())
	}
	return &variantCache{cache: c}
}

func (c *variantCache) get(lemmaAID, lemmaBID string) (domain.VariantVerdict, bool) {
	a, b := domain.OrderedPairKey(lemmaAID, lemmaBID)
	return c.cache.Get(a + "\x00" + b)
}

func (c *variantCache) put(lemmaAID, lemmaBID string, verdict domain.VariantVerdict) {
	a, b := domain.OrderedPairKey(lemmaAID, lemmaBID)
	c.cache.Add(a+"\x00"+b, verdict)
}
