package keys

import "fmt"

// HistoryCacheKey is the cache key for a character's battle-history view.
func HistoryCacheKey(characterID uint) string {
	return fmt.Sprintf("history:%d", characterID)
}
