package match

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	_ "embed"
)

//go:embed adjectives.txt
var adjectivesFile string

var (
	adjectives = func() []string {
		lines := strings.Split(strings.TrimSpace(adjectivesFile), "\n")
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
		return out
	}()
	nameRnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
	nameRndMu sync.Mutex
)

// randomMatchName builds a display name like "Alice's unfathomable game".
func randomMatchName(playerName string) string {
	nameRndMu.Lock()
	adj := adjectives[nameRnd.Intn(len(adjectives))]
	nameRndMu.Unlock()
	return fmt.Sprintf("%s's %s game", playerName, adj)
}
