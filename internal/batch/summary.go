package batch

import (
	"cmp"
	"slices"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

const topClients = 5

type ClientCount struct {
	Client string `json:"client"`
	Count  int    `json:"count"`
}

// Summary aggregates a set of results for the end-of-run report.
type Summary struct {
	Total      int                                `json:"total"`
	ByMethod   map[constants.ExtractionMethod]int `json:"by_method"`
	Years      map[int]int                        `json:"years"`
	TopClients []ClientCount                      `json:"top_clients"`
	Currencies map[string]int                     `json:"currencies"`
}

func Summarize(results []entity.ExtractionResult) Summary {
	s := Summary{
		Total:      len(results),
		ByMethod:   map[constants.ExtractionMethod]int{},
		Years:      map[int]int{},
		Currencies: map[string]int{},
	}
	clients := map[string]int{}

	for _, r := range results {
		s.ByMethod[r.ExtractionMethod]++
		if y, ok := r.Metadata.Float("year"); ok && y != 0 {
			s.Years[int(y)]++
		}
		if c := r.Metadata.String("client"); c != "" {
			clients[c]++
		}
		if cur := r.Metadata.String("currency"); cur != "" {
			s.Currencies[cur]++
		}
	}

	for c, n := range clients {
		s.TopClients = append(s.TopClients, ClientCount{Client: c, Count: n})
	}
	slices.SortFunc(s.TopClients, func(a, b ClientCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Client, b.Client)
	})
	if len(s.TopClients) > topClients {
		s.TopClients = s.TopClients[:topClients]
	}
	return s
}
