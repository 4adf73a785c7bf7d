// Standalone mock marketplace for exercising the networked search path.
// It serves the search API shape comparia expects, backed by the same
// deterministic listing generator the --mock flag uses:
//
//	go run ./cmd/mockmarket
//	comparia analyze "Omega Seamaster" --type armbandsur --base-url http://localhost:8442
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/comparia/comparia/internal/marketdata"
	"github.com/comparia/comparia/internal/model"
)

func main() {
	addr := flag.String("addr", ":8442", "listen address")
	seed := flag.Int64("seed", 1, "listing generator seed")
	flag.Parse()

	generator := marketdata.NewMockClient(*seed)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		scope := model.SearchScope(r.URL.Query().Get("scope"))
		if scope != model.ScopeEnded && scope != model.ScopeLive {
			http.Error(w, `scope must be "ended" or "live"`, http.StatusBadRequest)
			return
		}

		listings, err := generator.Search(r.Context(), query, scope)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string][]model.Listing{"listings": listings}); err != nil {
			log.Printf("encode response: %v", err)
			return
		}
		log.Printf("scope=%s q=%q -> %d listings", scope, query, len(listings))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "User-agent: *")
		fmt.Fprintln(w, "Allow: /")
	})

	log.Printf("mock marketplace listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
