package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/unpaginated/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func materialize(t *testing.T) {
	t.Helper()

	fetch := pagination.ByPage[int](func(ctx context.Context, page int) (pagination.Page[int], error) {
		if page > 2 {
			return pagination.Plain[int]{}, nil
		}
		return pagination.Plain[int]{page, page}, nil
	})

	if _, err := pagination.All(context.Background(), fetch, pagination.WithLogger(zerolog.Nop())); err != nil {
		t.Fatalf("All() error = %v", err)
	}
}

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}

	if Gatherer != prometheus.DefaultGatherer {
		t.Error("Gatherer should be the default Prometheus gatherer")
	}
}

func TestNames(t *testing.T) {
	materialize(t)

	names, err := Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}

	want := map[string]bool{
		"unpaginated_fetches_total":                false,
		"unpaginated_items_total":                  false,
		"unpaginated_materialize_duration_seconds": false,
	}
	for _, name := range names {
		if !strings.HasPrefix(name, Prefix) {
			t.Errorf("Names() returned %q without prefix", name)
		}
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestHandler(t *testing.T) {
	materialize(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler().ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), `unpaginated_fetches_total{strategy="serial"}`) {
		t.Error("metrics output missing unpaginated_fetches_total for serial strategy")
	}
}
