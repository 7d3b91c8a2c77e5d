package terminal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Poojan2107/Product-Nexus/internal/client"
	"github.com/Poojan2107/Product-Nexus/internal/store"
)

type recordingNav struct {
	routes []string
}

func (n *recordingNav) Goto(route string) {
	n.routes = append(n.routes, route)
}

func newTestTerminal(t *testing.T) (*Terminal, *recordingNav) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Product Nexus API online"})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := client.New(srv.URL + "/api")
	nav := &recordingNav{}
	return New(nav, store.New(c, filepath.Join(t.TempDir(), "cart.json")), c), nav
}

func lastLine(lines []Line) Line {
	return lines[len(lines)-1]
}

func TestHelpListsCommands(t *testing.T) {
	term, _ := newTestTerminal(t)
	out := term.Execute("help")

	last := lastLine(out)
	if last.Type != LineInfo || !strings.Contains(last.Text, "export pdf") {
		t.Errorf("help output missing commands: %+v", last)
	}
}

func TestGotoNavigates(t *testing.T) {
	term, nav := newTestTerminal(t)

	term.Execute("goto dashboard")
	term.Execute("goto products")
	term.Execute("goto home")

	want := []string{"dashboard", "products", "home"}
	if len(nav.routes) != 3 {
		t.Fatalf("expected 3 navigations, got %v", nav.routes)
	}
	for i, r := range want {
		if nav.routes[i] != r {
			t.Errorf("navigation %d = %q, want %q", i, nav.routes[i], r)
		}
	}
}

func TestGotoUnknownRoute(t *testing.T) {
	term, nav := newTestTerminal(t)
	out := term.Execute("goto nowhere")

	if lastLine(out).Type != LineError {
		t.Errorf("unknown route should error, got %+v", lastLine(out))
	}
	if len(nav.routes) != 0 {
		t.Errorf("unknown route should not navigate, got %v", nav.routes)
	}
}

func TestListSetsFiltersAndNavigates(t *testing.T) {
	term, nav := newTestTerminal(t)

	term.Execute("list search=widget min=10 max=500 sort=price-desc")

	filters := term.store.Products.Filters
	if filters.Search != "widget" || filters.MinPrice != "10" || filters.MaxPrice != "500" || filters.SortBy != "price-desc" {
		t.Errorf("unexpected filters: %+v", filters)
	}
	if term.store.Products.CurrentPage != 1 {
		t.Errorf("list should reset to page 1, got %d", term.store.Products.CurrentPage)
	}
	if len(nav.routes) != 1 || nav.routes[0] != "products" {
		t.Errorf("list should navigate to products, got %v", nav.routes)
	}
}

func TestExportPDFFiresHook(t *testing.T) {
	term, _ := newTestTerminal(t)

	fired := false
	term.OnExportPDF(func() { fired = true })
	term.Execute("export pdf")

	if !fired {
		t.Error("export pdf should fire the registered hook")
	}

	out := term.Execute("export csv")
	if lastLine(out).Type != LineError {
		t.Errorf("export with a bad argument should error, got %+v", lastLine(out))
	}
}

func TestStatusReportsBackend(t *testing.T) {
	term, _ := newTestTerminal(t)
	out := term.Execute("status")

	last := lastLine(out)
	if last.Type != LineInfo || !strings.Contains(last.Text, "online") {
		t.Errorf("unexpected status output: %+v", last)
	}
}

func TestLogoutDropsToken(t *testing.T) {
	term, nav := newTestTerminal(t)
	term.client.Token = "some-token"

	out := term.Execute("logout")

	if lastLine(out).Type != LineWarning {
		t.Errorf("expected session-terminated warning, got %+v", lastLine(out))
	}
	if term.client.Token != "" {
		t.Error("logout should drop the bearer token")
	}
	if len(nav.routes) != 1 || nav.routes[0] != "home" {
		t.Errorf("logout should navigate home, got %v", nav.routes)
	}
}

func TestClearEmptiesHistory(t *testing.T) {
	term, _ := newTestTerminal(t)
	term.Execute("about")

	term.Execute("clear")

	if len(term.History()) != 0 {
		t.Errorf("clear should empty the history, got %d lines", len(term.History()))
	}
}

func TestUnknownCommand(t *testing.T) {
	term, _ := newTestTerminal(t)
	out := term.Execute("frobnicate now")

	last := lastLine(out)
	if last.Type != LineError || !strings.Contains(last.Text, "frobnicate") {
		t.Errorf("unexpected output for unknown command: %+v", last)
	}
}

func TestExitClosesTerminal(t *testing.T) {
	term, _ := newTestTerminal(t)
	term.Execute("exit")

	if term.IsOpen() {
		t.Error("exit should close the terminal")
	}
}
