// Package terminal is the themed command interpreter: a fixed dispatch table
// over whitespace-split tokens that drives navigation, store dispatches and
// the PDF export hook. It is not a general-purpose language.
package terminal

import (
	"context"
	"strings"
	"time"

	"github.com/Poojan2107/Product-Nexus/internal/client"
	"github.com/Poojan2107/Product-Nexus/internal/store"
)

// Navigator is how commands move the UI between routes.
type Navigator interface {
	Goto(route string)
}

// Line types in the terminal history.
const (
	LineInput   = "input"
	LineInfo    = "info"
	LineSuccess = "success"
	LineError   = "error"
	LineWarning = "warning"
)

type Line struct {
	Type string
	Text string
}

type Terminal struct {
	nav     Navigator
	store   *store.Store
	client  *client.Client
	history []Line
	export  func()
	open    bool
	now     func() time.Time
}

func New(nav Navigator, st *store.Store, c *client.Client) *Terminal {
	return &Terminal{
		nav:    nav,
		store:  st,
		client: c,
		open:   true,
		now:    time.Now,
		history: []Line{
			{Type: LineInfo, Text: "PRODUCT_NEXUS_CLI_V1.0 [ONLINE]"},
			{Type: LineInfo, Text: "TYPE 'help' FOR COMMANDS"},
		},
	}
}

// OnExportPDF registers the hook fired by `export pdf`; the product list view
// listens on it and runs the actual export.
func (t *Terminal) OnExportPDF(fn func()) {
	t.export = fn
}

func (t *Terminal) History() []Line {
	return t.history
}

func (t *Terminal) IsOpen() bool {
	return t.open
}

const helpText = `AVAILABLE COMMANDS:
  login                - Access system
  register             - Create user
  list [filters]       - Go to products with filters
  export pdf           - Export product list PDF
  goto [route]         - Navigate to route (dashboard/products/home)
  status               - Check backend status
  logout               - Sign out
  about                - System info
  clear                - Clear screen
  date                 - System time
  exit                 - Close terminal`

// Execute runs one command line and returns the lines it appended.
func (t *Terminal) Execute(cmd string) []Line {
	trimmed := strings.TrimSpace(cmd)
	tokens := strings.Fields(strings.ToLower(trimmed))

	if len(tokens) == 0 {
		return nil
	}

	out := []Line{{Type: LineInput, Text: "> " + trimmed}}

	switch tokens[0] {
	case "help":
		out = append(out, Line{Type: LineInfo, Text: helpText})

	case "login":
		out = append(out, Line{Type: LineSuccess, Text: "Redirecting to login..."})
		t.nav.Goto("login")

	case "register":
		out = append(out, Line{Type: LineSuccess, Text: "Initiating registration..."})
		t.nav.Goto("register")

	case "list":
		// Filters come as key=value pairs: list search=foo min=10 sort=price-desc
		filters := parseListFilters(strings.Fields(trimmed)[1:])
		t.store.SetFilters(filters)
		t.store.SetPage(1)
		out = append(out, Line{Type: LineSuccess, Text: "Navigating to PRODUCTS with filters..."})
		t.nav.Goto("products")

	case "export":
		if len(tokens) > 1 && tokens[1] == "pdf" {
			out = append(out, Line{Type: LineSuccess, Text: "Exporting PDF..."})
			if t.export != nil {
				t.export()
			}
			t.nav.Goto("products")
		} else {
			out = append(out, Line{Type: LineError, Text: "Usage: export pdf"})
		}

	case "goto":
		route := ""
		if len(tokens) > 1 {
			route = strings.TrimPrefix(tokens[1], "/")
		}
		switch route {
		case "dashboard":
			t.nav.Goto("dashboard")
			out = append(out, Line{Type: LineSuccess, Text: "Navigating to DASHBOARD..."})
		case "products":
			t.nav.Goto("products")
			out = append(out, Line{Type: LineSuccess, Text: "Navigating to PRODUCTS..."})
		case "", "home":
			t.nav.Goto("home")
			out = append(out, Line{Type: LineSuccess, Text: "Navigating to HOME..."})
		default:
			out = append(out, Line{Type: LineError, Text: "Unknown route. Try: dashboard/products/home"})
		}

	case "status":
		msg, err := t.client.Status(context.Background())
		if err != nil {
			out = append(out, Line{Type: LineError, Text: "STATUS_ERROR: " + err.Error()})
		} else {
			out = append(out, Line{Type: LineInfo, Text: "STATUS: " + msg})
		}

	case "logout":
		if err := t.client.Logout(context.Background()); err != nil {
			out = append(out, Line{Type: LineError, Text: "Logout failed: " + err.Error()})
		} else {
			out = append(out, Line{Type: LineWarning, Text: "SESSION_TERMINATED"})
			t.nav.Goto("home")
		}

	case "about":
		out = append(out, Line{Type: LineInfo, Text: "Product Nexus is a state-of-the-art inventory management system."})

	case "clear":
		t.history = nil
		return nil

	case "date":
		out = append(out, Line{Type: LineInfo, Text: t.now().String()})

	case "exit":
		t.open = false

	default:
		out = append(out, Line{Type: LineError, Text: "Command not found: " + tokens[0]})
	}

	t.history = append(t.history, out...)
	return out
}

// parseListFilters reads key=value arguments of the list command.
func parseListFilters(args []string) client.ProductFilters {
	f := client.ProductFilters{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || v == "" {
			continue
		}
		switch strings.ToLower(k) {
		case "search":
			f.Search = v
		case "min", "minprice":
			f.MinPrice = v
		case "max", "maxprice":
			f.MaxPrice = v
		case "sort":
			f.SortBy = v
		}
	}
	return f
}
