package nav

import (
	"context"
	"sync"

	"github.com/rohanthewiz/element"

	"github.com/consenterra/website/pkg/core"
	"github.com/consenterra/website/pkg/logging"
)

// ViewName is the name the navbar is mounted under on the live endpoint.
const ViewName = "navbar"

// Client events handled by the navbar.
const (
	EventToggleMenu      = "toggle-menu"
	EventToggleSolutions = "toggle-solutions"
	EventNavigate        = "navigate"
	EventPathChanged     = "path-changed"
)

// Router is the routing collaborator: it knows the current path and performs
// navigation.
type Router interface {
	CurrentPath() string
	Navigate(href string) error
}

// pathTracker is implemented by routers that follow client side path changes.
type pathTracker interface {
	Track(path string)
}

// StaticRouter serves server rendered pages. The browser performs navigation
// itself, so Navigate only records the destination.
type StaticRouter struct {
	mu   sync.RWMutex
	path string
}

// NewStaticRouter returns a router fixed at path.
func NewStaticRouter(path string) *StaticRouter {
	return &StaticRouter{path: path}
}

func (r *StaticRouter) CurrentPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.path
}

func (r *StaticRouter) Navigate(href string) error {
	r.Track(href)
	return nil
}

func (r *StaticRouter) Track(path string) {
	r.mu.Lock()
	r.path = path
	r.mu.Unlock()
}

// SocketRouter drives client side navigation by pushing a navigate event to
// the connected browser.
type SocketRouter struct {
	StaticRouter
	socket *core.Socket
}

// NewSocketRouter returns a router bound to socket, starting at path.
func NewSocketRouter(socket *core.Socket, path string) *SocketRouter {
	return &SocketRouter{StaticRouter: StaticRouter{path: path}, socket: socket}
}

func (r *SocketRouter) Navigate(href string) error {
	if err := r.socket.Push(EventNavigate, map[string]any{"href": href}); err != nil {
		return err
	}
	r.Track(href)
	return nil
}

// Option configures a NavBar.
type Option func(*NavBar)

// WithIcons sets the icon collaborator.
func WithIcons(icons Icons) Option {
	return func(n *NavBar) { n.icons = icons }
}

// WithBrand sets the text logo.
func WithBrand(brand string) Option {
	return func(n *NavBar) { n.brand = brand }
}

// WithRouter supplies the routing collaborator instead of deriving it from
// the socket at mount. newRouter runs once per NavBar, so instances built by
// one Factory never share a router.
func WithRouter(newRouter func() Router) Option {
	return func(n *NavBar) { n.router = newRouter() }
}

// NavBar is the live navigation bar component. Each connected page owns one
// instance; its MenuState lives only as long as the connection.
type NavBar struct {
	core.BaseComponent

	brand  string
	icons  Icons
	router Router
	state  MenuState
}

// New creates a navbar.
func New(opts ...Option) *NavBar {
	n := &NavBar{brand: DefaultBrand}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Factory returns a constructor suitable for router.Mount.
func Factory(opts ...Option) func() core.Component {
	return func() core.Component {
		return New(opts...)
	}
}

func (n *NavBar) Name() string { return ViewName }

// State returns the current menu state.
func (n *NavBar) State() MenuState { return n.state }

// Mount starts the navbar closed at the path given by the path parameter.
func (n *NavBar) Mount(ctx context.Context, params core.Params, session core.Session) error {
	path := params.GetDefault("path", "/")
	n.state = MenuState{}

	if n.router == nil {
		if socket := n.Socket(); socket != nil {
			n.router = NewSocketRouter(socket, path)
		} else {
			n.router = NewStaticRouter(path)
		}
	} else if t, ok := n.router.(pathTracker); ok {
		t.Track(path)
	}

	n.publish()
	return nil
}

// HandleEvent applies a client event to the menu state. Unknown events are
// ignored.
func (n *NavBar) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	switch event {
	case EventToggleMenu:
		n.state.ToggleMobile()

	case EventToggleSolutions:
		n.state.ToggleSolutions()

	case EventNavigate:
		n.state.Navigated()
		href, _ := payload["href"].(string)
		if href == "" {
			break
		}
		if err := n.router.Navigate(href); err != nil {
			logging.L(ctx).Warn("navigate failed", logging.String("href", href), logging.Err(err))
		}

	case EventPathChanged:
		path, _ := payload["path"].(string)
		if t, ok := n.router.(pathTracker); ok && path != "" {
			t.Track(path)
		}

	default:
		logging.L(ctx).Debug("ignoring navbar event", logging.String("event", event))
	}

	if changed := n.publish(); len(changed) > 0 {
		logging.L(ctx).Debug("navbar state changed",
			logging.String("event", event),
			logging.Any("fields", changed),
		)
	}
	return nil
}

// Render returns the full header markup.
func (n *NavBar) Render(ctx context.Context) core.Renderer {
	return core.HTML(n.HTML())
}

// HTML renders the navbar for its current path and state.
func (n *NavBar) HTML() string {
	b := element.NewBuilder()
	element.RenderComponents(b, Markup{
		Brand: n.brand,
		View:  BuildView(n.currentPath(), n.state),
		Icons: n.icons,
	})
	return b.String()
}

// Terminate drops the menu state.
func (n *NavBar) Terminate(ctx context.Context, reason core.TerminateReason) error {
	logging.L(ctx).Debug("navbar terminated",
		logging.String("reason", reason.String()),
		logging.String("path", n.currentPath()),
	)
	n.state = MenuState{}
	return nil
}

func (n *NavBar) currentPath() string {
	if n.router == nil {
		return ""
	}
	return n.router.CurrentPath()
}

// publish mirrors the menu state into the assigns and returns the keys that
// changed.
func (n *NavBar) publish() []string {
	n.Assigns().SetAll(map[string]any{
		"mobile_open":    n.state.MobileOpen,
		"solutions_open": n.state.SolutionsOpen,
		"path":           n.currentPath(),
	})
	return n.Assigns().Changed()
}
