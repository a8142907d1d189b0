package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/logging"
)

// Transport selects how the MCP server is reached.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

// ParseTransport accepts http or stdio, case insensitive. Empty means http.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "", TransportHTTP:
		return TransportHTTP, nil
	case TransportStdio:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported transport %q (expected http or stdio)", s)
	}
}

const (
	defaultPath = "/mcp"
	defaultAddr = "127.0.0.1:8080"
)

// Runner serves the catalogue over MCP.
type Runner struct {
	Service *app.Service
	Name    string
	Version string

	Transport Transport
	// Addr and Path place the streamable HTTP endpoint.
	Addr string
	Path string
	// CertFile and KeyFile switch HTTP to HTTPS. Both or neither.
	CertFile string
	KeyFile  string

	// Out receives the endpoint URL once listening. Nil means stdout.
	Out io.Writer
	// OnListening is called with the bound address, mostly for tests.
	OnListening func(net.Addr)
}

// Do runs the server until ctx is done.
func (r Runner) Do(ctx context.Context) error {
	if r.Service == nil || r.Service.Persistence == nil {
		return errors.New("mcp runner requires persistence")
	}
	srv := r.newServer()
	log := logging.FromContext(ctx)
	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv, log)
	case TransportStdio:
		log.Debug("serving mcp over stdio")
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", r.Transport)
	}
}

func (r Runner) newServer() *server.MCPServer {
	name := r.Name
	if name == "" {
		name = "a11yreq"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		name+" MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Browse the accessibility requirements catalogue, evaluate clause selections and compose procurement requirement documents."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	svc := NewAppService(r.Service)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) tls() bool { return r.CertFile != "" }

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, log *zap.Logger) error {
	if (r.CertFile == "") != (r.KeyFile == "") {
		return errors.New("both http tls cert and key must be provided")
	}
	path := EndpointPath(r.Path)
	addr := r.Addr
	if addr == "" {
		addr = defaultAddr
	}

	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	url := ListenURL(addr, ln.Addr(), path, r.tls())
	log.Info("serving mcp", zap.String("url", url))
	out := r.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "MCP HTTP server listening on %s\n", url)
	if r.OnListening != nil {
		r.OnListening(ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if r.tls() {
			err = httpSrv.ServeTLS(ln, r.CertFile, r.KeyFile)
		} else {
			err = httpSrv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("mcp shutdown", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}

// EndpointPath cleans a user supplied endpoint path.
func EndpointPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return defaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// ListenURL is the URL clients use to reach a listener bound for the
// requested address. Wildcard hosts are replaced by the bound IP or loopback.
func ListenURL(requested string, bound net.Addr, path string, tls bool) string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	host, _, err := net.SplitHostPort(requested)
	if err != nil {
		host = requested
	}
	tcp, ok := bound.(*net.TCPAddr)
	if !ok {
		return fmt.Sprintf("%s://%s%s", scheme, requested, path)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(host, strconv.Itoa(tcp.Port)), path)
}
