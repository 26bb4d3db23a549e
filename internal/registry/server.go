package registry

import (
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/labstack/gommon/bytes"
	"github.com/sirupsen/logrus"
	"github.com/tevino/abool/v2"
	"github.com/valyala/fasthttp"
)

const (
	packagesPrefix  = "/packages/"
	contributePath  = "/package/contribute"
	jsonContentType = "application/json"
)

// Server answers registry requests from a Store
type Server struct {
	store  *Store
	log    *logrus.Logger
	server *fasthttp.Server
	closed *abool.AtomicBool
}

// NewServer returns a server for store. A nil logger uses the standard one.
func NewServer(store *Store, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		store:  store,
		log:    log,
		closed: abool.NewBool(false),
	}
	s.server = &fasthttp.Server{
		Handler:      s.Handler,
		Name:         "linstore",
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}
	return s
}

// ListenAndServe serves on addr until Shutdown
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("addr", addr).Info("registry listening")
	return s.server.ListenAndServe(addr)
}

// Serve serves on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	return s.server.Serve(ln)
}

// Shutdown stops the server. Only the first call has an effect.
func (s *Server) Shutdown() error {
	if !s.closed.SetToIf(false, true) {
		return nil
	}
	s.log.Info("registry shutting down")
	return s.server.Shutdown()
}

// Handler routes one request
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch {
	case ctx.IsGet() && strings.HasPrefix(path, packagesPrefix):
		s.getPackage(ctx, strings.TrimPrefix(path, packagesPrefix))
	case ctx.IsPost() && path == contributePath:
		s.contribute(ctx)
	default:
		ctx.Error("no such endpoint", fasthttp.StatusNotFound)
	}

	s.log.WithFields(logrus.Fields{
		"method": string(ctx.Method()),
		"path":   path,
		"status": ctx.Response.StatusCode(),
		"size":   bytes.Format(int64(len(ctx.Response.Body()))),
	}).Debug("request")
}

func (s *Server) getPackage(ctx *fasthttp.RequestCtx, name string) {
	if name == "" {
		ctx.Error("package name required", fasthttp.StatusNotFound)
		return
	}
	pkg, err := s.store.Get(name)
	if errors.Is(err, ErrNotFound) {
		ctx.Error(err.Error(), fasthttp.StatusNotFound)
		return
	}
	if err != nil {
		s.log.WithError(err).Error("get package")
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	body, err := json.Marshal(pkg)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType(jsonContentType)
	ctx.SetBody(body)
}

func (s *Server) contribute(ctx *fasthttp.RequestCtx) {
	pkg := &Package{}
	if err := json.Unmarshal(ctx.PostBody(), pkg); err != nil {
		ctx.Error("Invalid package: "+err.Error(), fasthttp.StatusBadRequest)
		return
	}
	if err := pkg.Validate(); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return
	}
	err := s.store.Create(pkg)
	if errors.Is(err, ErrExists) {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return
	}
	if err != nil {
		s.log.WithError(err).Error("contribute")
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	s.log.WithFields(logrus.Fields{
		"package":   pkg.Name,
		"version":   pkg.Version,
		"functions": len(pkg.Functions),
	}).Info("package contributed")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString("Package contributed successfully")
}
