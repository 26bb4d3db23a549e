package registry

import (
	"errors"
	"io"
	"net"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// startRegistry serves a fresh store over an in-memory listener and returns
// a client wired to it.
func startRegistry(t *testing.T) (*Client, *Server) {
	t.Helper()

	store, err := OpenStore(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}

	ln := fasthttputil.NewInmemoryListener()
	server := NewServer(store, quietLogger())
	go server.Serve(ln)

	t.Cleanup(func() {
		server.Shutdown()
		store.Close()
	})

	hc := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}
	return NewClient("http://registry/", hc), server
}

func mathPackage() *Package {
	return &Package{
		Name:    "math",
		Version: "1.0.0",
		Functions: []Function{
			{Name: "double", Params: []string{"x"}, Body: []string{"dede x * 2;"}},
			{Name: "zero", Params: []string{}, Body: []string{"dede 0;"}},
		},
	}
}

func TestContributeAndFetch(t *testing.T) {
	client, _ := startRegistry(t)

	if err := client.Contribute(mathPackage()); err != nil {
		t.Fatalf("Contribute: %v", err)
	}

	pkg, err := client.Fetch("math")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if pkg.Name != "math" || pkg.Version != "1.0.0" {
		t.Errorf("unexpected package %+v", pkg)
	}
	if len(pkg.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(pkg.Functions))
	}
	if pkg.Functions[0].Name != "double" || pkg.Functions[0].Body[0] != "dede x * 2;" {
		t.Errorf("function order or body not preserved: %+v", pkg.Functions[0])
	}
	if pkg.Functions[1].Params == nil {
		t.Errorf("empty params should decode as an empty list")
	}
}

func TestFetchUnknownPackage(t *testing.T) {
	client, _ := startRegistry(t)

	_, err := client.Fetch("nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContributeExistingName(t *testing.T) {
	client, _ := startRegistry(t)

	if err := client.Contribute(mathPackage()); err != nil {
		t.Fatal(err)
	}
	err := client.Contribute(mathPackage())
	if !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestContributeInvalidPackages(t *testing.T) {
	client, _ := startRegistry(t)

	if err := client.Contribute(&Package{Version: "1"}); !errors.Is(err, ErrRejected) {
		t.Errorf("empty name: expected ErrRejected, got %v", err)
	}

	dup := mathPackage()
	dup.Functions[1].Name = "double"
	if err := client.Contribute(dup); !errors.Is(err, ErrRejected) {
		t.Errorf("duplicate function: expected ErrRejected, got %v", err)
	}
}

func TestHandlerStatusCodes(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	server := NewServer(store, quietLogger())

	request := func(method, uri, body string) int {
		ctx := &fasthttp.RequestCtx{}
		ctx.Request.Header.SetMethod(method)
		ctx.Request.SetRequestURI(uri)
		ctx.Request.SetBodyString(body)
		server.Handler(ctx)
		return ctx.Response.StatusCode()
	}

	if code := request("POST", contributePath, "{broken"); code != fasthttp.StatusBadRequest {
		t.Errorf("bad JSON: expected 400, got %d", code)
	}
	if code := request("POST", contributePath, `{"name":"p","version":"1","functions":[]}`); code != fasthttp.StatusOK {
		t.Errorf("contribute: expected 200, got %d", code)
	}
	if code := request("GET", "/packages/p", ""); code != fasthttp.StatusOK {
		t.Errorf("get: expected 200, got %d", code)
	}
	if code := request("GET", "/packages/q", ""); code != fasthttp.StatusNotFound {
		t.Errorf("unknown package: expected 404, got %d", code)
	}
	if code := request("GET", "/elsewhere", ""); code != fasthttp.StatusNotFound {
		t.Errorf("unknown endpoint: expected 404, got %d", code)
	}

	// A closed database turns storage failures into 500
	store.Close()
	if code := request("GET", "/packages/p", ""); code != fasthttp.StatusInternalServerError {
		t.Errorf("storage failure: expected 500, got %d", code)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	_, server := startRegistry(t)
	if err := server.Shutdown(); err != nil {
		t.Errorf("first shutdown: %v", err)
	}
	if err := server.Shutdown(); err != nil {
		t.Errorf("second shutdown: %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := mathPackage().Validate(); err != nil {
		t.Errorf("valid package rejected: %v", err)
	}
	pkg := mathPackage()
	pkg.Functions[0].Name = ""
	if err := pkg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
